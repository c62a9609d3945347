// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, validation, and search can all import types without
// depending on each other.
package types

// Student is one student record, both as persisted and as serialized over
// the API. The json tags define the wire format.
type Student struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	RegistrationNumber string  `json:"registrationNumber"`
	Major              string  `json:"major"`
	DOB                string  `json:"dob"`
	GPA                float64 `json:"gpa"`
}

// NewStudentRequest is the POST /api/students payload.
//
// Every field is required (checked by the validate tags). GPA is decoded
// as `any` rather than float64 so validation can distinguish "missing",
// "not a number", and "too high" — a float64 field would turn a string
// GPA into an opaque decode error before validation ever ran.
type NewStudentRequest struct {
	Name               string `json:"name" validate:"required"`
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	Major              string `json:"major" validate:"required"`
	DOB                string `json:"dob" validate:"required"`
	GPA                any    `json:"gpa" validate:"required"`
}

// StudentPatch is the PUT /api/students/{id} payload. Pointer fields
// distinguish "not provided" (nil, keep the stored value) from "provided"
// (overwrite), which gives the shallow-merge update semantics.
type StudentPatch struct {
	Name               *string  `json:"name"`
	RegistrationNumber *string  `json:"registrationNumber"`
	Major              *string  `json:"major"`
	DOB                *string  `json:"dob"`
	GPA                *float64 `json:"gpa"`
}

// Apply overlays the provided fields of the patch onto s.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.RegistrationNumber != nil {
		s.RegistrationNumber = *p.RegistrationNumber
	}
	if p.Major != nil {
		s.Major = *p.Major
	}
	if p.DOB != nil {
		s.DOB = *p.DOB
	}
	if p.GPA != nil {
		s.GPA = *p.GPA
	}
}

// Credential is one registered login identity. Passwords are stored and
// compared in plain text — the login endpoint is an access gate for a toy
// system, not a security boundary.
//
// "emailshape" is a custom validator rule (see internal/validation) that
// checks the local@domain.tld shape; field order matters because the first
// failing field decides the error message.
type Credential struct {
	Email    string `json:"email" validate:"required,emailshape"`
	Password string `json:"password" validate:"required,min=6"`
}

// StudentForm carries raw text field values from an HTML form, before any
// type conversion. GPA arrives as a string here and is checked against a
// decimal pattern instead of being decoded as a number.
type StudentForm struct {
	Name               string
	RegistrationNumber string
	Major              string
	DateOfBirth        string
	GPA                string
}
