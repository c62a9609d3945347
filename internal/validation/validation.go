// Package validation is the single home of the field-acceptance rules for
// student records and login credentials. Both the API handlers and any
// form-level pre-check consume these same functions, so the rules cannot
// drift between the two.
//
// All functions are pure: they inspect their input and return a rejection
// reason, never touching a store.
package validation

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"student-records/internal/types"
)

// Rejection reasons. The error text is the exact message surfaced to the
// client in the {message} body, so these read as sentences, not as Go
// error strings.
var (
	ErrAllFieldsRequired = errors.New("All fields are required.")
	ErrGPANotNumber      = errors.New("GPA must be a number.")
	ErrGPATooHigh        = errors.New("GPA cannot be more than 5.")

	ErrCredentialsRequired = errors.New("All fields are required")
	ErrEmailInvalid        = errors.New("Email is invalid")
	ErrPasswordTooShort    = errors.New("Password must be at least 6 characters long")

	ErrNameRequired         = errors.New("Name is required")
	ErrRegistrationRequired = errors.New("Registration number is required")
	ErrMajorRequired        = errors.New("Major is required")
	ErrDOBRequired          = errors.New("Date of Birth is required")
	ErrGPARequired          = errors.New("GPA is required")
	ErrGPANotDecimal        = errors.New("GPA must be a valid number")
	ErrFormGPATooHigh       = errors.New("GPA cannot be more than 5")
)

// MaxGPA is the inclusive upper bound on a student's grade point average.
const MaxGPA = 5

var (
	// emailRe accepts local@domain.tld: no spaces, no extra '@', at least
	// one dot in the domain part. Deliberately loose — shape, not RFC.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// gpaRe accepts a plain decimal number as typed into a form field.
	gpaRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Rules wraps a validator instance with the custom checks this API needs
// registered on it. Build one at startup and share it; validator.New is
// not cheap enough to call per request.
type Rules struct {
	v *validator.Validate
}

// New returns a Rules with the "emailshape" rule registered.
func New() *Rules {
	v := validator.New()

	// RegisterValidation never fails for a non-empty tag and a non-nil
	// func, so the error is ignored the way the validator docs show.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})

	return &Rules{v: v}
}

// NewStudent checks a create-student payload and returns the accepted GPA
// value. Field presence is checked first across all fields (one shared
// message), then the GPA's type, then its bound — the same order the
// create endpoint has always replied in. A GPA of exactly 0 counts as
// missing, matching the falsy presence check.
func (r *Rules) NewStudent(req types.NewStudentRequest) (float64, error) {
	if err := r.v.Struct(req); err != nil {
		return 0, ErrAllFieldsRequired
	}

	// The struct tags cannot express the falsy check on an `any` field:
	// validator's required rule passes any non-nil interface, including
	// one holding 0, false, or "". Those all read as "missing" here.
	if falsy(req.GPA) {
		return 0, ErrAllFieldsRequired
	}

	gpa, ok := req.GPA.(float64)
	if !ok {
		return 0, ErrGPANotNumber
	}
	if gpa > MaxGPA {
		return 0, ErrGPATooHigh
	}
	return gpa, nil
}

// Credentials checks a login/register payload. Presence of both fields is
// checked before any individual rule, then the struct-tag rules run in
// field order: email shape first, password length second.
func (r *Rules) Credentials(c types.Credential) error {
	if c.Email == "" || c.Password == "" {
		return ErrCredentialsRequired
	}

	err := r.v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// The first failing field decides the message. validator reports
	// errors in struct field order, so Email beats Password here.
	switch verrs[0].Field() {
	case "Email":
		return ErrEmailInvalid
	default:
		return ErrPasswordTooShort
	}
}

// StudentForm checks raw form input, returning the first rejection in
// field order: name, registration number, major, date of birth, GPA.
// The GPA arrives as text, so it is matched against a decimal pattern
// before its value is compared to the bound.
//
// This path keeps its own per-field messages and ordered short-circuit,
// which struct tags cannot express, so it is written out by hand.
func (r *Rules) StudentForm(f types.StudentForm) error {
	switch {
	case f.Name == "":
		return ErrNameRequired
	case f.RegistrationNumber == "":
		return ErrRegistrationRequired
	case f.Major == "":
		return ErrMajorRequired
	case f.DateOfBirth == "":
		return ErrDOBRequired
	case f.GPA == "":
		return ErrGPARequired
	case !gpaRe.MatchString(f.GPA):
		return ErrGPANotDecimal
	}

	// The pattern only admits digits and one dot, so ParseFloat cannot
	// fail past this point.
	if v, _ := strconv.ParseFloat(f.GPA, 64); v > MaxGPA {
		return ErrFormGPATooHigh
	}
	return nil
}

// falsy reports whether a decoded JSON value counts as absent: null, 0,
// false, or the empty string. Decoded JSON only ever produces these
// scalar types (numbers arrive as float64).
func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return x == 0
	case bool:
		return !x
	case string:
		return x == ""
	}
	return false
}
