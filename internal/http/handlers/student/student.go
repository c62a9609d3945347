// Package student contains the HTTP handlers for the student resource.
//
// Each handler is built by a factory that takes its dependencies (the
// store, the validation rules) and returns a func with the signature the
// router wants. The returned closure runs on every request; the factory
// runs once at route registration:
//
//	router.HandleFunc("POST /api/students", student.New(store, rules))
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"student-records/internal/search"
	"student-records/internal/storage"
	"student-records/internal/types"
	"student-records/internal/utils/response"
	"student-records/internal/validation"
)

// New handles POST /api/students: validate, assign an id, append.
//
// Success: 201 { "message": "Student added!", "student": {...} }
// Failure: 400 with the first rejection reason, 500 on storage failure.
func New(store storage.StudentStore, rules *validation.Rules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var req types.NewStudentRequest
		if err := decodeBody(r, &req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(err.Error()))
			return
		}

		gpa, err := rules.NewStudent(req)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(err.Error()))
			return
		}

		created, err := store.Create(types.Student{
			Name:               req.Name,
			RegistrationNumber: req.RegistrationNumber,
			Major:              req.Major,
			DOB:                req.DOB,
			GPA:                gpa,
		})
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error adding student", err))
			return
		}

		slog.Info("student created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": "Student added!",
			"student": created,
		})
	}
}

// GetList handles GET /api/students. With no query it returns the whole
// collection in order; ?q= narrows it by name (case-insensitive) or
// registration number (case-sensitive substring).
func GetList(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := store.List()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error reading students data", err))
			return
		}

		if q := r.URL.Query().Get("q"); q != "" {
			students = search.Filter(students, q)
		}
		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /api/students/{id}.
func GetByID(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		st, err := store.GetByID(id)
		if errors.Is(err, storage.ErrStudentNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Message("Student not found"))
			return
		}
		if err != nil {
			slog.Error("error getting student",
				slog.String("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error reading students data", err))
			return
		}

		response.WriteJSON(w, http.StatusOK, st)
	}
}

// Update handles PUT /api/students/{id}: shallow merge of whatever fields
// the body provides over the stored record. Fields absent from the body
// keep their stored values. No field rules run here — the form is
// expected to have pre-checked its input.
func Update(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		var patch types.StudentPatch
		if err := decodeBody(r, &patch); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(err.Error()))
			return
		}

		_, err := store.Update(id, patch)
		if errors.Is(err, storage.ErrStudentNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Message("Student not found"))
			return
		}
		if err != nil {
			slog.Error("error updating student",
				slog.String("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error updating student", err))
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Student updated successfully"))
	}
}

// Delete handles DELETE /api/students/{id}. Removes exactly one record;
// deleting the same id twice reports not-found the second time.
func Delete(store storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		err := store.Delete(id)
		if errors.Is(err, storage.ErrStudentNotFound) {
			response.WriteJSON(w, http.StatusNotFound, response.Message("Student not found"))
			return
		}
		if err != nil {
			slog.Error("error deleting student",
				slog.String("id", id), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.Internal("Error deleting student", err))
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Student deleted successfully"))
	}
}

// decodeBody decodes the JSON request body into v. An empty body reads as
// "every field missing" rather than a decode failure.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return validation.ErrAllFieldsRequired
	}
	if err != nil {
		return errors.New("Invalid request body")
	}
	return nil
}
