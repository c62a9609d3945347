package student

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"student-records/internal/storage"
	"student-records/internal/types"
	"student-records/internal/utils/response"
	"student-records/internal/validation"
)

// memStore is an in-memory storage.StudentStore for handler tests.
type memStore struct {
	students []types.Student
	failWith error
}

func (m *memStore) List() ([]types.Student, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.students, nil
}

func (m *memStore) GetByID(id string) (types.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			return s, nil
		}
	}
	return types.Student{}, storage.ErrStudentNotFound
}

func (m *memStore) Create(s types.Student) (types.Student, error) {
	if m.failWith != nil {
		return types.Student{}, m.failWith
	}
	s.ID = strconv.Itoa(len(m.students) + 1)
	m.students = append(m.students, s)
	return s, nil
}

func (m *memStore) Update(id string, patch types.StudentPatch) (types.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			patch.Apply(&m.students[i])
			return m.students[i], nil
		}
	}
	return types.Student{}, storage.ErrStudentNotFound
}

func (m *memStore) Delete(id string) error {
	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return storage.ErrStudentNotFound
}

func seeded() *memStore {
	return &memStore{students: []types.Student{
		{ID: "1", Name: "Ada Lovelace", RegistrationNumber: "REG-001", Major: "CS", DOB: "2000-01-01", GPA: 4.5},
		{ID: "2", Name: "Grace Hopper", RegistrationNumber: "REG-002", Major: "Math", DOB: "1999-12-31", GPA: 3.9},
	}}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body.Message
}

func TestCreateStudent(t *testing.T) {
	store := &memStore{}
	handler := New(store, validation.New())

	body := `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":4.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	var payload struct {
		Message string        `json:"message"`
		Student types.Student `json:"student"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Message != "Student added!" {
		t.Fatalf("unexpected message %q", payload.Message)
	}
	if payload.Student.ID != "1" {
		t.Fatalf("expected id 1, got %q", payload.Student.ID)
	}
	if len(store.students) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.students))
	}
}

func TestCreateStudentRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":4.5}`, "All fields are required."},
		{"missing registrationNumber", `{"name":"Ada","major":"CS","dob":"2000-01-01","gpa":4.5}`, "All fields are required."},
		{"missing major", `{"name":"Ada","registrationNumber":"R1","dob":"2000-01-01","gpa":4.5}`, "All fields are required."},
		{"missing dob", `{"name":"Ada","registrationNumber":"R1","major":"CS","gpa":4.5}`, "All fields are required."},
		{"missing gpa", `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01"}`, "All fields are required."},
		{"zero gpa counts as missing", `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":0}`, "All fields are required."},
		{"false gpa counts as missing", `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":false}`, "All fields are required."},
		{"empty body", ``, "All fields are required."},
		{"string gpa", `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":"4.5"}`, "GPA must be a number."},
		{"gpa above bound", `{"name":"Ada","registrationNumber":"R1","major":"CS","dob":"2000-01-01","gpa":5.5}`, "GPA cannot be more than 5."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &memStore{}
			handler := New(store, validation.New())

			req := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			if got := decodeMessage(t, rec); got != tc.want {
				t.Fatalf("expected message %q, got %q", tc.want, got)
			}
			if len(store.students) != 0 {
				t.Fatalf("store changed by rejected create: %v", store.students)
			}
		})
	}
}

func TestGetList(t *testing.T) {
	handler := GetList(seeded())

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var students []types.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(students) != 2 || students[0].ID != "1" || students[1].ID != "2" {
		t.Fatalf("expected both records in order, got %v", students)
	}
}

func TestGetListWithQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"name case-insensitive", "ada", 1},
		{"registration case-sensitive", "REG-002", 1},
		{"registration wrong case", "reg-002", 0},
		{"no match", "zzz", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := GetList(seeded())

			req := httptest.NewRequest(http.MethodGet, "/api/students?q="+tc.query, nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			var students []types.Student
			if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(students) != tc.want {
				t.Fatalf("expected %d matches, got %d", tc.want, len(students))
			}
		})
	}
}

func TestGetListStorageFailure(t *testing.T) {
	handler := GetList(&memStore{failWith: errors.New("disk gone")})

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body response.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Message != "Error reading students data" || body.Error != "disk gone" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestGetByID(t *testing.T) {
	handler := GetByID(seeded())

	req := httptest.NewRequest(http.MethodGet, "/api/students/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var st types.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if st.Name != "Ada Lovelace" {
		t.Fatalf("expected Ada Lovelace, got %q", st.Name)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	handler := GetByID(seeded())

	req := httptest.NewRequest(http.MethodGet, "/api/students/999", nil)
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Student not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	store := seeded()
	handler := Update(store)

	req := httptest.NewRequest(http.MethodPut, "/api/students/1", strings.NewReader(`{"gpa":3.2}`))
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Student updated successfully" {
		t.Fatalf("unexpected message %q", got)
	}

	updated := store.students[0]
	if updated.GPA != 3.2 {
		t.Fatalf("expected gpa 3.2, got %v", updated.GPA)
	}
	if updated.Name != "Ada Lovelace" || updated.RegistrationNumber != "REG-001" ||
		updated.Major != "CS" || updated.DOB != "2000-01-01" {
		t.Fatalf("untouched fields changed: %v", updated)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	store := seeded()
	handler := Update(store)

	req := httptest.NewRequest(http.MethodPut, "/api/students/999", strings.NewReader(`{"gpa":3.2}`))
	req.SetPathValue("id", "999")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if store.students[0].GPA != 4.5 {
		t.Fatalf("store changed by failed update: %v", store.students)
	}
}

func TestDeleteTwice(t *testing.T) {
	store := seeded()
	handler := Delete(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/students/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Student deleted successfully" {
		t.Fatalf("unexpected message %q", got)
	}
	if len(store.students) != 1 {
		t.Fatalf("expected exactly one record removed, got %v", store.students)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/students/1", nil)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", rec.Code)
	}
}
