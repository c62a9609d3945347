// Package sqlite provides a SQLite-backed implementation of both storage
// contracts. One file on disk, no server process — a step up from the
// JSON files without changing anything the handlers can observe.
//
// Ids stay strings at the contract boundary; inside they are the table's
// INTEGER PRIMARY KEY. AUTOINCREMENT keeps issued ids monotonic so a
// deleted record's id is never handed out again.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"student-records/internal/storage"
	"student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite implements storage.StudentStore and storage.CredentialStore on a
// single database file. *sql.DB is a connection pool and is safe for
// concurrent use; SQLite itself serializes writers, so the lost-update
// interleaving the JSON files had to guard against cannot happen here.
type SQLite struct {
	db *sql.DB
}

// New opens the database at path and creates both tables if they do not
// already exist.
func New(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			name                TEXT NOT NULL,
			registration_number TEXT NOT NULL,
			major               TEXT NOT NULL,
			dob                 TEXT NOT NULL,
			gpa                 REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS users (
			email    TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create tables: %w", err)
	}

	return &SQLite{db: db}, nil
}

// List implements storage.StudentStore.
func (s *SQLite) List() ([]types.Student, error) {
	rows, err := s.db.Query(
		"SELECT id, name, registration_number, major, dob, gpa FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("List: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("List: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows iteration: %w", err)
	}
	return students, nil
}

// GetByID implements storage.StudentStore. A non-numeric id cannot match
// any row, so it reports not-found rather than an error.
func (s *SQLite) GetByID(id string) (types.Student, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return types.Student{}, storage.ErrStudentNotFound
	}

	row := s.db.QueryRow(
		"SELECT id, name, registration_number, major, dob, gpa FROM students WHERE id = ? LIMIT 1", n,
	)
	st, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return types.Student{}, storage.ErrStudentNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetByID: scan: %w", err)
	}
	return st, nil
}

// Create implements storage.StudentStore. The id is the row's
// auto-assigned primary key, formatted back to a string.
func (s *SQLite) Create(st types.Student) (types.Student, error) {
	result, err := s.db.Exec(
		"INSERT INTO students (name, registration_number, major, dob, gpa) VALUES (?, ?, ?, ?, ?)",
		st.Name, st.RegistrationNumber, st.Major, st.DOB, st.GPA,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Create: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("Create: last insert id: %w", err)
	}

	st.ID = strconv.FormatInt(lastID, 10)
	return st, nil
}

// Update implements storage.StudentStore. The merge happens here in Go —
// read the row, overlay the provided fields, write all columns back — so
// both backends share one merge semantic.
func (s *SQLite) Update(id string, patch types.StudentPatch) (types.Student, error) {
	st, err := s.GetByID(id)
	if err != nil {
		return types.Student{}, err
	}

	patch.Apply(&st)

	_, err = s.db.Exec(
		"UPDATE students SET name = ?, registration_number = ?, major = ?, dob = ?, gpa = ? WHERE id = ?",
		st.Name, st.RegistrationNumber, st.Major, st.DOB, st.GPA, st.ID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Update: exec: %w", err)
	}
	return st, nil
}

// Delete implements storage.StudentStore.
func (s *SQLite) Delete(id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return storage.ErrStudentNotFound
	}

	result, err := s.db.Exec("DELETE FROM students WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("Delete: exec: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrStudentNotFound
	}
	return nil
}

// Register implements storage.CredentialStore.
func (s *SQLite) Register(c types.Credential) error {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE email = ? LIMIT 1", c.Email).Scan(&exists)
	if err == nil {
		return storage.ErrEmailTaken
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("Register: lookup: %w", err)
	}

	_, err = s.db.Exec("INSERT INTO users (email, password) VALUES (?, ?)", c.Email, c.Password)
	if err != nil {
		return fmt.Errorf("Register: exec: %w", err)
	}
	return nil
}

// Authenticate implements storage.CredentialStore.
func (s *SQLite) Authenticate(email, password string) error {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM users WHERE email = ? AND password = ? LIMIT 1", email, password,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("Authenticate: query: %w", err)
	}
	return nil
}

// scanStudent reads one row's columns in SELECT order. The id column is
// an int64 in the table and a string everywhere else.
func scanStudent(scan func(...any) error) (types.Student, error) {
	var st types.Student
	var id int64
	if err := scan(&id, &st.Name, &st.RegistrationNumber, &st.Major, &st.DOB, &st.GPA); err != nil {
		return types.Student{}, err
	}
	st.ID = strconv.FormatInt(id, 10)
	return st, nil
}
