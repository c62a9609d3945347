// Package jsonfile implements the storage contracts on top of flat JSON
// files — one file per collection, each holding a single JSON array.
//
// Every operation re-reads the whole file, works on the decoded slice,
// and (for mutations) writes the whole file back. That is the entire
// consistency model: no write-ahead log, no partial updates. A mutex per
// store serializes operations so concurrent requests cannot interleave
// their read-modify-write cycles and lose updates.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"student-records/internal/storage"
	"student-records/internal/types"
)

// Students is the JSON-file-backed storage.StudentStore.
type Students struct {
	mu   sync.Mutex
	path string

	// lastID is the highest id ever issued by this store. Seeded from
	// the file at open time, advanced on every create, and never reset
	// by deletes — so a freshly created record can't reuse the id of a
	// record deleted earlier in the process lifetime.
	lastID int64
}

// OpenStudents prepares a student store reading and writing path.
// A missing file is treated as an empty collection; the parent directory
// is created so the first write succeeds.
func OpenStudents(path string) (*Students, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile.OpenStudents: %w", err)
	}

	s := &Students{path: path}

	records, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("jsonfile.OpenStudents: %w", err)
	}
	for _, r := range records {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}

	return s, nil
}

// List implements storage.StudentStore.
func (s *Students) List() ([]types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// GetByID implements storage.StudentStore.
func (s *Students) GetByID(id string) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return types.Student{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Student{}, storage.ErrStudentNotFound
}

// Create implements storage.StudentStore. The caller's ID field is
// ignored; the store issues the next id itself.
func (s *Students) Create(student types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return types.Student{}, err
	}

	// Another process may have appended records since open; never issue
	// an id at or below the highest one on disk.
	for _, r := range records {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}

	s.lastID++
	student.ID = strconv.FormatInt(s.lastID, 10)

	records = append(records, student)
	if err := s.persist(records); err != nil {
		return types.Student{}, err
	}
	return student, nil
}

// Update implements storage.StudentStore.
func (s *Students) Update(id string, patch types.StudentPatch) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return types.Student{}, err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		patch.Apply(&records[i])
		if err := s.persist(records); err != nil {
			return types.Student{}, err
		}
		return records[i], nil
	}
	return types.Student{}, storage.ErrStudentNotFound
}

// Delete implements storage.StudentStore.
func (s *Students) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		return s.persist(records)
	}
	return storage.ErrStudentNotFound
}

func (s *Students) load() ([]types.Student, error) {
	records := make([]types.Student, 0)
	if err := readArray(s.path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Students) persist(records []types.Student) error {
	return writeArray(s.path, records)
}

// Credentials is the JSON-file-backed storage.CredentialStore.
type Credentials struct {
	mu   sync.Mutex
	path string
}

// OpenCredentials prepares a credential store reading and writing path.
func OpenCredentials(path string) (*Credentials, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile.OpenCredentials: %w", err)
	}

	c := &Credentials{path: path}
	if _, err := c.load(); err != nil {
		return nil, fmt.Errorf("jsonfile.OpenCredentials: %w", err)
	}
	return c, nil
}

// Register implements storage.CredentialStore.
func (c *Credentials) Register(cred types.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == cred.Email {
			return storage.ErrEmailTaken
		}
	}

	users = append(users, cred)
	return writeArray(c.path, users)
}

// Authenticate implements storage.CredentialStore.
func (c *Credentials) Authenticate(email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return nil
		}
	}
	return storage.ErrInvalidCredentials
}

func (c *Credentials) load() ([]types.Credential, error) {
	users := make([]types.Credential, 0)
	if err := readArray(c.path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// readArray decodes the JSON array at path into out. A missing file is an
// empty collection, not an error.
func readArray(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeArray rewrites the whole file. Indented output keeps the files
// readable when edited or seeded by hand.
func writeArray(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
