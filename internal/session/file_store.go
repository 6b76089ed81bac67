package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore persists the session as a YAML file under the profile directory.
// Writes go through a temp file and rename so a concurrent reader sees
// either the old session or the new one, never a torn write; Clear removes
// the file in a single operation.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store rooted at the given path
// (conventionally <profile dir>/session.yml).
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path cannot be empty")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context) (Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	return sess, nil
}

func (s *FileStore) SetPending(ctx context.Context, username, email, phone string) error {
	return s.write(Session{Verified: false, Username: username, Email: email, Phone: phone})
}

func (s *FileStore) SetVerified(ctx context.Context, username, email, phone string) error {
	return s.write(Session{Verified: true, Username: username, Email: email, Phone: phone})
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *FileStore) write(sess Session) error {
	data, err := yaml.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.yml")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp session file: %w", err)
	}

	// Rename is atomic on POSIX filesystems: readers see old or new, never both.
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
