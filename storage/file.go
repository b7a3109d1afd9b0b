package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps every record in a <name>.csv file under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Init(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create results directory '%s': %w", s.dir, err)
	}
	return nil
}

// Path returns the file of a record.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

// SaveResults rewrites the record file. Readers never observe a partly
// written file.
func (s *FileStore) SaveResults(_ context.Context, name string, lines []string) (err error) {
	if err := validateName(name); err != nil {
		return err
	}

	path := s.Path(name)
	file, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create results file for '%s': %w", name, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err = writer.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write results '%s': %w", path, err)
		}
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to write results '%s': %w", path, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync results '%s': %w", path, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close results '%s': %w", path, err)
	}
	if err = os.Rename(file.Name(), path); err != nil {
		return fmt.Errorf("failed to replace results '%s': %w", path, err)
	}
	return nil
}

// LoadResults reads the non-empty lines of the record file.
func (s *FileStore) LoadResults(_ context.Context, name string) ([]string, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read results '%s': %w", path, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, true, nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid record name %q", name)
	}
	return nil
}
