package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"consoleplus/pkg/fault"
)

// Store persists an ordered list of commands
type Store interface {
	Load() ([]string, error)
	Save(entries []string) error
	Clear() error
}

// FileStore keeps one command per line in a text file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads every non-blank line. A missing file is an empty history.
func (fs *FileStore) Load() ([]string, error) {
	file, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fault.New(fault.ErrorPersistence, "load history", "failed to open history file", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.New(fault.ErrorPersistence, "load history", "failed to read history file", err)
	}

	return entries, nil
}

// Save overwrites the file with entries, one per line. Line breaks inside an
// entry are flattened to spaces so the file stays line-oriented.
func (fs *FileStore) Save(entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		entry = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(entry)
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	return fs.write(b.String())
}

// Clear empties the file
func (fs *FileStore) Clear() error {
	return fs.write("")
}

// write replaces the file contents via a temporary file and rename
func (fs *FileStore) write(content string) error {
	if dir := filepath.Dir(fs.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fault.New(fault.ErrorPersistence, "save history", "failed to create history directory", err)
		}
	}

	tempPath := fs.path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return fault.New(fault.ErrorPersistence, "save history", "failed to write temporary history file", err)
	}

	if err := os.Rename(tempPath, fs.path); err != nil {
		os.Remove(tempPath)
		return fault.New(fault.ErrorPersistence, "save history", fmt.Sprintf("failed to replace %s", fs.path), err)
	}

	return nil
}
