package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"
)

// Backend performs raw text I/O against message files. Implementations hold
// no state between calls.
type Backend interface {
	// ReadAllText returns the full content of the file at path.
	ReadAllText(path string) (string, error)
	// WriteAllText creates or truncates the file at path and writes text.
	WriteAllText(path, text string) error
	// Exists reports whether path exists. Failures other than not-exist are
	// returned as errors.
	Exists(path string) (bool, error)
}

type fileBackend struct{}

// NewFileBackend returns the os-backed Backend. Content is UTF-8 and written
// byte-for-byte with no framing or newline normalization.
func NewFileBackend() Backend {
	return fileBackend{}
}

func (fileBackend) ReadAllText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	return string(data), nil
}

func (fileBackend) WriteAllText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}

func (fileBackend) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FilePath returns the path of the file holding message id under dir.
func FilePath(dir string, id MessageID) string {
	return filepath.Join(dir, strconv.FormatUint(uint64(id), 10)+".txt")
}
