package filestore_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/tailored-agentic-units/msgstore/filestore"
)

func TestFilePath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		id   filestore.MessageID
		want string
	}{
		{name: "zero", dir: "/data", id: 0, want: "/data/0.txt"},
		{name: "simple", dir: "/data", id: 42, want: "/data/42.txt"},
		{name: "relative dir", dir: "messages", id: 7, want: filepath.Join("messages", "7.txt")},
		{name: "max id", dir: "/data", id: 18446744073709551615, want: "/data/18446744073709551615.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filestore.FilePath(tt.dir, tt.id); got != tt.want {
				t.Errorf("FilePath(%q, %d) = %q, want %q", tt.dir, tt.id, got, tt.want)
			}
		})
	}
}

func TestFileBackend_WriteThenRead(t *testing.T) {
	backend := filestore.NewFileBackend()
	path := filepath.Join(t.TempDir(), "1.txt")

	for _, text := range []string{"first", "", "line one\nline two\n", "héllo wörld ✓"} {
		if err := backend.WriteAllText(path, text); err != nil {
			t.Fatalf("WriteAllText(%q) error = %v", text, err)
		}
		got, err := backend.ReadAllText(path)
		if err != nil {
			t.Fatalf("ReadAllText() error = %v", err)
		}
		if got != text {
			t.Errorf("ReadAllText() = %q, want %q", got, text)
		}
	}
}

func TestFileBackend_WriteTruncates(t *testing.T) {
	backend := filestore.NewFileBackend()
	path := filepath.Join(t.TempDir(), "1.txt")

	if err := backend.WriteAllText(path, "a much longer first message"); err != nil {
		t.Fatal(err)
	}
	if err := backend.WriteAllText(path, "short"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "short" {
		t.Errorf("file content = %q, want %q", data, "short")
	}
}

func TestFileBackend_ReadMissing(t *testing.T) {
	backend := filestore.NewFileBackend()

	_, err := backend.ReadAllText(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadAllText() error = %v, want fs.ErrNotExist", err)
	}
}

func TestFileBackend_ReadInvalidUTF8(t *testing.T) {
	backend := filestore.NewFileBackend()
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := backend.ReadAllText(path)
	if !errors.Is(err, filestore.ErrInvalidEncoding) {
		t.Errorf("ReadAllText() error = %v, want %v", err, filestore.ErrInvalidEncoding)
	}
}

func TestFileBackend_WriteIntoMissingDir(t *testing.T) {
	backend := filestore.NewFileBackend()

	err := backend.WriteAllText(filepath.Join(t.TempDir(), "nope", "1.txt"), "x")
	if err == nil {
		t.Fatal("WriteAllText() expected error for missing parent directory")
	}
}

func TestFileBackend_Exists(t *testing.T) {
	backend := filestore.NewFileBackend()
	dir := t.TempDir()
	path := filepath.Join(dir, "1.txt")

	ok, err := backend.Exists(path)
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false, nil", ok, err)
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err = backend.Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
	}
}
