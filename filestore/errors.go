package filestore

import "errors"

// Sentinel errors for store construction and file I/O.
var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrInvalidEncoding   = errors.New("message file is not valid UTF-8")
	ErrMissingPath       = errors.New("working directory path is required")
)
