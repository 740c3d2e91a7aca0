// Package fsx abstracts file storage so services never touch a concrete
// backend directly. Production uses the S3 implementation in fsxs3; tests
// and local development use fsxlocal.
package fsx

import (
	"context"
	"io"
	"path"
)

// FileReader is the read-only subset used by workers
type FileReader interface {
	// ReadFile reads the whole object at the given path
	ReadFile(ctx context.Context, filePath string) ([]byte, error)
}

// FileSystem is the full storage contract
type FileSystem interface {
	FileReader

	// WriteFile stores data at the given path, replacing any existing object
	WriteFile(ctx context.Context, filePath string, data []byte) error

	// WriteFileStream stores the contents of r at the given path
	WriteFileStream(ctx context.Context, filePath string, r io.Reader) error

	// ReadFileStream opens the object at the given path for streaming reads
	ReadFileStream(ctx context.Context, filePath string) (io.ReadCloser, error)

	// DeleteFile removes the object at the given path
	DeleteFile(ctx context.Context, filePath string) error

	// Exists reports whether an object is stored at the given path
	Exists(ctx context.Context, filePath string) (bool, error)

	// Join builds a storage path from segments
	Join(elem ...string) string
}

// JoinPath is the default path joiner shared by implementations
func JoinPath(elem ...string) string {
	return path.Join(elem...)
}
