package fsxlocal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kabalen/permitdocs/pkg/fsx"
)

// LocalFileSystem implements fsx.FileSystem on a local directory.
// Used in development and tests.
type LocalFileSystem struct {
	root string
}

func NewLocalFileSystem(root string) *LocalFileSystem {
	return &LocalFileSystem{root: root}
}

func (f *LocalFileSystem) abs(filePath string) string {
	return filepath.Join(f.root, filepath.FromSlash(filePath))
}

func (f *LocalFileSystem) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	data, err := os.ReadFile(f.abs(filePath))
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", filePath, err)
	}
	return data, nil
}

func (f *LocalFileSystem) WriteFile(ctx context.Context, filePath string, data []byte) error {
	target := f.abs(filePath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", filePath, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", filePath, err)
	}
	return nil
}

func (f *LocalFileSystem) WriteFileStream(ctx context.Context, filePath string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stream for %s: %w", filePath, err)
	}
	return f.WriteFile(ctx, filePath, data)
}

func (f *LocalFileSystem) ReadFileStream(ctx context.Context, filePath string) (io.ReadCloser, error) {
	file, err := os.Open(f.abs(filePath))
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", filePath, err)
	}
	return file, nil
}

func (f *LocalFileSystem) DeleteFile(ctx context.Context, filePath string) error {
	if err := os.Remove(f.abs(filePath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file %s: %w", filePath, err)
	}
	return nil
}

func (f *LocalFileSystem) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := os.Stat(f.abs(filePath))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file %s: %w", filePath, err)
	}
	return true, nil
}

func (f *LocalFileSystem) Join(elem ...string) string {
	return fsx.JoinPath(elem...)
}
