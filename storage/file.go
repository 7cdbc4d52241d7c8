package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"recipebuilder"
)

// FileKV stores each key as a file inside Dir.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) *FileKV {
	return &FileKV{Dir: dir}
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.Dir, url.PathEscape(key)+".json")
}

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, recipebuilder.ErrNotFound
	}
	return b, err
}

// Set writes through a temp file and rename so readers never see a partial document.
func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint: errcheck

	if _, err := tmp.Write(value); err != nil {
		tmp.Close() // nolint: errcheck
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileKV) Remove(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

type FileCatalog struct {
	FilePath string
}

func NewFileCatalog(filePath string) *FileCatalog {
	return &FileCatalog{FilePath: filePath}
}

func (c *FileCatalog) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(c.FilePath)
}
