package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileLoader reads images from the local filesystem. Used by the CLI.
type FileLoader struct {
	maxBytes int64
}

func NewFileLoader(maxBytes int64) *FileLoader {
	return &FileLoader{maxBytes: maxBytes}
}

// FetchImage accepts a plain path or a file:// URL.
func (f *FileLoader) FetchImage(ctx context.Context, path string) (*LoadedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = strings.TrimPrefix(path, "file://")

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open image: %s is a directory", path)
	}
	if f.maxBytes > 0 && info.Size() > f.maxBytes {
		return nil, fmt.Errorf("image file exceeds %d bytes", f.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return DecodeBytes(data)
}
