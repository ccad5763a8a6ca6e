// Package local хранит загруженные файлы в каталоге на диске.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/GoArmGo/PhotoShare/internal/domain"
)

// Disk реализует ports.FileStorage поверх локального каталога
type Disk struct {
	dir    string
	logger *slog.Logger
}

// NewDisk создает каталог, если его нет
func NewDisk(dir string, logger *slog.Logger) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	logger.Info("local file storage ready", "dir", dir)
	return &Disk{dir: dir, logger: logger}, nil
}

// path отклоняет ключи, выходящие за пределы каталога
func (d *Disk) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid file key %q: %w", key, domain.ErrNotFound)
	}
	return filepath.Join(d.dir, key), nil
}

// UploadFile записывает файл атомарно: сначала во временный файл, затем rename
func (d *Disk) UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	start := time.Now()

	dst, err := d.path(key)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		d.logger.Error("failed to write file", "key", key, "error", err)
		return "", fmt.Errorf("write file %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("move file %s: %w", key, err)
	}

	d.logger.Info("file stored on disk",
		"key", key,
		"bytes", written,
		"content_type", contentType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return dst, nil
}

func (d *Disk) GetFile(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("file %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", key, err)
	}
	return f, nil
}

func (d *Disk) Exists(_ context.Context, key string) (bool, error) {
	p, err := d.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat file %s: %w", key, err)
	}
}

func (d *Disk) DeleteFile(_ context.Context, key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file %s: %w", key, err)
	}
	return nil
}
