// Package artifacts stores QR-code images on the local file system, one file per
// product, at the fixed address <dir>/product_<id>.png.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrWrite wraps every failure to persist an artifact.
var ErrWrite = errors.New("artifact write failed")

// Key is the file name other parts of the system use to find a product's QR code.
func Key(productID int64) string {
	return "product_" + strconv.FormatInt(productID, 10) + ".png"
}

type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("artifacts: creating %s: %w", abs, err)
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) Path(productID int64) string {
	return filepath.Join(s.dir, Key(productID))
}

// Write stores data at the product's address. The bytes go to a hidden temp file
// that is renamed into place, so readers never see a partial artifact.
func (s *FileStore) Write(ctx context.Context, productID int64, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+Key(productID)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing: %v", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing: %v", ErrWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpPath, s.Path(productID)); err != nil {
		return fmt.Errorf("%w: renaming: %v", ErrWrite, err)
	}
	success = true
	return nil
}

// Delete removes the product's artifact. A missing file is not an error.
func (s *FileStore) Delete(productID int64) error {
	err := os.Remove(s.Path(productID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) Exists(productID int64) (bool, error) {
	_, err := os.Stat(s.Path(productID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (s *FileStore) Read(productID int64) ([]byte, error) {
	return os.ReadFile(s.Path(productID))
}
