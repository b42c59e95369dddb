package uploads

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrInvalidFile     = errors.New("invalid file data")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotExists   = errors.New("file does not exist")
	ErrInvalidFileName = errors.New("invalid file name")
)

// IUploads stores game thumbnails and assets under opaque keys.
type IUploads interface {
	Save(ctx context.Context, data []byte, key string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Uploads keeps files in a local folder served under urlPrefix.
type Uploads struct {
	folderPath string
	urlPrefix  string
	mu         sync.RWMutex
}

func NewUploads(folderPath, urlPrefix string) (*Uploads, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	folderPath = filepath.Clean(folderPath) + string(filepath.Separator)

	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}

	u := &Uploads{folderPath: folderPath, urlPrefix: urlPrefix}

	if err := u.ensureFolderExists(); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *Uploads) ensureFolderExists() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(u.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(u.folderPath, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Dir is the folder files are written to.
func (u *Uploads) Dir() string {
	return u.folderPath
}

func (u *Uploads) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", ErrInvalidFileName
	}
	return filepath.Join(u.folderPath, key), nil
}

func (u *Uploads) Save(_ context.Context, data []byte, key string) error {
	if len(data) == 0 {
		return ErrInvalidFile
	}

	fullPath, err := u.path(key)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(fullPath); err == nil {
		return ErrFileExists
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.Write(data); err != nil {
		_ = os.Remove(fullPath)
		return err
	}

	return nil
}

func (u *Uploads) Delete(_ context.Context, key string) error {
	fullPath, err := u.path(key)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return ErrFileNotExists
	}

	return os.Remove(fullPath)
}

func (u *Uploads) URL(key string) string {
	if key == "" {
		return ""
	}
	return u.urlPrefix + url.PathEscape(key)
}
