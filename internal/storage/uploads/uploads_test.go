package uploads

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewUploads(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		u, err := NewUploads(t.TempDir(), "/media")
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if u == nil {
			t.Fatal("expected Uploads instance, got nil")
		}
		if u.urlPrefix != "/media/" {
			t.Errorf("expected url prefix with trailing slash, got %q", u.urlPrefix)
		}
	})

	t.Run("empty folder path", func(t *testing.T) {
		u, err := NewUploads("", "/media/")
		if err == nil {
			t.Error("expected error for empty path, got nil")
		}
		if u != nil {
			t.Error("expected nil Uploads for empty path")
		}
	})

	t.Run("nonexistent folder creation", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")

		u, err := NewUploads(dir, "/media/")
		if err != nil {
			t.Errorf("expected folder to be created, got error: %v", err)
		}
		if u == nil {
			t.Error("expected Uploads instance, got nil")
		}

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Error("folder was not created")
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	u, err := NewUploads(dir, "/media/")
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("thumbnail data")

	t.Run("successful save", func(t *testing.T) {
		if err := u.Save(ctx, data, "thumb1.png"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}

		content, err := os.ReadFile(filepath.Join(dir, "thumb1.png"))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(content, data) {
			t.Error("file content does not match original data")
		}
	})

	t.Run("empty data", func(t *testing.T) {
		if err := u.Save(ctx, []byte{}, "empty.png"); err != ErrInvalidFile {
			t.Errorf("expected ErrInvalidFile, got %v", err)
		}
	})

	t.Run("empty filename", func(t *testing.T) {
		if err := u.Save(ctx, data, ""); err != ErrInvalidFileName {
			t.Errorf("expected ErrInvalidFileName, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		if err := u.Save(ctx, data, "../escape.png"); err != ErrInvalidFileName {
			t.Errorf("expected ErrInvalidFileName, got %v", err)
		}
	})

	t.Run("duplicate filename", func(t *testing.T) {
		if err := u.Save(ctx, data, "duplicate.png"); err != nil {
			t.Fatal(err)
		}

		if err := u.Save(ctx, data, "duplicate.png"); err != ErrFileExists {
			t.Errorf("expected ErrFileExists, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	u, err := NewUploads(dir, "/media/")
	if err != nil {
		t.Fatal(err)
	}

	if err := u.Save(ctx, []byte("asset"), "to_delete.zip"); err != nil {
		t.Fatal(err)
	}

	t.Run("successful delete", func(t *testing.T) {
		if err := u.Delete(ctx, "to_delete.zip"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}

		if _, err := os.Stat(filepath.Join(dir, "to_delete.zip")); !os.IsNotExist(err) {
			t.Error("file was not deleted")
		}
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		if err := u.Delete(ctx, "nonexistent.zip"); err != ErrFileNotExists {
			t.Errorf("expected ErrFileNotExists, got %v", err)
		}
	})

	t.Run("empty filename", func(t *testing.T) {
		if err := u.Delete(ctx, ""); err != ErrInvalidFileName {
			t.Errorf("expected ErrInvalidFileName, got %v", err)
		}
	})
}

func TestURL(t *testing.T) {
	u, err := NewUploads(t.TempDir(), "/media/")
	if err != nil {
		t.Fatal(err)
	}

	if got := u.URL("chess.png"); got != "/media/chess.png" {
		t.Errorf("unexpected url %q", got)
	}
	if got := u.URL(""); got != "" {
		t.Errorf("expected empty url for empty key, got %q", got)
	}
}

func TestConcurrentSave(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	u, err := NewUploads(dir, "/media/")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := u.Save(ctx, []byte("data"), "concurrent.png"); err != nil && err != ErrFileExists {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error during concurrent save: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "concurrent.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}
