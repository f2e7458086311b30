package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ReceiptExtension is appended to every generated receipt name.
const ReceiptExtension = ".pdf"

var (
	// ErrNotFound is returned when a locator points at a missing file.
	ErrNotFound = errors.New("stored file not found")
	// ErrIO wraps any other filesystem failure.
	ErrIO = errors.New("file storage io failure")
)

// LocalStorage persists uploaded documents on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage returns a handle rooted at baseDir. The directory is created lazily on Store.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage base directory required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	return &LocalStorage{baseDir: abs}, nil
}

// Store writes data under a freshly generated name and returns its file:// locator.
func (s *LocalStorage) Store(data []byte) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: prepare storage directory: %v", ErrIO, err)
	}
	path := filepath.Join(s.baseDir, uuid.NewString()+ReceiptExtension)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write file: %v", ErrIO, err)
	}
	return toLocator(path), nil
}

// Retrieve reads the full content referenced by locator.
func (s *LocalStorage) Retrieve(locator string) ([]byte, error) {
	path, err := s.Resolve(locator)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: read file: %v", ErrIO, err)
	}
	return data, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(locator string) error {
	path, err := s.Resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete file: %v", ErrIO, err)
	}
	return nil
}

// Resolve maps a locator (file:// URI, absolute or base-relative path) to a filesystem path. Locators that
// land outside the storage root are reported as ErrNotFound.
func (s *LocalStorage) Resolve(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("%w: empty locator", ErrNotFound)
	}
	var path string
	switch {
	case strings.HasPrefix(locator, "file:"):
		u, err := url.Parse(locator)
		if err != nil {
			return "", fmt.Errorf("%w: parse locator: %v", ErrIO, err)
		}
		path = filepath.Clean(filepath.FromSlash(u.Path))
	case filepath.IsAbs(locator):
		path = filepath.Clean(locator)
	default:
		path = filepath.Join(s.baseDir, locator)
	}
	if !s.contains(path) {
		return "", fmt.Errorf("%w: locator outside storage root: %s", ErrNotFound, locator)
	}
	return path, nil
}

func (s *LocalStorage) contains(path string) bool {
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Dir exposes the storage root (useful for debugging).
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

func toLocator(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
