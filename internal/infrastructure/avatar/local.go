package avatar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes avatars below a directory served as static files.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(dir, baseURL string, maxBytes int64) *LocalStore {
	return &LocalStore{dir: dir, baseURL: baseURL, maxBytes: maxBytes, now: time.Now}
}

func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext, err := Extension(filename)
	if err != nil {
		return "", err
	}
	buf, err := readLimited(r, s.maxBytes)
	if err != nil {
		return "", err
	}
	key := ObjectKey(s.now(), ext)
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar dir: %w", err)
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	return publicURL(s.baseURL, key), nil
}
