package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("avatar must be a png, jpg, jpeg, gif or webp image")
	ErrTooLarge        = errors.New("avatar exceeds the maximum upload size")
	ErrEmpty           = errors.New("avatar file is empty")
)

var allowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Store saves an uploaded avatar and returns the reference stored on the user.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Extension returns the lower-cased extension of filename if it is an
// accepted image type.
func Extension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// ObjectKey builds avatar/YYYY/MM/DD/<uuid>.<ext> for the given day.
func ObjectKey(now time.Time, ext string) string {
	return path.Join("avatar", now.UTC().Format("2006/01/02"), uuid.NewString()+"."+ext)
}

func publicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + key
}

// readLimited buffers at most maxBytes from r.
func readLimited(r io.Reader, maxBytes int64) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	if n > maxBytes {
		return nil, ErrTooLarge
	}
	return buf, nil
}
