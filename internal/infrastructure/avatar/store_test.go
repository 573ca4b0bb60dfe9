package avatar

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.WebP"} {
		_, err := Extension(name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"a.exe", "noext", "a.png.sh", ""} {
		_, err := Extension(name)
		assert.ErrorIs(t, err, ErrUnsupportedType, name)
	}
	ext, err := Extension("Photo.JPEG")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", ext)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(time.Date(2026, 2, 12, 23, 30, 0, 0, time.UTC), "png")
	assert.True(t, strings.HasPrefix(key, "avatar/2026/02/12/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
}

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/", 16)
	store.now = func() time.Time { return time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC) }

	ref, err := store.Save(context.Background(), "me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/avatar/2026/02/12/"), ref)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(ref, "/"))))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStore_Rejects(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "", 4)

	_, err := store.Save(context.Background(), "me.png", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Save(context.Background(), "me.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = store.Save(context.Background(), "me.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Save(t *testing.T) {
	putter := &fakePutter{}
	store := newS3Store(putter, "lantern", "https://cdn.example.com/", 1024)

	ref, err := store.Save(context.Background(), "me.webp", bytes.NewReader([]byte("img")))
	require.NoError(t, err)

	require.NotNil(t, putter.input)
	assert.Equal(t, "lantern", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/webp", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "https://cdn.example.com/"+aws.ToString(putter.input.Key), ref)
	assert.Equal(t, "img", string(putter.body))
}

func TestS3Store_UploadError(t *testing.T) {
	putter := &fakePutter{err: errors.New("boom")}
	store := newS3Store(putter, "lantern", "https://cdn.example.com", 1024)

	_, err := store.Save(context.Background(), "me.png", strings.NewReader("img"))
	assert.Error(t, err)
}
