package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
)

// Minimal payloads whose leading bytes sniff as the named media type.
var (
	PNG  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	JPEG = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	MP4  = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
)

// MockStorage is a testify mock of blob.Storage.
type MockStorage struct {
	mock.Mock
}

var _ blob.Storage = (*MockStorage)(nil)

func (m *MockStorage) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*blob.Object, error) {
	args := m.Called(ctx, fh, key)
	if fn, ok := args.Get(0).(func(context.Context, *multipart.FileHeader, string) *blob.Object); ok {
		return fn(ctx, fh, key), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.Object), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) URL(key string) string {
	return m.Called(key).String(0)
}

// AcceptUploads makes every Save succeed with a URL derived from the key.
func (m *MockStorage) AcceptUploads() *MockStorage {
	m.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(
		func(_ context.Context, fh *multipart.FileHeader, key string) *blob.Object {
			ct, _ := blob.DetectContentType(fh)
			return &blob.Object{Key: key, URL: "https://cdn.test/" + key, Size: fh.Size, ContentType: ct}
		},
		nil,
	)
	m.On("Delete", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// FileHeader builds a multipart.FileHeader the way a parsed request would.
func FileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
