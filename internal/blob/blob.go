// Package blob stores uploaded media and hands back the public URL that the
// rest of the service persists. The local backend serves development setups;
// S3 (or any S3-compatible endpoint) serves production.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNilFileHeader      = errors.New("file header is nil")
	ErrInvalidKey         = errors.New("invalid object key")
	ErrInvalidConfig      = errors.New("invalid blob storage configuration")
	ErrObjectNotFound     = errors.New("object not found")
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("storage service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
	ErrUploadFailed       = errors.New("upload failed")
	ErrUnsupportedType    = errors.New("unsupported media type")
)

// Object describes a stored upload.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Storage is the blob store consumed by the account and video services.
type Storage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// mediaTypes is the upload allowlist: sniffed MIME type to the extension
// objects of that type are stored under. Types that browsers execute (HTML,
// SVG, XML) are never listed.
var mediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"video/avi":  ".avi",
}

// NewKey builds a collision-free object key under prefix. The extension comes
// from the sniffed content type, never from the client's file name.
func NewKey(prefix, contentType string) string {
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString()+Extension(contentType))
}

// Extension returns the stored extension for an allowed content type, or ""
// when the type is not accepted.
func Extension(contentType string) string {
	return mediaTypes[contentType]
}

// DetectContentType sniffs the MIME type from the first 512 bytes of the
// upload. The client-declared Content-Type is ignored.
func DetectContentType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// Inspect sniffs fh and checks it against the allowlist for the given major
// type ("image" or "video").
func Inspect(fh *multipart.FileHeader, major string) (string, error) {
	ct, err := DetectContentType(fh)
	if err != nil {
		return "", err
	}
	if Extension(ct) == "" || !strings.HasPrefix(ct, major+"/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	return ct, nil
}

func IsImage(fh *multipart.FileHeader) bool {
	_, err := Inspect(fh, "image")
	return err == nil
}

func IsVideo(fh *multipart.FileHeader) bool {
	_, err := Inspect(fh, "video")
	return err == nil
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return key, nil
}
