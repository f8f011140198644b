package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage keeps objects under a base directory. All keys are confined
// to that directory.
type LocalStorage struct {
	baseDir       string
	baseURL       string
	uploadTimeout time.Duration
}

func NewLocalStorage(baseDir, baseURL string, uploadTimeout time.Duration) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{baseDir: abs, baseURL: baseURL, uploadTimeout: uploadTimeout}, nil
}

// Dir is the directory objects are written to.
func (s *LocalStorage) Dir() string { return s.baseDir }

func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	abs, key, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	// Static serving picks Content-Type from the extension, so the key has
	// to agree with what the bytes actually are.
	contentType, err := DetectContentType(fh)
	if err != nil {
		return nil, err
	}
	if ext := Extension(contentType); ext == "" || !strings.EqualFold(filepath.Ext(key), ext) {
		return nil, fmt.Errorf("%w: %s stored as %q", ErrUnsupportedType, contentType, filepath.Ext(key))
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	written, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src})
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(abs)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrOperationTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, ErrOperationCanceled
		}
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return &Object{
		Key:         key,
		URL:         s.URL(key),
		Size:        written,
		ContentType: contentType,
	}, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	abs, _, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}

func (s *LocalStorage) resolve(key string) (string, string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	abs := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(abs, s.baseDir+string(os.PathSeparator)) {
		return "", "", ErrInvalidKey
	}
	return abs, key, nil
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
