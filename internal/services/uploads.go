package services

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
)

// uploader stores files and remembers their keys so a failed operation can
// roll them back.
type uploader struct {
	storage blob.Storage
	keys    []string
}

func (u *uploader) upload(ctx context.Context, prefix string, fh *multipart.FileHeader) (*blob.Object, error) {
	contentType, err := blob.DetectContentType(fh)
	if err != nil {
		return nil, internal("inspect "+prefix, err)
	}
	if blob.Extension(contentType) == "" {
		return nil, ErrUnsupportedFileType
	}
	obj, err := u.storage.Save(ctx, fh, blob.NewKey(prefix, contentType))
	if errors.Is(err, blob.ErrUnsupportedType) {
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, internal("upload "+prefix, err)
	}
	u.keys = append(u.keys, obj.Key)
	return obj, nil
}

func (u *uploader) rollback(ctx context.Context) {
	for _, key := range u.keys {
		if err := u.storage.Delete(ctx, key); err != nil {
			slog.Warn("failed to remove orphaned upload", "key", key, "error", err)
		}
	}
	u.keys = nil
}

// discard removes objects that a committed change replaced. Rows written
// before keys were stored have none; those objects are left alone.
func discard(ctx context.Context, storage blob.Storage, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := storage.Delete(ctx, key); err != nil && !errors.Is(err, blob.ErrObjectNotFound) {
			slog.Warn("failed to remove replaced upload", "key", key, "error", err)
		}
	}
}
