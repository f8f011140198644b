package store

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoFilter narrows List. Zero values mean "no constraint".
type VideoFilter struct {
	OwnerID       uuid.UUID
	TitleContains string
	PublishedOnly bool
	SortBy        string // created_at, duration or title
	Descending    bool
	Limit         int
	Offset        int
}

var videoSortColumns = map[string]bool{
	"created_at": true,
	"duration":   true,
	"title":      true,
}

type VideoStore struct {
	db *gorm.DB
}

func NewVideoStore(db *gorm.DB) *VideoStore {
	return &VideoStore{db: db}
}

func (s *VideoStore) Create(ctx context.Context, video *models.Video) error {
	return classify(s.db.WithContext(ctx).Create(video).Error, "create video")
}

func (s *VideoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := s.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		return nil, classify(err, "get video")
	}
	return &video, nil
}

// ListByIDs batch-fetches videos. Missing ids are skipped; order is unspecified.
func (s *VideoStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []models.Video
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, classify(err, "list videos by id")
	}
	return videos, nil
}

func (s *VideoStore) List(ctx context.Context, f VideoFilter) ([]models.Video, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Video{})
	if f.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if f.OwnerID != uuid.Nil {
		query = query.Where("owner_id = ?", f.OwnerID)
	}
	if f.TitleContains != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(f.TitleContains))+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, classify(err, "count videos")
	}

	column := f.SortBy
	if !videoSortColumns[column] {
		column = "created_at"
	}
	order := column + " ASC"
	if f.Descending {
		order = column + " DESC"
	}

	var videos []models.Video
	query = query.Order(order).Order("id ASC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}
	if err := query.Find(&videos).Error; err != nil {
		return nil, 0, classify(err, "list videos")
	}
	return videos, total, nil
}

func (s *VideoStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Video, error) {
	result := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, classify(result.Error, "update video")
	}
	if result.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound, "update video")
	}
	return s.GetByID(ctx, id)
}

// TogglePublished flips is_published in place so concurrent toggles do not lose updates.
func (s *VideoStore) TogglePublished(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	return s.UpdateFields(ctx, id, map[string]interface{}{
		"is_published": gorm.Expr("NOT is_published"),
	})
}

func (s *VideoStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Video{})
	if result.Error != nil {
		return classify(result.Error, "delete video")
	}
	if result.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound, "delete video")
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
