package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore is the credential store.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return classify(s.db.WithContext(ctx).Create(user).Error, "create user")
}

// Save writes every column of user except refresh_token, which only moves
// through the token methods below. A password staged with SetPassword is
// hashed by the model hook.
func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	return classify(s.db.WithContext(ctx).Omit("refresh_token").Save(user).Error, "save user")
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, classify(err, "get user by id")
	}
	return &user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, classify(err, "get user by username")
	}
	return &user, nil
}

// FindByLogin returns the user whose username or email matches. Empty values never match.
func (s *UserStore) FindByLogin(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	q := s.db.WithContext(ctx)
	switch {
	case username != "" && email != "":
		q = q.Where("username = ? OR email = ?", username, email)
	case username != "":
		q = q.Where("username = ?", username)
	case email != "":
		q = q.Where("email = ?", email)
	default:
		return nil, classify(gorm.ErrRecordNotFound, "find user by login")
	}
	if err := q.Order("created_at ASC").First(&user).Error; err != nil {
		return nil, classify(err, "find user by login")
	}
	return &user, nil
}

func (s *UserStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, classify(err, "check user exists")
	}
	return count > 0, nil
}

func (s *UserStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, classify(err, "check user exists")
	}
	return count > 0, nil
}

// ListByIDs batch-fetches users. Missing ids are skipped; order is unspecified.
func (s *UserStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, classify(err, "list users by id")
	}
	return users, nil
}

// UpdateFields applies a partial update and returns the fresh record.
func (s *UserStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, classify(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound, "update user")
	}
	return s.GetByID(ctx, id)
}

// SetRefreshToken overwrites the stored refresh token, invalidating any previous one.
func (s *UserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token)
	if result.Error != nil {
		return classify(result.Error, "set refresh token")
	}
	if result.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound, "set refresh token")
	}
	return nil
}

// SwapRefreshToken replaces the stored refresh token only if it still equals
// expected. It reports false when another writer got there first or the
// token was revoked.
func (s *UserStore) SwapRefreshToken(ctx context.Context, id uuid.UUID, expected, next string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, expected).
		Update("refresh_token", next)
	if result.Error != nil {
		return false, classify(result.Error, "swap refresh token")
	}
	return result.RowsAffected == 1, nil
}

func (s *UserStore) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", nil).Error
	return classify(err, "clear refresh token")
}
