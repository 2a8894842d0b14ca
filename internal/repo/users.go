package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return mapErr(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) UserExists(ctx context.Context, email, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", id).First(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

// GetUserWithRelations loads the user together with the books and reviews they submitted.
func (r *GormRepo) GetUserWithRelations(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *GormRepo) RoleByEmail(ctx context.Context, email string) (string, bool, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.Role, true, nil
}

func (r *GormRepo) MarkVerified(ctx context.Context, email string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("is_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
