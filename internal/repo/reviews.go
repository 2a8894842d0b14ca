package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) GetReviews(ctx context.Context, offset, limit int) (int64, []models.Review, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Review
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("uid = ?", id).First(&review).Error; err != nil {
		return nil, mapErr(err)
	}
	return &review, nil
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return mapErr(r.DB.WithContext(ctx).Create(review).Error)
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("uid = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
