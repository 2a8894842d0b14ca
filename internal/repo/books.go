package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/transport"
)

func (r *GormRepo) GetBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Book
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Preload("Tags").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetBooksByUser(ctx context.Context, userUID uuid.UUID) ([]models.Book, error) {
	var items []models.Book
	err := r.DB.WithContext(ctx).
		Preload("Tags").
		Where("user_uid = ?", userUID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := r.DB.WithContext(ctx).
		Preload("Tags").
		Preload("Reviews").
		Where("uid = ?", id).
		First(&book).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &book, nil
}

func (r *GormRepo) CreateBook(ctx context.Context, book *models.Book) error {
	return mapErr(r.DB.WithContext(ctx).Create(book).Error)
}

func (r *GormRepo) PatchBook(ctx context.Context, id uuid.UUID, req transport.PatchBookRequest) (*models.Book, error) {
	var book models.Book
	if err := r.DB.WithContext(ctx).Where("uid = ?", id).First(&book).Error; err != nil {
		return nil, mapErr(err)
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublishedDate != nil {
		book.PublishedDate = *req.PublishedDate
	}
	if req.PageCount != nil {
		book.PageCount = *req.PageCount
	}
	if req.Language != nil {
		book.Language = *req.Language
	}

	if err := r.DB.WithContext(ctx).Save(&book).Error; err != nil {
		return nil, mapErr(err)
	}
	return &book, nil
}

func (r *GormRepo) DeleteBook(ctx context.Context, id uuid.UUID) error {
	book := models.Book{UID: id}
	if err := r.DB.WithContext(ctx).Model(&book).Association("Tags").Clear(); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Where("book_uid = ?", id).Delete(&models.Review{}).Error; err != nil {
		return err
	}

	res := r.DB.WithContext(ctx).Where("uid = ?", id).Delete(&models.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchBooks is a plain substring match over title and author.
func (r *GormRepo) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(title) LIKE ? OR LOWER(author) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Book
	if err := r.DB.WithContext(ctx).
		Where(where, pattern, pattern).
		Order("title ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
