package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
)

func (r *GormRepo) GetTags(ctx context.Context) ([]models.Tag, error) {
	var items []models.Tag
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *GormRepo) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("uid = ?", id).First(&tag).Error; err != nil {
		return nil, mapErr(err)
	}
	return &tag, nil
}

func (r *GormRepo) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, mapErr(err)
	}
	return &tag, nil
}

func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	return mapErr(r.DB.WithContext(ctx).Create(tag).Error)
}

func (r *GormRepo) RenameTag(ctx context.Context, id uuid.UUID, name string) (*models.Tag, error) {
	tag, err := r.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	tag.Name = name
	if err := r.DB.WithContext(ctx).Save(tag).Error; err != nil {
		return nil, mapErr(err)
	}
	return tag, nil
}

func (r *GormRepo) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := r.DB.WithContext(ctx).Exec("DELETE FROM book_tags WHERE tag_uid = ?", id).Error; err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Where("uid = ?", id).Delete(&models.Tag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachTags links the named tags to the book, creating any that do not exist yet.
func (r *GormRepo) AttachTags(ctx context.Context, book *models.Book, names []string) error {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		tag := models.Tag{Name: name}
		if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return mapErr(err)
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(book).Association("Tags").Append(tags)
}
