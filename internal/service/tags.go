package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type TagService struct {
	Repo  *repo.GormRepo
	Books *BookService
}

func (s *TagService) GetTags(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.GetTags(ctx)
}

func (s *TagService) CreateTag(ctx context.Context, req transport.TagRequest) (*models.Tag, error) {
	name, err := tagName(req.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetTagByName(ctx, name); err == nil {
		return nil, ErrTagAlreadyExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	tag := &models.Tag{Name: name}
	if err := s.Repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrTagAlreadyExists
		}
		return nil, err
	}
	return tag, nil
}

// AddTagsToBook attaches tags by name, reusing tags that already exist.
func (s *TagService) AddTagsToBook(ctx context.Context, bookUID uuid.UUID, req transport.TagsRequest) (*models.Book, error) {
	names := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		name, err := tagName(t.Name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	book, err := s.Repo.GetBook(ctx, bookUID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		return tx.AttachTags(ctx, book, names)
	})
	if err != nil {
		return nil, err
	}

	book, err = s.Repo.GetBook(ctx, bookUID)
	if err != nil {
		return nil, err
	}
	if s.Books != nil {
		s.Books.reindex(ctx, book)
	}
	return book, nil
}

func (s *TagService) UpdateTag(ctx context.Context, id uuid.UUID, req transport.TagRequest) (*models.Tag, error) {
	name, err := tagName(req.Name)
	if err != nil {
		return nil, err
	}
	if existing, err := s.Repo.GetTagByName(ctx, name); err == nil && existing.UID != id {
		return nil, ErrTagAlreadyExists
	}

	tag, err := s.Repo.RenameTag(ctx, id, name)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrTagNotFound
	case errors.Is(err, repo.ErrConflict):
		return nil, ErrTagAlreadyExists
	}
	return tag, err
}

func (s *TagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.DeleteTag(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTagNotFound
	}
	return err
}

func tagName(raw string) (string, error) {
	req := transport.TagRequest{Name: strings.TrimSpace(raw)}
	if err := validateRequest(req); err != nil {
		return "", err
	}
	return req.Name, nil
}
