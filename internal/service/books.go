package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/search"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type BookService struct {
	Repo *repo.GormRepo
	// Index is optional. Without it search falls back to the database.
	Index search.Indexer
}

func (s *BookService) GetBooks(ctx context.Context, offset, limit int) (int64, []models.Book, error) {
	return s.Repo.GetBooks(ctx, offset, limit)
}

func (s *BookService) GetUserBooks(ctx context.Context, userUID uuid.UUID) ([]models.Book, error) {
	return s.Repo.GetBooksByUser(ctx, userUID)
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBookNotFound
	}
	return book, err
}

func (s *BookService) CreateBook(ctx context.Context, userUID uuid.UUID, req transport.CreateBookRequest) (*models.Book, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
		UserUID:       &userUID,
	}
	if err := s.Repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	s.reindex(ctx, book)
	return book, nil
}

// PatchBook and DeleteBook are allowed for the submitting user and for admins.
func (s *BookService) PatchBook(ctx context.Context, id uuid.UUID, actor Actor, req transport.PatchBookRequest) (*models.Book, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, id, actor); err != nil {
		return nil, err
	}

	book, err := s.Repo.PatchBook(ctx, id, req)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, book)
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.authorize(ctx, id, actor); err != nil {
		return err
	}
	if err := s.Repo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteBook(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "book_uid", id.String(), "error", err)
		}
	}
	return nil
}

func (s *BookService) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	if s.Index != nil {
		total, books, err := s.Index.SearchBooks(ctx, q, offset, limit)
		if err == nil {
			return total, books, nil
		}
		logging.FromContext(ctx).Warn("search_index_unavailable", "error", err)
	}
	return s.Repo.SearchBooks(ctx, q, offset, limit)
}

func (s *BookService) authorize(ctx context.Context, id uuid.UUID, actor Actor) error {
	book, err := s.Repo.GetBook(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}
	if actor.IsAdmin() || (book.UserUID != nil && *book.UserUID == actor.UserUID) {
		return nil
	}
	return ErrForbidden
}

func (s *BookService) reindex(ctx context.Context, book *models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, book); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "book_uid", book.UID.String(), "error", err)
	}
}
