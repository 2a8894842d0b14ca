package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/notify"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type ReviewService struct {
	Repo     *repo.GormRepo
	Producer notify.Producer
}

func (s *ReviewService) GetReviews(ctx context.Context, offset, limit int) (int64, []models.Review, error) {
	return s.Repo.GetReviews(ctx, offset, limit)
}

func (s *ReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.Repo.GetReview(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return review, err
}

// AddReview stores the review and queues a notification in one transaction.
// If the notification cannot be queued the review is not stored.
func (s *ReviewService) AddReview(ctx context.Context, actor Actor, bookUID uuid.UUID, req transport.CreateReviewRequest) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "review.add", "book_uid", bookUID.String())

	req.ReviewText = strings.TrimSpace(req.ReviewText)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	book, err := s.Repo.GetBook(ctx, bookUID)
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn("add_review_error", "status", 404, "reason", "book not found")
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.GetUserByEmail(ctx, actor.Email)
	if errors.Is(err, repo.ErrNotFound) {
		l.Warn("add_review_error", "status", 404, "reason", "user not found")
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		UserUID:    &user.UID,
		BookUID:    &book.UID,
	}
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}
		return s.Producer.Enqueue(ctx, notify.Notification{
			BookUID:    book.UID.String(),
			BookTitle:  book.Title,
			ReviewText: review.ReviewText,
		})
	})
	if err != nil {
		if errors.Is(err, notify.ErrEnqueueFailed) {
			l.Error("add_review_error", "status", 503, "reason", "cannot queue notification", "error", err)
		} else {
			l.Error("add_review_error", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("add_review_success", "review_uid", review.UID.String())
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id uuid.UUID) error {
	review, err := s.Repo.GetReview(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if review.UserUID == nil || *review.UserUID != actor.UserUID {
		return ErrForbidden
	}
	if err := s.Repo.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}
