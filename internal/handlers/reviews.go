package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_reviews")

	page, offset, limit := paging(c)
	total, items, err := h.Svc.GetReviews(ctx, offset, limit)
	if err != nil {
		return httpError(l, "get_reviews_error", err)
	}
	return c.JSON(http.StatusOK, pageResponse(items, page, offset, limit, total))
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	id, ok := uuidParam(c, "review_uid")
	if !ok {
		l.Warn("get_review_error", "status", 400, "reason", "review_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "review_uid is not a uuid")
	}
	review, err := h.Svc.GetReview(ctx, id)
	if err != nil {
		return httpError(l, "get_review_error", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add_review")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	bookUID, ok := uuidParam(c, "book_uid")
	if !ok {
		l.Warn("add_review_error", "status", 400, "reason", "book_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "book_uid is not a uuid")
	}
	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.AddReview(ctx, actor, bookUID, req)
	if err != nil {
		return httpError(l, "add_review_error", err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "review_uid")
	if !ok {
		l.Warn("delete_review_error", "status", 400, "reason", "review_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "review_uid is not a uuid")
	}
	if err := h.Svc.DeleteReview(ctx, actor, id); err != nil {
		return httpError(l, "delete_review_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
