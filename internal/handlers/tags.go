package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type TagHTTP struct {
	Svc *service.TagService
}

func (h *TagHTTP) GetTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.get_tags")

	tags, err := h.Svc.GetTags(ctx)
	if err != nil {
		return httpError(l, "get_tags_error", err)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *TagHTTP) CreateTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.create_tag")

	var req transport.TagRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_tag_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	tag, err := h.Svc.CreateTag(ctx, req)
	if err != nil {
		return httpError(l, "create_tag_error", err)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *TagHTTP) AddTagsToBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.add_tags_to_book")

	bookUID, ok := uuidParam(c, "book_uid")
	if !ok {
		l.Warn("add_tags_error", "status", 400, "reason", "book_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "book_uid is not a uuid")
	}
	var req transport.TagsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_tags_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	book, err := h.Svc.AddTagsToBook(ctx, bookUID, req)
	if err != nil {
		return httpError(l, "add_tags_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *TagHTTP) UpdateTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.update_tag")

	id, ok := uuidParam(c, "tag_uid")
	if !ok {
		l.Warn("update_tag_error", "status", 400, "reason", "tag_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "tag_uid is not a uuid")
	}
	var req transport.TagRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_tag_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	tag, err := h.Svc.UpdateTag(ctx, id, req)
	if err != nil {
		return httpError(l, "update_tag_error", err)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *TagHTTP) DeleteTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.delete_tag")

	id, ok := uuidParam(c, "tag_uid")
	if !ok {
		l.Warn("delete_tag_error", "status", 400, "reason", "tag_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "tag_uid is not a uuid")
	}
	if err := h.Svc.DeleteTag(ctx, id); err != nil {
		return httpError(l, "delete_tag_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
