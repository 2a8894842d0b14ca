package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type BookHTTP struct {
	Svc *service.BookService
}

func (h *BookHTTP) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_books")

	page, offset, limit := paging(c)
	total, items, err := h.Svc.GetBooks(ctx, offset, limit)
	if err != nil {
		return httpError(l, "get_books_error", err)
	}

	l.Info("get_books_success")
	return c.JSON(http.StatusOK, pageResponse(items, page, offset, limit, total))
}

func (h *BookHTTP) GetUserBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_user_books")

	uid, ok := uuidParam(c, "user_uid")
	if !ok {
		l.Warn("get_user_books_error", "status", 400, "reason", "user_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "user_uid is not a uuid")
	}
	items, err := h.Svc.GetUserBooks(ctx, uid)
	if err != nil {
		return httpError(l, "get_user_books_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *BookHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get_book")

	id, ok := uuidParam(c, "book_uid")
	if !ok {
		l.Warn("get_book_error", "status", 400, "reason", "book_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "book_uid is not a uuid")
	}
	book, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return httpError(l, "get_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create_book")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req transport.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_book_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	book, err := h.Svc.CreateBook(ctx, actor.UserUID, req)
	if err != nil {
		return httpError(l, "create_book_error", err)
	}

	l.Info("create_book_success", "book_uid", book.UID.String())
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) PatchBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.patch_book")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "book_uid")
	if !ok {
		l.Warn("patch_book_error", "status", 400, "reason", "book_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "book_uid is not a uuid")
	}
	var req transport.PatchBookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_book_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	book, err := h.Svc.PatchBook(ctx, id, actor, req)
	if err != nil {
		return httpError(l, "patch_book_error", err)
	}

	l.Info("patch_book_success")
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete_book")

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "book_uid")
	if !ok {
		l.Warn("delete_book_error", "status", 400, "reason", "book_uid is not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "book_uid is not a uuid")
	}
	if err := h.Svc.DeleteBook(ctx, id, actor); err != nil {
		return httpError(l, "delete_book_error", err)
	}

	l.Info("delete_book_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *BookHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.search")

	page, offset, limit := paging(c)
	total, items, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return httpError(l, "search_error", err)
	}
	return c.JSON(http.StatusOK, pageResponse(items, page, offset, limit, total))
}
