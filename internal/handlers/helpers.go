package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/util"
)

func actorFrom(c echo.Context) (service.Actor, error) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingCredentials.Error())
	}
	uid, err := uuid.Parse(id.UserUID)
	if err != nil {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
	}
	return service.Actor{UserUID: uid, Email: id.Email, Role: id.Role}, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func paging(c echo.Context) (page, offset, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func pageResponse(data any, page, offset, limit int, total int64) echo.Map {
	return echo.Map{
		"data": data,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": util.TotalPages(total, limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	}
}
