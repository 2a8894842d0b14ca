package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skotchmaster/bookly/internal/handlers"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/models"
)

// ReadyCheck reports whether one dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Deps struct {
	AuthHandler   *handlers.AuthHTTP
	BookHandler   *handlers.BookHTTP
	ReviewHandler *handlers.ReviewHTTP
	TagHandler    *handlers.TagHTTP
	Guard         *auth.Guard

	Ready   map[string]ReadyCheck
	Metrics prometheus.Gatherer
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", readyHandler(d.Ready))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	access := d.Guard.Require(auth.AccessRequired)
	anyRole := d.Guard.Require(auth.AccessRequired, models.RoleAdmin, models.RoleUser)
	adminOnly := d.Guard.Require(auth.AccessRequired, models.RoleAdmin)

	v1 := e.Group("/api/v1")

	a := v1.Group("/auth")
	a.POST("/signup", d.AuthHandler.Signup)
	a.GET("/verify/:token", d.AuthHandler.Verify)
	a.POST("/login", d.AuthHandler.Login)
	a.POST("/password-reset-request", d.AuthHandler.PasswordResetRequest)
	a.POST("/password-reset-confirm/:token", d.AuthHandler.PasswordResetConfirm)
	a.GET("/refresh_token", d.AuthHandler.Refresh, d.Guard.Require(auth.RefreshRequired))
	a.GET("/me", d.AuthHandler.Me, anyRole)
	a.GET("/logout", d.AuthHandler.Logout, access)
	a.POST("/send_mail", d.AuthHandler.SendMail, adminOnly)

	books := v1.Group("/books", anyRole)
	books.GET("", d.BookHandler.GetBooks)
	books.GET("/search", d.BookHandler.SearchBooks)
	books.GET("/user/:user_uid", d.BookHandler.GetUserBooks)
	books.POST("", d.BookHandler.CreateBook)
	books.GET("/:book_uid", d.BookHandler.GetBook)
	books.PATCH("/:book_uid", d.BookHandler.PatchBook)
	books.DELETE("/:book_uid", d.BookHandler.DeleteBook)

	reviews := v1.Group("/reviews")
	reviews.GET("", d.ReviewHandler.GetReviews, adminOnly)
	reviews.GET("/:review_uid", d.ReviewHandler.GetReview, anyRole)
	reviews.POST("/book/:book_uid", d.ReviewHandler.AddReview, anyRole)
	reviews.DELETE("/:review_uid", d.ReviewHandler.DeleteReview, anyRole)

	tags := v1.Group("/tags", anyRole)
	tags.GET("", d.TagHandler.GetTags)
	tags.POST("", d.TagHandler.CreateTag)
	tags.POST("/book/:book_uid/tags", d.TagHandler.AddTagsToBook)
	tags.PUT("/:tag_uid", d.TagHandler.UpdateTag)
	tags.DELETE("/:tag_uid", d.TagHandler.DeleteTag)
}

func readyHandler(checks map[string]ReadyCheck) echo.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		failed := map[string]string{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			logging.FromContext(ctx).Warn("not_ready", "failed", failed)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "failed": failed})
		}
		return c.NoContent(http.StatusOK)
	}
}
