package router

import (
	"net/http"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/comments"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/dto"
	"github.com/brightfeed/brightfeed/internal/reconcile"
	"github.com/labstack/echo/v4"
)

type CommentsRouter struct {
	e          *echo.Echo
	reconciler *reconcile.Reconciler
	ledger     *comments.Ledger
}

func NewCommentsRouter(e *echo.Echo, reconciler *reconcile.Reconciler, ledger *comments.Ledger) *CommentsRouter {
	return &CommentsRouter{e: e, reconciler: reconciler, ledger: ledger}
}

func (r *CommentsRouter) Bind() {
	r.e.GET("/articles/:id/comments", r.listHandler)
	r.e.POST("/articles/:id/comments", r.addHandler)
	r.e.DELETE("/comments/:id", r.deleteHandler)
}

// @Summary List an article's comments, newest first
// @Param id path string true "article id"
// @Success 200 {array} domain.Comment
// @Router /articles/{id}/comments [get]
func (r *CommentsRouter) listHandler(c echo.Context) error {
	list, err := r.ledger.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.Comment{}
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary Post a comment, materializing the article if still transient
// @Param id path string true "article id, possibly non-durable"
// @Param comment body dto.CommentRequest true "comment text plus article url"
// @Success 201 {object} domain.Comment
// @Router /articles/{id}/comments [post]
func (r *CommentsRouter) addHandler(c echo.Context) error {
	var req dto.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed comment payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	article := domain.Article{URL: req.URL}
	if id, ok := domain.ParseArticleID(c.Param("id")); ok {
		article.ID = id
	}

	comment, err := r.reconciler.PostComment(c.Request().Context(), auth.SessionFrom(c), article, req.Text)
	if err != nil {
		// Comment posting is the one gesture whose failure surfaces to the
		// user; the error handler maps the typed errors.
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// @Summary Delete an own comment
// @Param id path string true "comment id"
// @Success 204
// @Router /comments/{id} [delete]
func (r *CommentsRouter) deleteHandler(c echo.Context) error {
	session := auth.SessionFrom(c)
	if session == nil {
		return apperr.NewAuthRequired("delete comment")
	}

	commentID, ok := domain.ParseArticleID(c.Param("id"))
	if !ok {
		return apperr.NewValidation("malformed comment id")
	}

	if err := r.ledger.Delete(c.Request().Context(), commentID, session.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
