package router

import (
	"net/http"

	"github.com/brightfeed/brightfeed/internal/apperr"
	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/dto"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CategoriesRouter struct {
	e     *echo.Echo
	store storage.CategoryStore
}

func NewCategoriesRouter(e *echo.Echo, store storage.CategoryStore) *CategoriesRouter {
	return &CategoriesRouter{e: e, store: store}
}

func (r *CategoriesRouter) Bind() {
	r.e.GET("/categories", r.listHandler)
	r.e.POST("/categories", r.addHandler)
	r.e.DELETE("/categories/:id", r.deleteHandler)
}

// @Summary List global categories plus the user's own
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (r *CategoriesRouter) listHandler(c echo.Context) error {
	var userID *uuid.UUID
	if session := auth.SessionFrom(c); session != nil {
		userID = &session.UserID
	}

	list, err := r.store.ListFor(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []domain.Category{}
	}
	return c.JSON(http.StatusOK, list)
}

// @Summary Create a user-owned category
// @Param category body dto.CategoryRequest true "category"
// @Success 201 {object} domain.Category
// @Router /categories [post]
func (r *CategoriesRouter) addHandler(c echo.Context) error {
	session := auth.SessionFrom(c)
	if session == nil {
		return apperr.NewAuthRequired("create category")
	}

	var req dto.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed category payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	category, err := r.store.Insert(c.Request().Context(), domain.Category{
		Label:   req.Label,
		Value:   req.Value,
		OwnerID: &session.UserID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// @Summary Delete an own category
// @Param id path string true "category id"
// @Success 204
// @Router /categories/{id} [delete]
func (r *CategoriesRouter) deleteHandler(c echo.Context) error {
	session := auth.SessionFrom(c)
	if session == nil {
		return apperr.NewAuthRequired("delete category")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("malformed category id", err)
	}

	// Ownership is enforced in the delete itself; a non-owner request
	// removes nothing.
	if err := r.store.DeleteOwned(c.Request().Context(), id, session.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
