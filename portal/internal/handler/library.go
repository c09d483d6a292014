package handler

import (
	"net/http"

	"github.com/Astemirdum/department-portal/pkg/auth"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/labstack/echo/v4"
)

// GetBooks godoc
// @Summary list the catalogue
// @Tags library
// @Produce json
// @Param q query string false "title or author substring"
// @Success 200 {array} model.Book
// @Security Bearer
// @Router /books [get]
func (h *Handler) GetBooks(c echo.Context) error {
	books, err := h.portalSvc.ListBooks(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// CreateBorrow godoc
// @Summary request a book
// @Tags library
// @Accept json
// @Produce json
// @Param request body model.BorrowCreateRequest true "book"
// @Success 201 {object} model.BorrowRecord
// @Failure 409 {object} echo.HTTPError
// @Security Bearer
// @Router /borrows [post]
func (h *Handler) CreateBorrow(c echo.Context) error {
	profile, err := auth.GetProfile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.BorrowCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.portalSvc.RequestBook(c.Request().Context(), profile.UserID, req.BookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

func (h *Handler) GetMyBorrows(c echo.Context) error {
	profile, err := auth.GetProfile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	records, err := h.portalSvc.ListBorrows(c.Request().Context(), profile.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetNotices(c echo.Context) error {
	notices, err := h.portalSvc.ListNotices(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notices)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	profile, err := auth.GetProfile(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	d, err := h.portalSvc.Dashboard(c.Request().Context(), profile.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}
