package handler

import (
	"net/http"

	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetUsers(c echo.Context) error {
	users, err := h.portalSvc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// ApproveUser godoc
// @Summary activate a pending account
// @Tags admin
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} model.User
// @Failure 404 {object} echo.HTTPError
// @Security Bearer
// @Router /admin/users/{id}/approve [post]
func (h *Handler) ApproveUser(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is empty")
	}
	user, err := h.portalSvc.ApproveUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetBorrows(c echo.Context) error {
	records, err := h.portalSvc.ListBorrows(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

// UpdateBorrowStatus godoc
// @Summary advance a borrow record
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "record id"
// @Param request body model.BorrowStatusRequest true "target status"
// @Success 200 {object} model.BorrowRecord
// @Failure 400 {object} echo.HTTPError
// @Failure 409 {object} echo.HTTPError
// @Security Bearer
// @Router /admin/borrows/{id} [patch]
func (h *Handler) UpdateBorrowStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is empty")
	}
	var req model.BorrowStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	record, err := h.portalSvc.AdvanceStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

func (h *Handler) MarkOverdue(c echo.Context) error {
	records, err := h.portalSvc.MarkOverdue(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) GetVerifiedEmails(c echo.Context) error {
	list, err := h.portalSvc.ListVerifiedEmails(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// ImportVerifiedEmails godoc
// @Summary bulk import email to role pairs for auto-verification
// @Tags admin
// @Accept json
// @Produce json
// @Param request body model.VerifiedImportRequest true "pairs"
// @Success 200 {object} model.VerifiedImportResponse
// @Security Bearer
// @Router /admin/verified-emails [post]
func (h *Handler) ImportVerifiedEmails(c echo.Context) error {
	var req model.VerifiedImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	added, err := h.portalSvc.AddVerifiedEmails(c.Request().Context(), req.Items)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.VerifiedImportResponse{Added: added})
}
