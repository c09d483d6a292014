package handler

import (
	"net/http"

	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/labstack/echo/v4"
)

// Register godoc
// @Summary register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "account"
// @Success 201 {object} model.RegisterResponse
// @Failure 409 {object} echo.HTTPError
// @Router /auth/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, verified, err := h.portalSvc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	resp := model.RegisterResponse{User: user, Verified: verified}
	if verified {
		if resp.Token, err = h.issueToken(user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary sign in by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 404 {object} echo.HTTPError
// @Router /auth/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.portalSvc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	return h.session(c, user)
}

func (h *Handler) FederatedLogin(c echo.Context) error {
	user, err := h.portalSvc.FederatedLogin(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return h.session(c, user)
}

func (h *Handler) session(c echo.Context, user model.User) error {
	token, err := h.issueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, model.LoginResponse{User: user, Token: token})
}
