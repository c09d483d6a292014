package handler

import (
	"net/http"

	"github.com/Astemirdum/department-portal/pkg/auth"
	md "github.com/Astemirdum/department-portal/pkg/middleware"
	"github.com/Astemirdum/department-portal/pkg/validate"
	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	_ "github.com/Astemirdum/department-portal/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	portalSvc PortalService
	tokens    *auth.TokenManager
	log       *zap.Logger
}

func New(portalSvc PortalService, tokens *auth.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		portalSvc: portalSvc,
		tokens:    tokens,
		log:       log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	h.register(api)

	return e
}

func (h *Handler) register(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/federated", h.FederatedLogin)

	user := api.Group("", h.tokens.Middleware)
	user.GET("/books", h.GetBooks)
	user.POST("/borrows", h.CreateBorrow)
	user.GET("/borrows/my", h.GetMyBorrows)
	user.GET("/notices", h.GetNotices)
	user.GET("/dashboard", h.GetDashboard)

	admin := user.Group("/admin", auth.RequireRole(string(model.RoleAdmin)))
	admin.GET("/users", h.GetUsers)
	admin.POST("/users/:id/approve", h.ApproveUser)
	admin.GET("/borrows", h.GetBorrows)
	admin.PATCH("/borrows/:id", h.UpdateBorrowStatus)
	admin.POST("/borrows/overdue", h.MarkOverdue)
	admin.GET("/verified-emails", h.GetVerifiedEmails)
	admin.POST("/verified-emails", h.ImportVerifiedEmails)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) issueToken(user model.User) (string, error) {
	return h.tokens.Issue(auth.Profile{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	})
}

// httpError maps workflow errors onto status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrUserNotFound), errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrDuplicateEmail), errors.Is(err, errs.ErrNoCopiesAvailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrInvalidStatus), errors.Is(err, errs.ErrInvalidRole),
		errors.Is(err, errs.ErrInvalidEmail):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
