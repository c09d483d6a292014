package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Astemirdum/department-portal/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueParse(t *testing.T) {
	m := auth.NewTokenManager(auth.Config{Secret: "secret", TTL: time.Hour})
	p := auth.Profile{UserID: "u1", Name: "Mamun", Role: "Student"}

	token, err := m.Issue(p)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, p, claims.Profile)
	require.Equal(t, "u1", claims.Subject)

	other := auth.NewTokenManager(auth.Config{Secret: "other", TTL: time.Hour})
	_, err = other.Parse(token)
	require.Error(t, err)

	expired := auth.NewTokenManager(auth.Config{Secret: "secret", TTL: -time.Minute})
	token, err = expired.Issue(p)
	require.NoError(t, err)
	_, err = m.Parse(token)
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	m := auth.NewTokenManager(auth.Config{Secret: "secret", TTL: time.Hour})
	admin, err := m.Issue(auth.Profile{UserID: "a", Role: "Admin"})
	require.NoError(t, err)
	student, err := m.Issue(auth.Profile{UserID: "s", Role: "Student"})
	require.NoError(t, err)

	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		p, err := auth.GetProfile(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, p.UserID)
	}, m.Middleware, auth.RequireRole("Admin"))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "no header", header: "", code: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc", code: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + student, code: http.StatusForbidden},
		{name: "ok", header: "Bearer " + admin, code: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin", http.NoBody)
			if tt.header != "" {
				r.Header.Set(auth.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)
			require.Equal(t, tt.code, w.Code)
		})
	}
}
