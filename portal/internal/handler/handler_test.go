package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/department-portal/pkg/auth"
	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/handler"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/department-portal/portal/internal/handler/mocks"
)

var tokens = auth.NewTokenManager(auth.Config{Secret: "test", TTL: time.Hour})

func bearer(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token, err := tokens.Issue(auth.Profile{UserID: userID, Role: string(role)})
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter(t *testing.T, mockBehavior func(svc *service_mocks.MockPortalService)) *echo.Echo {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockPortalService(c)
	mockBehavior(svc)
	return handler.New(svc, tokens, zap.NewNop()).NewRouter()
}

func do(e *echo.Echo, method, target, body, authorization string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorization != "" {
		r.Header.Set(auth.AuthorizationHeader, authorization)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockPortalService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
		wantToken    bool
	}{
		{
			name: "ok. pending approval",
			body: `{"email":"new@mbstu.ac.bd","name":"New","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().
					Register(gomock.Any(), model.RegisterRequest{Email: "new@mbstu.ac.bd", Name: "New", Password: "pw"}).
					Return(model.User{ID: "u1", Email: "new@mbstu.ac.bd", Name: "New", Role: model.RoleGuest, Status: model.StatusPending}, false, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"user":{"id":"u1","email":"new@mbstu.ac.bd","name":"New","role":"Guest","status":"Pending Approval"},"verified":false}`,
			},
		},
		{
			name: "ok. verified gets a token",
			body: `{"email":"teacher@mbstu.ac.bd","name":"T","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(model.User{ID: "u2", Email: "teacher@mbstu.ac.bd", Name: "T", Role: model.RoleTeacher, Status: model.StatusActive}, true, nil)
			},
			response:  response{expectedCode: http.StatusCreated},
			wantToken: true,
		},
		{
			name: "err. duplicate",
			body: `{"email":"dup@mbstu.ac.bd","name":"D","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(model.User{}, false, errs.ErrDuplicateEmail)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"email already registered"}`,
			},
		},
		{
			name:         "err. invalid email",
			body:         `{"email":"nope","name":"D","password":"pw"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {},
			response:     response{expectedCode: http.StatusBadRequest},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newRouter(t, tt.mockBehavior)
			w := do(e, http.MethodPost, "/api/v1/auth/register", tt.body, "")

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
			if tt.wantToken {
				var resp model.RegisterResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.True(t, resp.Verified)
				claims, err := tokens.Parse(resp.Token)
				require.NoError(t, err)
				require.Equal(t, "u2", claims.Profile.UserID)
				require.Equal(t, string(model.RoleTeacher), claims.Profile.Role)
			}
		})
	}
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		user := model.User{ID: "u1", Email: "a@mbstu.ac.bd", Name: "A", Role: model.RoleStudent, Status: model.StatusActive}
		e := newRouter(t, func(r *service_mocks.MockPortalService) {
			r.EXPECT().Login(gomock.Any(), "a@mbstu.ac.bd", "whatever").Return(user, nil)
		})
		w := do(e, http.MethodPost, "/api/v1/auth/login", `{"email":"a@mbstu.ac.bd","password":"whatever"}`, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp model.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, user, resp.User)
		require.NotEmpty(t, resp.Token)
	})

	t.Run("err. not found", func(t *testing.T) {
		t.Parallel()
		e := newRouter(t, func(r *service_mocks.MockPortalService) {
			r.EXPECT().Login(gomock.Any(), "x@mbstu.ac.bd", "pw").Return(model.User{}, errs.ErrUserNotFound)
		})
		w := do(e, http.MethodPost, "/api/v1/auth/login", `{"email":"x@mbstu.ac.bd","password":"pw"}`, "")
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, `{"message":"user not found"}`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("federated", func(t *testing.T) {
		t.Parallel()
		e := newRouter(t, func(r *service_mocks.MockPortalService) {
			r.EXPECT().FederatedLogin(gomock.Any()).
				Return(model.User{ID: "google-123", Role: model.RoleStudent, Status: model.StatusActive}, nil)
		})
		w := do(e, http.MethodPost, "/api/v1/auth/federated", "", "")
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_CreateBorrow(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockPortalService)

	var tests = []struct {
		name          string
		authorization func(t *testing.T) string
		mockBehavior  mockBehavior
		expectedCode  int
		expectedBody  string
	}{
		{
			name:          "ok",
			authorization: func(t *testing.T) string { return bearer(t, "u1", model.RoleStudent) },
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().RequestBook(gomock.Any(), "u1", "1").Return(model.BorrowRecord{
					ID: "r1", BookID: "1", BookTitle: "Macroeconomics", UserID: "u1", UserName: "A",
					IssueDate: "2024-05-20", Status: model.BorrowRequested,
				}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":"r1","bookId":"1","bookTitle":"Macroeconomics","userId":"u1","userName":"A","issueDate":"2024-05-20","status":"Requested"}`,
		},
		{
			name:          "err. no copies",
			authorization: func(t *testing.T) string { return bearer(t, "u1", model.RoleStudent) },
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().RequestBook(gomock.Any(), "u1", "1").Return(model.BorrowRecord{}, errs.ErrNoCopiesAvailable)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"no copies available right now"}`,
		},
		{
			name:          "err. internal",
			authorization: func(t *testing.T) string { return bearer(t, "u1", model.RoleStudent) },
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().RequestBook(gomock.Any(), "u1", "1").Return(model.BorrowRecord{}, errors.New("db internal"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"db internal"}`,
		},
		{
			name:          "err. unauthorized",
			authorization: func(t *testing.T) string { return "" },
			mockBehavior:  func(r *service_mocks.MockPortalService) {},
			expectedCode:  http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newRouter(t, tt.mockBehavior)
			w := do(e, http.MethodPost, "/api/v1/borrows", `{"bookId":"1"}`, tt.authorization(t))

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_GetBooks(t *testing.T) {
	t.Parallel()
	e := newRouter(t, func(r *service_mocks.MockPortalService) {
		r.EXPECT().ListBooks(gomock.Any(), "piketty").Return([]model.Book{
			{ID: "3", Title: "Capital in the Twenty-First Century", Author: "Thomas Piketty", ISBN: "978-0674430006", Copies: 3, Available: 3, Category: "Development"},
		}, nil)
	})
	w := do(e, http.MethodGet, "/api/v1/books?q=piketty", "", bearer(t, "u1", model.RoleGuest))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":"3","title":"Capital in the Twenty-First Century","author":"Thomas Piketty","isbn":"978-0674430006","copies":3,"available":3,"category":"Development"}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_GetDashboard(t *testing.T) {
	t.Parallel()
	e := newRouter(t, func(r *service_mocks.MockPortalService) {
		r.EXPECT().Dashboard(gomock.Any(), "u1").Return(model.Dashboard{Books: 3, Notices: 2, MyRequests: 1}, nil)
	})
	w := do(e, http.MethodGet, "/api/v1/dashboard", "", bearer(t, "u1", model.RoleStudent))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"books":3,"notices":2,"myRequests":1}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_UpdateBorrowStatus(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockPortalService)

	var tests = []struct {
		name         string
		role         model.Role
		body         string
		mockBehavior mockBehavior
		expectedCode int
	}{
		{
			name: "ok. issue",
			role: model.RoleAdmin,
			body: `{"status":"Issued"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().AdvanceStatus(gomock.Any(), "r1", model.BorrowIssued).
					Return(model.BorrowRecord{ID: "r1", Status: model.BorrowIssued}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "err. invalid transition",
			role: model.RoleAdmin,
			body: `{"status":"Returned"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().AdvanceStatus(gomock.Any(), "r1", model.BorrowReturned).
					Return(model.BorrowRecord{}, errors.Wrap(errs.ErrInvalidTransition, "Requested -> Returned"))
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. record not found",
			role: model.RoleAdmin,
			body: `{"status":"Issued"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {
				r.EXPECT().AdvanceStatus(gomock.Any(), "r1", model.BorrowIssued).
					Return(model.BorrowRecord{}, errors.Wrap(errs.ErrNotFound, "borrow record r1"))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "err. missing status",
			role:         model.RoleAdmin,
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "err. not an admin",
			role:         model.RoleStudent,
			body:         `{"status":"Issued"}`,
			mockBehavior: func(r *service_mocks.MockPortalService) {},
			expectedCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newRouter(t, tt.mockBehavior)
			w := do(e, http.MethodPatch, "/api/v1/admin/borrows/r1", tt.body, bearer(t, "admin", tt.role))
			require.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandler_ApproveUser(t *testing.T) {
	t.Parallel()
	e := newRouter(t, func(r *service_mocks.MockPortalService) {
		r.EXPECT().ApproveUser(gomock.Any(), "u1").
			Return(model.User{ID: "u1", Email: "a@mbstu.ac.bd", Name: "A", Role: model.RoleGuest, Status: model.StatusActive}, nil)
		r.EXPECT().ApproveUser(gomock.Any(), "ghost").Return(model.User{}, errs.ErrUserNotFound)
	})

	w := do(e, http.MethodPost, "/api/v1/admin/users/u1/approve", "", bearer(t, "admin", model.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"id":"u1","email":"a@mbstu.ac.bd","name":"A","role":"Guest","status":"Active"}`, strings.Trim(w.Body.String(), "\n"))

	w = do(e, http.MethodPost, "/api/v1/admin/users/ghost/approve", "", bearer(t, "admin", model.RoleAdmin))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ImportVerifiedEmails(t *testing.T) {
	t.Parallel()
	items := []model.VerifiedEmail{
		{Email: "teacher@mbstu.ac.bd", Role: model.RoleTeacher},
		{Email: "mamun@economics.mbstu.ac.bd", Role: model.RoleStudent},
	}
	e := newRouter(t, func(r *service_mocks.MockPortalService) {
		r.EXPECT().AddVerifiedEmails(gomock.Any(), items).Return(2, nil)
	})

	body := `{"items":[{"email":"teacher@mbstu.ac.bd","role":"Teacher"},{"email":"mamun@economics.mbstu.ac.bd","role":"Student"}]}`
	w := do(e, http.MethodPost, "/api/v1/admin/verified-emails", body, bearer(t, "admin", model.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"added":2}`, strings.Trim(w.Body.String(), "\n"))

	body = `{"items":[{"email":"x@mbstu.ac.bd","role":"Dean"}]}`
	w = do(e, http.MethodPost, "/api/v1/admin/verified-emails", body, bearer(t, "admin", model.RoleAdmin))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	e := newRouter(t, func(r *service_mocks.MockPortalService) {})
	w := do(e, http.MethodGet, "/manage/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
