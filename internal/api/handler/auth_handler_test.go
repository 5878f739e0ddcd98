package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userdesk/user-management/internal/api/middleware"
	"github.com/userdesk/user-management/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password, name string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, claims domain.SessionClaims) error
}

func (s *stubAuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, name)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims domain.SessionClaims) error {
	return s.logoutFn(ctx, claims)
}

type recordedActivity struct {
	entries []domain.ActivityEntry
}

func (r *recordedActivity) Record(entry domain.ActivityEntry) {
	r.entries = append(r.entries, entry)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) (*domain.User, error) {
			if email != "A@B.com" || password != "Abcdef12" || name != "Al" {
				t.Fatalf("unexpected args: %s %s %s", email, password, name)
			}
			return &domain.User{ID: "u1", Email: "a@b.com", Name: "Al", PasswordHash: "hash"}, nil
		},
	}
	activity := &recordedActivity{}
	handler := NewAuthHandler(stub, activity)

	c, rec := newTestContext(t, http.MethodPost, "/register",
		`{"email":"A@B.com","password":"Abcdef12","name":"Al"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "u1" || user["email"] != "a@b.com" || user["name"] != "Al" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, exists := user["password"]; exists {
		t.Fatalf("password must never appear in the response")
	}

	if len(activity.entries) != 1 || activity.entries[0].Action != "register" {
		t.Fatalf("expected register activity, got %+v", activity.entries)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/register",
		`{"email":"a@b.com","password":"Abcdef12","name":"Al"}`)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/register", "not-json")

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "al@b.com" || password != "Abcdef12" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "u1", Email: "al@b.com", RoleName: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/login",
		`{"email":"al@b.com","password":"Abcdef12"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}

	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	if session == nil || session.Value != "token123" || !session.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %+v", session)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/login",
		`{"email":"al@b.com","password":"bad"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"email":"al@b.com"}`)

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked domain.SessionClaims
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, claims domain.SessionClaims) error {
			revoked = claims
			return nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(t, http.MethodPost, "/logout", "")
	c.Set("session_claims", domain.SessionClaims{
		Email:     "al@b.com",
		TokenID:   "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked.TokenID != "tok-1" {
		t.Fatalf("expected logout to receive claims, got %+v", revoked)
	}

	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cleared = ck
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("expected session cookie to be cleared, got %+v", cleared)
	}
}

func TestAuthHandler_Logout_NoSession(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := newTestContext(t, http.MethodPost, "/logout", "")

	err := handler.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
