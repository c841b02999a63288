package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agrofix/agrofix-backend/api/middleware"
	authsvc "github.com/agrofix/agrofix-backend/internal/auth"
	pkgAuth "github.com/agrofix/agrofix-backend/pkg/auth"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	ok := HealthReady(cfg, map[string]Pinger{"storage": stubPinger{}}, logger.Nop())
	rec := httptest.NewRecorder()
	ok.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Agrofix-Env") != "test" {
		t.Fatalf("missing env header")
	}

	bad := HealthReady(cfg, map[string]Pinger{"storage": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}}, logger.Nop())
	rec = httptest.NewRecorder()
	bad.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"refused"`) {
		t.Fatalf("expected failing dependency in details, got %s", rec.Body.String())
	}
}

func TestNilServicesAnswer500(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"list products": ListProducts(nil, nil),
		"create order":  CreateOrder(nil, nil),
		"get cart":      GetCart(nil, nil),
		"login":         Login(nil, config.SessionConfig{}, nil),
		"current user":  CurrentUser(nil, nil),
	}
	for name, h := range handlers {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", name, rec.Code)
		}
	}
}

type stubAuth struct {
	loggedOutSession string
	loggedOutBearer  string
}

func (s *stubAuth) Register(context.Context, types.RegisterRequest) (*authsvc.Outcome, error) {
	return &authsvc.Outcome{Result: types.AuthResult{User: types.User{ID: 1, Username: "new"}, Token: "tok"}, SessionID: "sid-1"}, nil
}

func (s *stubAuth) Login(context.Context, types.Credentials) (*authsvc.Outcome, error) {
	return nil, errors.New("not used")
}

func (s *stubAuth) Logout(_ context.Context, sessionID, bearer string) error {
	s.loggedOutSession = sessionID
	s.loggedOutBearer = bearer
	return nil
}

func (s *stubAuth) Resolve(context.Context, string, string) (*pkgAuth.Principal, error) {
	return nil, nil
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	cookieCfg := config.SessionConfig{CookieName: "agrofix.sid", TTL: 24 * time.Hour, Secure: true}
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"username":"newbie","password":"secret-pass"}`))
	rec := httptest.NewRecorder()
	Register(&stubAuth{}, cookieCfg, logger.Nop()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "agrofix.sid" || c.Value != "sid-1" || !c.HttpOnly || !c.Secure || c.MaxAge != 86400 {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !strings.Contains(rec.Body.String(), `"token":"tok"`) {
		t.Fatalf("token missing from body: %s", rec.Body.String())
	}
}

func TestLogoutForwardsCredentials(t *testing.T) {
	svc := &stubAuth{}
	cookieCfg := config.SessionConfig{CookieName: "agrofix.sid", TTL: time.Hour}
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "agrofix.sid", Value: "sid-9"})
	req.Header.Set("Authorization", "Bearer jwt-9")
	rec := httptest.NewRecorder()
	Logout(svc, cookieCfg, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.loggedOutSession != "sid-9" || svc.loggedOutBearer != "jwt-9" {
		t.Fatalf("credentials not forwarded: %+v", svc)
	}
}

func TestGetCartRequiresPrincipal(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCart(stubCart{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), &pkgAuth.Principal{UserID: 2}))
	rec = httptest.NewRecorder()
	GetCart(stubCart{}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

type stubCart struct{}

func (stubCart) Get(context.Context, int64) (*types.Cart, error) {
	return &types.Cart{Items: types.LineItems{}}, nil
}

func (stubCart) Replace(_ context.Context, _ int64, items types.LineItems) (*types.Cart, error) {
	return &types.Cart{Items: items}, nil
}
