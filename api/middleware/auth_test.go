package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgAuth "github.com/agrofix/agrofix-backend/pkg/auth"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
)

type stubResolver struct {
	gotSession string
	gotBearer  string
	principal  *pkgAuth.Principal
	err        error
	calls      int
}

func (s *stubResolver) Resolve(_ context.Context, sessionID, bearer string) (*pkgAuth.Principal, error) {
	s.calls++
	s.gotSession = sessionID
	s.gotBearer = bearer
	return s.principal, s.err
}

func captureHandler(seen **pkgAuth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateAnonymousSkipsResolver(t *testing.T) {
	resolver := &stubResolver{}
	var seen *pkgAuth.Principal
	handler := Authenticate(resolver, "agrofix.sid", nil)(captureHandler(&seen))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if resp.Code != http.StatusNoContent || resolver.calls != 0 || seen != nil {
		t.Fatalf("anonymous request should pass untouched: code=%d calls=%d principal=%v", resp.Code, resolver.calls, seen)
	}
}

func TestAuthenticatePassesCookieAndBearer(t *testing.T) {
	resolver := &stubResolver{principal: &pkgAuth.Principal{UserID: 3, Username: "asha"}}
	var seen *pkgAuth.Principal
	handler := Authenticate(resolver, "agrofix.sid", nil)(captureHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: "agrofix.sid", Value: "sess-1"})
	req.Header.Set("Authorization", "Bearer tok-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if resolver.gotSession != "sess-1" || resolver.gotBearer != "tok-1" {
		t.Fatalf("unexpected resolver input session=%q bearer=%q", resolver.gotSession, resolver.gotBearer)
	}
	if seen == nil || seen.UserID != 3 {
		t.Fatalf("principal not injected: %+v", seen)
	}
}

func TestAuthenticateResolverFailure(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "lookup session")}
	var seen *pkgAuth.Principal
	handler := Authenticate(resolver, "agrofix.sid", nil)(captureHandler(&seen))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestRequireAuthAndAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	cases := []struct {
		name      string
		principal *pkgAuth.Principal
		mw        func(http.Handler) http.Handler
		want      int
	}{
		{"auth anonymous", nil, RequireAuth(nil), http.StatusUnauthorized},
		{"auth user", &pkgAuth.Principal{UserID: 1}, RequireAuth(nil), http.StatusOK},
		{"admin anonymous", nil, RequireAdmin(nil), http.StatusUnauthorized},
		{"admin non-admin", &pkgAuth.Principal{UserID: 1}, RequireAdmin(nil), http.StatusForbidden},
		{"admin admin", &pkgAuth.Principal{UserID: 1, IsAdmin: true}, RequireAdmin(nil), http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.principal != nil {
			req = req.WithContext(WithPrincipal(req.Context(), tc.principal))
		}
		resp := httptest.NewRecorder()
		tc.mw(ok).ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}
