package middleware

import (
	"context"
	"net/http"

	"github.com/agrofix/agrofix-backend/api/responses"
	"github.com/agrofix/agrofix-backend/api/validators"
	pkgAuth "github.com/agrofix/agrofix-backend/pkg/auth"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/logger"
)

// PrincipalResolver turns a session id and/or bearer token into a caller.
type PrincipalResolver interface {
	Resolve(ctx context.Context, sessionID, bearer string) (*pkgAuth.Principal, error)
}

// Authenticate resolves the caller on every request and stores it in the
// context. Anonymous requests pass through; RequireAuth enforces presence.
func Authenticate(resolver PrincipalResolver, cookieName string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				sessionID = cookie.Value
			}
			bearer := validators.BearerToken(r)
			if sessionID == "" && bearer == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.Resolve(ctx, sessionID, bearer)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = withSessionID(ctx, sessionID)
			if principal != nil {
				ctx = WithPrincipal(ctx, principal)
				if logg != nil {
					ctx = logg.WithPrincipal(ctx, principal.UserID, principal.IsAdmin)
					ctx = logg.WithField(ctx, "auth_source", principal.Source())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFromContext(r.Context()) == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 401 for anonymous callers and 403 for non-admins.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !principal.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
