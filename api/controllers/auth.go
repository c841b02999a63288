package controllers

import (
	"net/http"
	"time"

	"github.com/agrofix/agrofix-backend/api/middleware"
	"github.com/agrofix/agrofix-backend/api/responses"
	"github.com/agrofix/agrofix-backend/api/validators"
	authsvc "github.com/agrofix/agrofix-backend/internal/auth"
	usersvc "github.com/agrofix/agrofix-backend/internal/users"
	"github.com/agrofix/agrofix-backend/pkg/config"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

func Register(svc authsvc.Service, cookie config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		var payload types.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cookie, outcome.SessionID)
		responses.WriteSuccessStatus(w, http.StatusCreated, outcome.Result)
	}
}

func Login(svc authsvc.Service, cookie config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		var payload types.Credentials
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		outcome, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setSessionCookie(w, cookie, outcome.SessionID)
		responses.WriteSuccess(w, outcome.Result)
	}
}

// Logout always clears the cookie, even for anonymous callers.
func Logout(svc authsvc.Service, cookie config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			if c, err := r.Cookie(cookie.CookieName); err == nil {
				sessionID = c.Value
			}
		}
		if err := svc.Logout(r.Context(), sessionID, validators.BearerToken(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearSessionCookie(w, cookie)
		responses.WriteSuccess(w, types.MessageResponse{Message: "logged out"})
	}
}

// CurrentUser returns the caller's profile.
func CurrentUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		user, err := svc.Get(r.Context(), principal.UserID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				err = pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
