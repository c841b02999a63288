package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrofix/agrofix-backend/internal/storage"
	"github.com/agrofix/agrofix-backend/internal/users"
	pkgAuth "github.com/agrofix/agrofix-backend/pkg/auth"
	"github.com/agrofix/agrofix-backend/pkg/auth/session"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/db/models"
	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller and the
// authentication middleware.
type Service interface {
	Register(ctx context.Context, req types.RegisterRequest) (*Outcome, error)
	Login(ctx context.Context, req types.Credentials) (*Outcome, error)
	Logout(ctx context.Context, sessionID, bearer string) error
	Resolve(ctx context.Context, sessionID, bearer string) (*pkgAuth.Principal, error)
}

// Outcome is returned by Register and Login. SessionID is set on the session
// cookie; the rest is the response body.
type Outcome struct {
	Result    types.AuthResult
	SessionID string
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type sessionManager interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, sessionID string) (*session.Session, error)
	Destroy(ctx context.Context, sessionID string) error
}

type tokenDenylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type attemptRecorder interface {
	AuthAttempt(action, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) AuthAttempt(string, string) {}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users    storage.UserStore
	Hasher   passwordHasher
	Sessions sessionManager
	Denylist tokenDenylist
	JWT      config.JWTConfig
	Metrics  attemptRecorder
	Now      func() time.Time
}

type service struct {
	users    storage.UserStore
	hasher   passwordHasher
	sessions sessionManager
	denylist tokenDenylist
	jwtCfg   config.JWTConfig
	metrics  attemptRecorder
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Denylist == nil {
		return nil, fmt.Errorf("token denylist is required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	svc := &service{
		users:    params.Users,
		hasher:   params.Hasher,
		sessions: params.Sessions,
		denylist: params.Denylist,
		jwtCfg:   params.JWT,
		metrics:  params.Metrics,
		now:      params.Now,
	}
	if svc.metrics == nil {
		svc.metrics = noopRecorder{}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

func (s *service) Register(ctx context.Context, req types.RegisterRequest) (*Outcome, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fieldError("username", "is required")
	}
	if req.Password == "" {
		return nil, fieldError("password", "is required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.AuthAttempt("register", "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:         username,
		PasswordHash:     hash,
		Email:            trimmedOrNil(req.Email),
		FullName:         trimmedOrNil(req.FullName),
		Phone:            trimmedOrNil(req.Phone),
		PreferredAddress: trimmedOrNil(req.PreferredAddress),
		PreferredCity:    trimmedOrNil(req.PreferredCity),
		PreferredState:   trimmedOrNil(req.PreferredState),
		PreferredPincode: trimmedOrNil(req.PreferredPincode),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			s.metrics.AuthAttempt("register", "conflict")
			return nil, fieldError("username", "already exists")
		}
		s.metrics.AuthAttempt("register", "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	outcome, err := s.startSession(ctx, user)
	if err != nil {
		s.metrics.AuthAttempt("register", "error")
		return nil, err
	}
	s.metrics.AuthAttempt("register", "success")
	return outcome, nil
}

func (s *service) Login(ctx context.Context, req types.Credentials) (*Outcome, error) {
	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
			s.metrics.AuthAttempt("login", "rejected")
		} else {
			s.metrics.AuthAttempt("login", "error")
		}
		return nil, err
	}
	outcome, err := s.startSession(ctx, user)
	if err != nil {
		s.metrics.AuthAttempt("login", "error")
		return nil, err
	}
	s.metrics.AuthAttempt("login", "success")
	return outcome, nil
}

// Logout destroys the session and revokes the presented bearer token until
// it would have expired. Invalid or missing credentials are ignored.
func (s *service) Logout(ctx context.Context, sessionID, bearer string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "destroy session")
	}
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return nil
	}
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, bearer)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke token")
	}
	return nil
}

// Resolve returns the principal for a request. The session cookie wins; the
// bearer token is consulted only when no valid session exists. A nil principal
// with a nil error means the caller is anonymous.
func (s *service) Resolve(ctx context.Context, sessionID, bearer string) (*pkgAuth.Principal, error) {
	if sessionID != "" {
		sess, err := s.sessions.Lookup(ctx, sessionID)
		switch {
		case err == nil:
			user, err := s.users.GetUser(ctx, sess.UserID)
			if err == nil {
				return &pkgAuth.Principal{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session user")
			}
		case errors.Is(err, session.ErrSessionNotFound):
			// expired or unknown; try the bearer token
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
		}
	}

	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return nil, nil
	}
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, bearer)
	if err != nil {
		return nil, nil
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check token revocation")
	}
	if revoked {
		return nil, nil
	}
	principal := &pkgAuth.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsAdmin:  claims.IsAdmin,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt.Unix()
	}
	return principal, nil
}

func (s *service) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	input := strings.TrimSpace(username)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.GetUserByUsername(ctx, input)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) startSession(ctx context.Context, user *models.User) (*Outcome, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return &Outcome{
		Result:    types.AuthResult{User: users.FromModel(user), Token: token},
		SessionID: sessionID,
	}, nil
}

func fieldError(field, reason string) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "%s %s", field, reason).
		WithDetails(map[string]string{field: reason})
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
