package auth

// Principal is the caller resolved from a session cookie or bearer token.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
	// TokenID and TokenExpiresAt are set when the principal came from a JWT.
	TokenID        string
	TokenExpiresAt int64
}

// Source reports how the principal was authenticated.
func (p *Principal) Source() string {
	if p == nil {
		return "anonymous"
	}
	if p.TokenID != "" {
		return "bearer"
	}
	return "session"
}

// CanViewOrderOf reports whether the principal may read an order placed under
// email. Non-admins are matched on username.
func (p *Principal) CanViewOrderOf(email string) bool {
	if p == nil {
		return false
	}
	return p.IsAdmin || p.Username == email
}
