package session

// Session holds the credentials of the logged-in user. Exactly one exists
// per process; it is created on login/registration, its access token is
// replaced in place on refresh, and the whole record is destroyed on logout.
type Session struct {
	AccessToken  string // Short-lived bearer credential for API calls
	RefreshToken string // Longer-lived credential used to obtain new access tokens
	Username     string // Display name of the logged-in user
}

// Store persists the session. Reads and writes are synchronous; no token
// validation happens here — a stale or malformed token is only discovered
// when the service rejects a request carrying it.
type Store interface {
	// Get returns the current session, or nil when nobody is logged in.
	Get() (*Session, error)
	Set(s *Session) error
	// UpdateAccessToken replaces only the access token, keeping the
	// refresh token and username of the existing session.
	UpdateAccessToken(token string) error
	Clear() error
}
