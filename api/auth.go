package api

import (
	"context"

	apperrors "github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/session"
)

const (
	loginPath    = "/api/token/"
	registerPath = "/api/register/"
	refreshPath  = "/api/token/refresh/"
)

// tokenPair is the response of the login and register endpoints.
type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// Login exchanges credentials for a token pair and stores the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var pair tokenPair
	if err := c.postUnauthenticated(ctx, loginPath, loginRequest{Username: username, Password: password}, &pair); err != nil {
		return err
	}
	if err := c.store.Set(&session.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		Username:     username,
	}); err != nil {
		return apperrors.Wrapf(err, "api store session")
	}
	c.log.Info().Str("username", username).Msg("logged in")
	return nil
}

// Register creates an account; the service logs the new user straight in,
// so the returned token pair is stored like a login.
func (c *Client) Register(ctx context.Context, username, email, password, password2 string) error {
	if password != password2 {
		return apperrors.ErrPasswordsDontMatch
	}
	var pair tokenPair
	req := registerRequest{Username: username, Email: email, Password: password, Password2: password2}
	if err := c.postUnauthenticated(ctx, registerPath, req, &pair); err != nil {
		return err
	}
	if err := c.store.Set(&session.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		Username:     username,
	}); err != nil {
		return apperrors.Wrapf(err, "api store session")
	}
	c.log.Info().Str("username", username).Msg("registered")
	return nil
}

// Logout destroys the stored session. Callers are expected to tear down
// their own state as well; nothing here survives for them to reuse.
func (c *Client) Logout() error {
	c.log.Info().Msg("logged out")
	return c.store.Clear()
}

// Username returns the logged-in user's name, or "" when logged out.
func (c *Client) Username() string {
	sess, err := c.store.Get()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Username
}

// refreshAccessToken trades the stored refresh token for a new access
// token and persists it. Concurrent callers share one in-flight refresh
// call; each waiter gets the same result, so a burst of 401s costs a
// single round trip to the refresh endpoint.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	token, err, _ := c.refresh.Do("refresh", func() (any, error) {
		sess, err := c.store.Get()
		if err != nil {
			return "", apperrors.Wrapf(err, "api read session")
		}
		if sess == nil || sess.RefreshToken == "" {
			return "", apperrors.ErrNoSession
		}
		var resp refreshResponse
		if err := c.postUnauthenticated(ctx, refreshPath, refreshRequest{Refresh: sess.RefreshToken}, &resp); err != nil {
			return "", err
		}
		if err := c.store.UpdateAccessToken(resp.Access); err != nil {
			return "", apperrors.Wrapf(err, "api store refreshed token")
		}
		c.log.Debug().Msg("access token refreshed")
		return resp.Access, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}
