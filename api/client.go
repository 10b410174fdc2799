// Package api is the outbound client for the clinical records service.
// Every authenticated call carries a bearer token from the session store;
// a 401 triggers exactly one refresh-then-retry cycle and never more,
// so an expired refresh token cannot loop.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/clinicware/go-clinic-console/internal/config"
	apperrors "github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/session"
)

// Client wraps calls to the remote clinical records service.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   session.Store
	log     zerolog.Logger
	refresh singleflight.Group

	// nowTime function (injectable for testing)
	nowTime func() time.Time
}

// Option modifies the Client instance.
type Option func(*Client)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

func New(cfg config.Config, store session.Store, log zerolog.Logger, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.GetServiceURL(), "/"),
		httpc:   &http.Client{Timeout: cfg.GetRequestTimeout()},
		store:   store,
		log:     log.With().Str("component", "api").Logger(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// do issues an authenticated request and decodes the 2xx response body
// into out (out may be nil for endpoints with no interesting body).
//
// The session-retry protocol:
//  1. no session -> ErrUnauthenticated immediately
//  2. access token already past its exp claim -> refresh before sending
//  3. 401 -> at most one refresh-then-retry; a failed refresh, or a 401
//     on the retried request, surfaces ErrUnauthenticated
//  4. any other non-2xx -> *RequestError, no retry
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	sess, err := c.store.Get()
	if err != nil {
		return apperrors.Wrapf(err, "api read session")
	}
	if sess == nil {
		return apperrors.ErrUnauthenticated
	}

	token := sess.AccessToken
	if c.tokenExpired(token) {
		refreshed, err := c.refreshAccessToken(ctx)
		if err != nil {
			return apperrors.ErrUnauthenticated
		}
		token = refreshed
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "api encode request body")
		}
	}

	requestID := uuid.NewString()
	log := c.log.With().Str("request_id", requestID).Str("method", method).Str("path", path).Logger()

	resp, raw, err := c.send(ctx, method, path, params, payload, token)
	if err != nil {
		log.Error().Err(err).Msg("request failed")
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		refreshed, err := c.refreshAccessToken(ctx)
		if err != nil {
			log.Warn().Msg("token refresh failed")
			return apperrors.ErrUnauthenticated
		}
		resp, raw, err = c.send(ctx, method, path, params, payload, refreshed)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return apperrors.ErrUnauthenticated
		}
		log.Debug().Msg("retried with refreshed token")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("service rejected request")
		return &apperrors.RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrapf(err, "api decode %s %s response", method, path)
		}
	}
	return nil
}

// send performs one HTTP round trip and drains the body so the request
// can be replayed by the retry path.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, payload []byte, token string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), reader)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "api build %s %s", method, path)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "api %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "api read %s %s response", method, path)
	}
	return resp, raw, nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// tokenExpired reports whether the access token carries an exp claim in
// the past. The token is not verified here; the service is the authority
// and a wrong guess only costs the 401 retry path.
func (c *Client) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(c.nowTime())
}

// postUnauthenticated is for the endpoints that establish a session
// (login, register, refresh) and therefore carry no bearer token.
func (c *Client) postUnauthenticated(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "api encode request body")
	}
	resp, raw, err := c.send(ctx, http.MethodPost, path, nil, payload, "")
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrapf(err, "api decode %s response", path)
		}
	}
	return nil
}

// itemPath builds a record's item endpoint, e.g. /api/patients/12/.
func itemPath(collection string, id int) string {
	return fmt.Sprintf("%s%d/", collection, id)
}
