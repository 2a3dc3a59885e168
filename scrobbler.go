package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/gommon/log"
)

const defaultScrobbleEndpoint = "https://openscrobbler.com/api/v2/scrobble.php"

// Bounded so a wedged endpoint cannot hold up worker cancellation for long.
const scrobbleRequestTimeout = 15 * time.Second

var (
	ErrNoCredentials = errors.New("scrobble credentials not configured")
	ErrTokenExpired  = errors.New("scrobble token expired")
)

// ScrobblerConfig carries the openscrobbler endpoint and credentials.
type ScrobblerConfig struct {
	Endpoint  string
	SessionID string // PHPSESSID cookie value
	AuthToken string // JWT sent in the Authorization header
}

// Scrobbler submits played tracks to the remote scrobble endpoint as a
// URL-form-encoded POST with artist[]/track[]/album[]/timestamp[] fields.
type Scrobbler struct {
	endpoint  string
	sessionID string
	authToken string
	client    *http.Client
	logger    *log.Logger
}

func NewScrobbler(cfg ScrobblerConfig, logger *log.Logger) *Scrobbler {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultScrobbleEndpoint
	}
	return &Scrobbler{
		endpoint:  endpoint,
		sessionID: cfg.SessionID,
		authToken: cfg.AuthToken,
		client:    &http.Client{Timeout: scrobbleRequestTimeout},
		logger:    logger,
	}
}

// Submit posts one play. Anything other than HTTP 200 is an error; the
// caller decides whether to record the play in the ledger.
func (s *Scrobbler) Submit(ctx context.Context, rec ScrobbleRecord) error {
	if s.sessionID == "" || s.authToken == "" {
		return ErrNoCredentials
	}
	if expired, err := tokenExpired(s.authToken); err == nil && expired {
		return ErrTokenExpired
	}

	form := url.Values{}
	form.Set("artist[]", rec.Artist)
	form.Set("track[]", rec.Title)
	form.Set("album[]", rec.Album)
	form.Set("timestamp[]", rec.Timestamp.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building scrobble request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", s.authToken)
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: s.sessionID})

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting scrobble: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scrobble endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// tokenExpired decodes the configured bearer token without verifying its
// signature (we are the client, not the issuer) and reports whether the
// exp claim has passed. Unparseable tokens are left for the endpoint to
// reject.
func tokenExpired(raw string) (bool, error) {
	raw = strings.TrimPrefix(raw, "Bearer ")
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return false, err
	}
	return !claims.VerifyExpiresAt(time.Now().Unix(), false), nil
}
