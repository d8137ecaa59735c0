package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type keycloakValidator struct {
	userinfoURL string
	client      *http.Client
	parser      *jwt.Parser
	now         func() time.Time
}

var _ TokenValidator = &keycloakValidator{}

type KeycloakOption func(*keycloakValidator)

// WithHTTPClient replaces the HTTP client used for userinfo round-trips.
func WithHTTPClient(client *http.Client) KeycloakOption {
	return func(v *keycloakValidator) {
		v.client = client
	}
}

// WithClock replaces the wall clock. For tests.
func WithClock(now func() time.Time) KeycloakOption {
	return func(v *keycloakValidator) {
		v.now = now
	}
}

// NewKeycloakValidator validates bearer tokens against the Keycloak
// userinfo endpoint at userinfoURL.
//
// Tokens whose JWT expiry already passed are rejected locally, without
// a round-trip. The signature itself is NOT checked here; only Keycloak's
// answer makes a token acceptable.
func NewKeycloakValidator(userinfoURL string, options ...KeycloakOption) TokenValidator {
	v := &keycloakValidator{
		userinfoURL: userinfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		parser:      jwt.NewParser(),
		now:         time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *keycloakValidator) Validate(ctx context.Context, token string) (bool, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := v.parser.ParseUnverified(token, &claims); err == nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(v.now()) {
			return false, nil
		}
	}
	// tokens that do not parse as JWT are still deferred to Keycloak

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userinfoURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, fmt.Errorf("userinfo endpoint answered %d", resp.StatusCode)
	}
}
