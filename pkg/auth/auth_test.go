package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	httptestutil "github.com/JarcauCristian/notebook-manager/internal/testutils/http"
	"github.com/JarcauCristian/notebook-manager/pkg/auth"
	"github.com/JarcauCristian/notebook-manager/pkg/auth/mock"
)

func TestBearerAuth(t *testing.T) {

	type When struct {
		header  []httptestutil.RequestOption
		verdict bool
		err     error
	}
	type Then struct {
		statusCode    int
		nextReached   bool
		validatorUsed bool
	}

	for name, testcase := range map[string]struct {
		when When
		then Then
	}{
		"when the request carries no Authorization header, it responds 400 without consulting the validator": {
			when: When{header: nil},
			then: Then{statusCode: http.StatusBadRequest},
		},
		"when the header is not a Bearer scheme, it responds 400 without consulting the validator": {
			when: When{header: []httptestutil.RequestOption{
				httptestutil.WithHeader("Authorization", "Basic dXNlcjpwYXNz"),
			}},
			then: Then{statusCode: http.StatusBadRequest},
		},
		"when the validator rejects the token, it responds 401": {
			when: When{
				header:  []httptestutil.RequestOption{httptestutil.BearerToken("bad-token")},
				verdict: false,
			},
			then: Then{statusCode: http.StatusUnauthorized, validatorUsed: true},
		},
		"when the validator cannot answer, it responds 503": {
			when: When{
				header: []httptestutil.RequestOption{httptestutil.BearerToken("some-token")},
				err:    errors.New("fake keycloak outage"),
			},
			then: Then{statusCode: http.StatusServiceUnavailable, validatorUsed: true},
		},
		"when the validator accepts the token, it passes the request on": {
			when: When{
				header:  []httptestutil.RequestOption{httptestutil.BearerToken("good-token")},
				verdict: true,
			},
			then: Then{nextReached: true, validatorUsed: true},
		},
	} {
		t.Run(name, func(t *testing.T) {
			validator := mock.New()
			validator.Impl.Validate = func(context.Context, string) (bool, error) {
				return testcase.when.verdict, testcase.when.err
			}

			nextReached := false
			next := func(c echo.Context) error {
				nextReached = true
				return c.NoContent(http.StatusOK)
			}

			e := echo.New()
			c, _ := httptestutil.Get(e, "/notebook_manager/notebooks/", testcase.when.header...)
			err := auth.BearerAuth(validator)(next)(c)

			then := testcase.then
			if nextReached != then.nextReached {
				t.Errorf("next handler reached: %v, expected: %v", nextReached, then.nextReached)
			}
			if then.nextReached {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				var httpErr *echo.HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("error is not echo.HTTPError: %v", err)
				}
				if httpErr.Code != then.statusCode {
					t.Errorf("status code: %d, expected: %d", httpErr.Code, then.statusCode)
				}
			}
			if used := len(validator.Calls.Validate) != 0; used != then.validatorUsed {
				t.Errorf("validator consulted: %v, expected: %v", used, then.validatorUsed)
			}
		})
	}
}

func TestKeycloakValidator(t *testing.T) {

	expiredToken := func(t *testing.T, exp time.Time) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("test-signing-key"))
		if err != nil {
			t.Fatal(err)
		}
		return token
	}

	t.Run("it accepts a token the userinfo endpoint accepts", func(t *testing.T) {
		requestedWith := ""
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedWith = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		testee := auth.NewKeycloakValidator(server.URL)
		ok, err := testee.Validate(context.Background(), "opaque-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("token should be accepted")
		}
		if requestedWith != "Bearer opaque-token" {
			t.Errorf("userinfo request header: %s, expected: Bearer opaque-token", requestedWith)
		}
	})

	t.Run("it rejects a token the userinfo endpoint rejects", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		testee := auth.NewKeycloakValidator(server.URL)
		ok, err := testee.Validate(context.Background(), "opaque-token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("token should be rejected")
		}
	})

	t.Run("it rejects an expired JWT without calling the userinfo endpoint", func(t *testing.T) {
		roundTrips := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roundTrips += 1
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		testee := auth.NewKeycloakValidator(
			server.URL, auth.WithClock(func() time.Time { return now }),
		)

		ok, err := testee.Validate(
			context.Background(), expiredToken(t, now.Add(-time.Minute)),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expired token should be rejected")
		}
		if roundTrips != 0 {
			t.Errorf("userinfo endpoint called %d times, expected: 0", roundTrips)
		}
	})

	t.Run("it defers an unexpired JWT to the userinfo endpoint", func(t *testing.T) {
		roundTrips := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roundTrips += 1
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
		testee := auth.NewKeycloakValidator(
			server.URL, auth.WithClock(func() time.Time { return now }),
		)

		ok, err := testee.Validate(
			context.Background(), expiredToken(t, now.Add(time.Hour)),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("token should be accepted")
		}
		if roundTrips != 1 {
			t.Errorf("userinfo endpoint called %d times, expected: 1", roundTrips)
		}
	})

	t.Run("it errors when the userinfo endpoint misbehaves", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		testee := auth.NewKeycloakValidator(server.URL)
		if _, err := testee.Validate(context.Background(), "opaque-token"); err == nil {
			t.Error("an error should be returned")
		}
	})
}
