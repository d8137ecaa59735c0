package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/JarcauCristian/notebook-manager/pkg/api/types/errors"
)

// TokenValidator answers whether a bearer token identifies a signed-in user.
type TokenValidator interface {
	// Validate returns (true, nil) for an acceptable token and
	// (false, nil) for a rejected one. error means the verdict could
	// not be obtained at all.
	Validate(ctx context.Context, token string) (bool, error)
}

// BearerAuth guards routes with TokenValidator.
//
// Requests without a `Authorization: Bearer ...` header are rejected as
// bad requests; requests whose token the validator refuses, as unauthorized.
func BearerAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if header == "" || !found {
				return apierr.BadRequest("authorization token not provided", nil)
			}

			ok, err := validator.Validate(c.Request().Context(), token)
			if err != nil {
				return apierr.ServiceUnavailable("could not verify token", err)
			}
			if !ok {
				return apierr.Unauthorized("unauthorized access", nil)
			}
			return next(c)
		}
	}
}
