// this package provide "mock" implementation of TokenValidator for testing.
package mock

import (
	"context"
	"errors"

	"github.com/JarcauCristian/notebook-manager/pkg/auth"
)

type TokenValidator struct {
	Impl struct {
		Validate func(context.Context, string) (bool, error)
	}
	Calls struct {
		Validate []string
	}
}

var _ auth.TokenValidator = &TokenValidator{}

func New() *TokenValidator {
	return &TokenValidator{}
}

// Accepting returns a mock accepting every token.
func Accepting() *TokenValidator {
	m := New()
	m.Impl.Validate = func(context.Context, string) (bool, error) { return true, nil }
	return m
}

func (m *TokenValidator) Validate(ctx context.Context, token string) (bool, error) {
	m.Calls.Validate = append(m.Calls.Validate, token)
	if m.Impl.Validate == nil {
		return false, errors.New("[MOCK] not implemented: Validate")
	}
	return m.Impl.Validate(ctx, token)
}
