package domain_test

import (
	"errors"
	"testing"

	"github.com/JarcauCristian/notebook-manager/pkg/domain"
)

func TestAsNotebookVariant(t *testing.T) {
	t.Run("it accepts the known variants", func(t *testing.T) {
		for name, expected := range map[string]domain.NotebookVariant{
			"sklearn":        domain.VariantSklearn,
			"pytorch":        domain.VariantPytorch,
			"classification": domain.VariantClassification,
		} {
			actual, err := domain.AsNotebookVariant(name)
			if err != nil {
				t.Errorf("unexpected error for %s: %v", name, err)
			}
			if actual != expected {
				t.Errorf("variant of %s: %s, expected: %s", name, actual, expected)
			}
		}
	})

	t.Run("it rejects anything else", func(t *testing.T) {
		for _, name := range []string{"", "tensorflow", "SKLEARN", "sklearn "} {
			if _, err := domain.AsNotebookVariant(name); !errors.Is(err, domain.ErrUnsupportedVariant) {
				t.Errorf("expected ErrUnsupportedVariant for %q, but got: %v", name, err)
			}
		}
	})
}
