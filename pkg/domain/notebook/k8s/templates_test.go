package k8s_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/k8s"
)

func TestLoadTemplates(t *testing.T) {

	t.Run("it parses the four manifests of a template directory", func(t *testing.T) {
		testee, err := k8s.LoadTemplates("./testdata/templates")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		depl := testee.Deployment()
		if len(depl.Spec.Template.Spec.Containers) == 0 {
			t.Error("deployment template should have a container")
		}
		if len(testee.Service().Spec.Ports) == 0 {
			t.Error("service template should have a port")
		}
		ing := testee.Ingress()
		if len(ing.Spec.Rules) == 0 || ing.Spec.Rules[0].HTTP == nil {
			t.Error("ingress template should have a http rule")
		}
	})

	t.Run("accessors return copies, not the parsed object", func(t *testing.T) {
		testee, err := k8s.LoadTemplates("./testdata/templates")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		testee.Deployment().ObjectMeta.Name = "scribbled"
		if name := testee.Deployment().ObjectMeta.Name; name == "scribbled" {
			t.Error("templates should not be writable through accessors")
		}
	})

	t.Run("a missing manifest fails at load time", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"deployment.yaml", "service.yaml", "secret.yaml"} {
			content, err := os.ReadFile(filepath.Join("./testdata/templates", name))
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
				t.Fatal(err)
			}
		}
		// ingress.yaml is absent

		if _, err := k8s.LoadTemplates(dir); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected a not-exist error, but got: %v", err)
		}
	})

	t.Run("a malformed manifest fails at load time", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"deployment.yaml", "service.yaml", "secret.yaml", "ingress.yaml"} {
			content, err := os.ReadFile(filepath.Join("./testdata/templates", name))
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.WriteFile(
			filepath.Join(dir, "service.yaml"),
			[]byte("spec:\n  noSuchField: true\n"), 0644,
		); err != nil {
			t.Fatal(err)
		}

		if _, err := k8s.LoadTemplates(dir); err == nil {
			t.Error("a malformed manifest should be rejected")
		}
	})
}
