package k8s

import (
	"fmt"
	"os"
	"path/filepath"

	kubeapps "k8s.io/api/apps/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	"sigs.k8s.io/yaml"
)

// Templates provides the base description of each resource kind.
//
// Accessors return a fresh copy each call, so callers may rewrite
// the returned object freely.
type Templates interface {
	Deployment() *kubeapps.Deployment
	Service() *kubecore.Service
	Secret() *kubecore.Secret
	Ingress() *kubenet.Ingress
}

type templates struct {
	deployment kubeapps.Deployment
	service    kubecore.Service
	secret     kubecore.Secret
	ingress    kubenet.Ingress
}

var _ Templates = &templates{}

func (t *templates) Deployment() *kubeapps.Deployment {
	return t.deployment.DeepCopy()
}

func (t *templates) Service() *kubecore.Service {
	return t.service.DeepCopy()
}

func (t *templates) Secret() *kubecore.Secret {
	return t.secret.DeepCopy()
}

func (t *templates) Ingress() *kubenet.Ingress {
	return t.ingress.DeepCopy()
}

// FixedTemplates builds Templates from already-parsed objects. Mostly for tests.
func FixedTemplates(
	depl *kubeapps.Deployment,
	svc *kubecore.Service,
	sec *kubecore.Secret,
	ing *kubenet.Ingress,
) Templates {
	return &templates{
		deployment: *depl, service: *svc, secret: *sec, ingress: *ing,
	}
}

// LoadTemplates reads and parses the base manifest of each resource kind from dir
// (deployment.yaml, service.yaml, secret.yaml, ingress.yaml).
//
// All four files are parsed eagerly, so a broken manifest fails at startup,
// not at the first create request.
func LoadTemplates(dir string) (Templates, error) {
	t := &templates{}

	for name, dest := range map[string]interface{}{
		"deployment.yaml": &t.deployment,
		"service.yaml":    &t.service,
		"secret.yaml":     &t.secret,
		"ingress.yaml":    &t.ingress,
	} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		if err := yaml.UnmarshalStrict(content, dest); err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
	}

	return t, nil
}
