package k8s_test

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	kubeapps "k8s.io/api/apps/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"

	"github.com/JarcauCristian/notebook-manager/pkg/cmp"
	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/k8s"
)

// fixtureTemplates mimics the manifests an operator deploys with:
// skeletal objects holding only what the builder does not rewrite.
func fixtureTemplates() k8s.Templates {
	depl := &kubeapps.Deployment{
		Spec: kubeapps.DeploymentSpec{
			Template: kubecore.PodTemplateSpec{
				Spec: kubecore.PodSpec{
					Containers: []kubecore.Container{
						{
							Env: []kubecore.EnvVar{
								{
									Name: "DATASET_URL",
									ValueFrom: &kubecore.EnvVarSource{
										SecretKeyRef: &kubecore.SecretKeySelector{
											LocalObjectReference: kubecore.LocalObjectReference{
												Name: "secret-placeholder",
											},
											Key: "dataset_url",
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
	svc := &kubecore.Service{
		Spec: kubecore.ServiceSpec{
			Ports: []kubecore.ServicePort{{Protocol: kubecore.ProtocolTCP}},
		},
	}
	sec := &kubecore.Secret{}
	ing := &kubenet.Ingress{
		Spec: kubenet.IngressSpec{
			Rules: []kubenet.IngressRule{
				{
					IngressRuleValue: kubenet.IngressRuleValue{
						HTTP: &kubenet.HTTPIngressRuleValue{
							Paths: []kubenet.HTTPIngressPath{{}},
						},
					},
				},
			},
		},
	}
	return k8s.FixedTemplates(depl, svc, sec, ing)
}

func TestBuilder_Build(t *testing.T) {

	params := k8s.CreateParams{
		UserId:      "user-1",
		Description: "churn analysis",
		DatasetURL:  "https://datasets.example/churn.csv",
		Variant:     domain.VariantSklearn,
	}

	t.Run("every member of the bundle references the same notebook id", func(t *testing.T) {
		testee := k8s.NewBuilder(fixtureTemplates())

		bundle, token, err := testee.Build("nb-id-1", params, 49155)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if bundle.NotebookId != "nb-id-1" || bundle.Port != 49155 {
			t.Errorf("unexpected bundle identity: %+v", bundle)
		}

		if name := bundle.Secret.ObjectMeta.Name; name != "secret-nb-id-1" {
			t.Errorf("secret name: %s, expected: secret-nb-id-1", name)
		}
		if name := bundle.Deployment.ObjectMeta.Name; name != "deployment-nb-id-1" {
			t.Errorf("deployment name: %s, expected: deployment-nb-id-1", name)
		}
		if name := bundle.Service.ObjectMeta.Name; name != "service-nb-id-1" {
			t.Errorf("service name: %s, expected: service-nb-id-1", name)
		}
		if name := bundle.Ingress.ObjectMeta.Name; name != "ingress-nb-id-1" {
			t.Errorf("ingress name: %s, expected: ingress-nb-id-1", name)
		}

		// deployment selects pods of this instance, and only those
		expectedSelector := map[string]string{"app": "nb-id-1"}
		if sel := bundle.Deployment.Spec.Selector.MatchLabels; !cmp.MapEq(sel, expectedSelector) {
			t.Errorf("deployment selector: %+v, expected: %+v", sel, expectedSelector)
		}
		if labels := bundle.Deployment.Spec.Template.ObjectMeta.Labels; !cmp.MapEq(labels, expectedSelector) {
			t.Errorf("pod labels: %+v, expected: %+v", labels, expectedSelector)
		}
		if sel := bundle.Service.Spec.Selector; !cmp.MapEq(sel, expectedSelector) {
			t.Errorf("service selector: %+v, expected: %+v", sel, expectedSelector)
		}

		// env entries drawn from a secret point at this instance's secret
		env := bundle.Deployment.Spec.Template.Spec.Containers[0].Env[0]
		if ref := env.ValueFrom.SecretKeyRef.LocalObjectReference.Name; ref != "secret-nb-id-1" {
			t.Errorf("env secret ref: %s, expected: secret-nb-id-1", ref)
		}

		// ingress routes /{id} to this instance's service on the allocated port
		path := bundle.Ingress.Spec.Rules[0].HTTP.Paths[0]
		if path.Path != "/nb-id-1" {
			t.Errorf("ingress path: %s, expected: /nb-id-1", path.Path)
		}
		if path.Backend.Service.Name != "service-nb-id-1" {
			t.Errorf("ingress backend: %s, expected: service-nb-id-1", path.Backend.Service.Name)
		}
		if path.Backend.Service.Port.Number != 49155 {
			t.Errorf("ingress backend port: %d, expected: 49155", path.Backend.Service.Port.Number)
		}
		if port := bundle.Service.Spec.Ports[0].Port; port != 49155 {
			t.Errorf("service port: %d, expected: 49155", port)
		}

		// secret carries the instance metadata and the deleter callback
		for key, expected := range map[string]string{
			"notebook_id":  "nb-id-1",
			"user_id":      "user-1",
			"dataset_url":  "https://datasets.example/churn.csv",
			"service_name": "api-deleter-service",
			"service_port": "49153",
		} {
			if actual := string(bundle.Secret.Data[key]); actual != expected {
				t.Errorf("secret data %s: %s, expected: %s", key, actual, expected)
			}
		}

		// the token is returned in plaintext once; the secret holds only its hash
		if token == "" {
			t.Fatal("token should be generated")
		}
		hash, ok := bundle.Secret.Data["jupyter_token_hash"]
		if !ok {
			t.Fatal("secret should hold the token hash")
		}
		if string(hash) == token {
			t.Error("secret should not hold the plaintext token")
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
			t.Errorf("hash does not verify the token: %v", err)
		}
	})

	t.Run("each variant selects its image", func(t *testing.T) {
		testee := k8s.NewBuilder(fixtureTemplates())

		for variant, expected := range map[domain.NotebookVariant]string{
			domain.VariantSklearn:        "jupyter/scipy-notebook:latest",
			domain.VariantPytorch:        "jupyter/pytorch-notebook:latest",
			domain.VariantClassification: "jupyter/tensorflow-notebook:latest",
		} {
			p := params
			p.Variant = variant
			bundle, _, err := testee.Build("nb-id-1", p, 49155)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if image := bundle.Deployment.Spec.Template.Spec.Containers[0].Image; image != expected {
				t.Errorf("image of %s: %s, expected: %s", variant, image, expected)
			}
		}
	})

	t.Run("an unsupported variant is rejected", func(t *testing.T) {
		testee := k8s.NewBuilder(fixtureTemplates())

		p := params
		p.Variant = domain.NotebookVariant("tensorflow")
		if _, _, err := testee.Build("nb-id-1", p, 49155); !errors.Is(err, domain.ErrUnsupportedVariant) {
			t.Errorf("expected ErrUnsupportedVariant, but got: %v", err)
		}
	})

	t.Run("without ingress, the bundle has none", func(t *testing.T) {
		testee := k8s.NewBuilder(fixtureTemplates(), k8s.WithIngress(false))

		bundle, _, err := testee.Build("nb-id-1", params, 49155)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bundle.Ingress != nil {
			t.Errorf("ingress should not be built")
		}
	})

	t.Run("without auth token, neither token nor hash exist", func(t *testing.T) {
		testee := k8s.NewBuilder(fixtureTemplates(), k8s.WithAuthToken(false))

		bundle, token, err := testee.Build("nb-id-1", params, 49155)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Errorf("token should not be generated")
		}
		if _, ok := bundle.Secret.Data["jupyter_token_hash"]; ok {
			t.Errorf("secret should not hold a token hash")
		}
	})

	t.Run("building does not leak into the templates", func(t *testing.T) {
		templates := fixtureTemplates()
		testee := k8s.NewBuilder(templates)

		if _, _, err := testee.Build("nb-id-1", params, 49155); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if name := templates.Deployment().ObjectMeta.Name; name != "" {
			t.Errorf("template deployment was renamed to %s", name)
		}
		if data := templates.Secret().Data; len(data) != 0 {
			t.Errorf("template secret accumulated data: %+v", data)
		}
	})

	t.Run("a template with no containers is rejected", func(t *testing.T) {
		broken := k8s.FixedTemplates(
			&kubeapps.Deployment{},
			&kubecore.Service{Spec: kubecore.ServiceSpec{Ports: []kubecore.ServicePort{{}}}},
			&kubecore.Secret{},
			&kubenet.Ingress{},
		)
		testee := k8s.NewBuilder(broken, k8s.WithIngress(false))

		if _, _, err := testee.Build("nb-id-1", params, 49155); !errors.Is(err, k8s.ErrInvalidTemplate) {
			t.Errorf("expected ErrInvalidTemplate, but got: %v", err)
		}
	})
}
