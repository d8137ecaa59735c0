package k8s

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	kubeapps "k8s.io/api/apps/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"
	kubeapimeta "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	"github.com/JarcauCristian/notebook-manager/pkg/utils/pointer"
)

// a resource template misses a field the builder must rewrite.
var ErrInvalidTemplate = errors.New("invalid resource template")

// CreateParams carries the caller-supplied intent of one create request.
type CreateParams struct {
	UserId      string
	Description string
	DatasetURL  string
	Variant     domain.NotebookVariant
}

// Bundle is the set of cluster resources realizing one notebook instance.
//
// All cross-references between members (deployment -> secret,
// ingress -> service & port) are derived from the same notebook id,
// consistent by construction.
//
// Ingress is nil when the builder is configured without one.
type Bundle struct {
	NotebookId string
	Port       int32

	Secret     *kubecore.Secret
	Deployment *kubeapps.Deployment
	Service    *kubecore.Service
	Ingress    *kubenet.Ingress
}

const tokenLength = 16

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newToken() (string, error) {
	buf := make([]byte, tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Builder derives a Bundle from a notebook id and CreateParams.
//
// Building is deterministic (token generation aside) and side-effect free;
// nothing is sent to the cluster.
type Builder struct {
	templates      Templates
	images         map[domain.NotebookVariant]string
	withIngress    bool
	withAuthToken  bool
	deleterService string
	deleterPort    int32
}

type BuilderOption func(*Builder)

// WithImages replaces the variant -> container image table.
func WithImages(images map[domain.NotebookVariant]string) BuilderOption {
	return func(b *Builder) {
		b.images = images
	}
}

// WithIngress controls whether built bundles expose an ingress route.
func WithIngress(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.withIngress = enabled
	}
}

// WithAuthToken controls whether built bundles carry a generated access token.
func WithAuthToken(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.withAuthToken = enabled
	}
}

// WithDeleterService sets the callback service coordinates
// written into each notebook's secret.
func WithDeleterService(name string, port int32) BuilderOption {
	return func(b *Builder) {
		b.deleterService = name
		b.deleterPort = port
	}
}

func NewBuilder(templates Templates, options ...BuilderOption) *Builder {
	b := &Builder{
		templates: templates,
		images: map[domain.NotebookVariant]string{
			domain.VariantSklearn:        "jupyter/scipy-notebook:latest",
			domain.VariantPytorch:        "jupyter/pytorch-notebook:latest",
			domain.VariantClassification: "jupyter/tensorflow-notebook:latest",
		},
		withIngress:    true,
		withAuthToken:  true,
		deleterService: "api-deleter-service",
		deleterPort:    49153,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// ImageFor resolves the container image of a variant.
//
// Return domain.ErrUnsupportedVariant for variants outside the table.
func (b *Builder) ImageFor(variant domain.NotebookVariant) (string, error) {
	image, ok := b.images[variant]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedVariant, variant)
	}
	return image, nil
}

// Build derives the Bundle for notebookId on the given port.
//
// # Returns
//
// - *Bundle
//
// - string: the plaintext access token, generated only when the builder
// is configured with one. It is returned here exactly once; the secret
// stores only a bcrypt hash of it.
//
// - error: domain.ErrUnsupportedVariant or ErrInvalidTemplate.
func (b *Builder) Build(notebookId string, params CreateParams, port int32) (*Bundle, string, error) {
	image, err := b.ImageFor(params.Variant)
	if err != nil {
		return nil, "", err
	}

	token := ""
	secret, err := b.buildSecret(notebookId, params)
	if err != nil {
		return nil, "", err
	}
	if b.withAuthToken {
		token, err = newToken()
		if err != nil {
			return nil, "", err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", err
		}
		secret.Data["jupyter_token_hash"] = hash
	}

	deployment, err := b.buildDeployment(notebookId, image)
	if err != nil {
		return nil, "", err
	}

	service, err := b.buildService(notebookId, port)
	if err != nil {
		return nil, "", err
	}

	bundle := &Bundle{
		NotebookId: notebookId,
		Port:       port,
		Secret:     secret,
		Deployment: deployment,
		Service:    service,
	}

	if b.withIngress {
		ingress, err := b.buildIngress(notebookId, port)
		if err != nil {
			return nil, "", err
		}
		bundle.Ingress = ingress
	}

	return bundle, token, nil
}

func setAppLabel(meta *kubeapimeta.ObjectMeta, notebookId string) {
	if meta.Labels == nil {
		meta.Labels = map[string]string{}
	}
	meta.Labels["app"] = notebookId
}

func (b *Builder) buildSecret(notebookId string, params CreateParams) (*kubecore.Secret, error) {
	secret := b.templates.Secret()
	secret.ObjectMeta.Name = SecretNameOf(notebookId)
	setAppLabel(&secret.ObjectMeta, notebookId)

	if secret.Data == nil {
		secret.Data = map[string][]byte{}
	}
	secret.Data["notebook_id"] = []byte(notebookId)
	secret.Data["user_id"] = []byte(params.UserId)
	secret.Data["dataset_url"] = []byte(params.DatasetURL)
	secret.Data["service_name"] = []byte(b.deleterService)
	secret.Data["service_port"] = []byte(strconv.Itoa(int(b.deleterPort)))

	return secret, nil
}

func (b *Builder) buildDeployment(notebookId string, image string) (*kubeapps.Deployment, error) {
	deployment := b.templates.Deployment()
	if len(deployment.Spec.Template.Spec.Containers) == 0 {
		return nil, fmt.Errorf("%w: deployment has no containers", ErrInvalidTemplate)
	}

	deployment.ObjectMeta.Name = DeploymentNameOf(notebookId)
	setAppLabel(&deployment.ObjectMeta, notebookId)
	if deployment.Spec.Replicas == nil {
		deployment.Spec.Replicas = pointer.Ref(int32(1))
	}
	if deployment.Spec.Selector == nil {
		deployment.Spec.Selector = &kubeapimeta.LabelSelector{}
	}
	deployment.Spec.Selector.MatchLabels = map[string]string{"app": notebookId}
	deployment.Spec.Template.ObjectMeta.Labels = map[string]string{"app": notebookId}

	container := &deployment.Spec.Template.Spec.Containers[0]
	container.Name = notebookId
	container.Image = image

	// every env entry drawn from a secret is redirected to this instance's secret
	for i := range container.Env {
		from := container.Env[i].ValueFrom
		if from == nil || from.SecretKeyRef == nil {
			continue
		}
		from.SecretKeyRef.LocalObjectReference.Name = SecretNameOf(notebookId)
	}

	return deployment, nil
}

func (b *Builder) buildService(notebookId string, port int32) (*kubecore.Service, error) {
	service := b.templates.Service()
	if len(service.Spec.Ports) == 0 {
		return nil, fmt.Errorf("%w: service has no ports", ErrInvalidTemplate)
	}

	service.ObjectMeta.Name = ServiceNameOf(notebookId)
	setAppLabel(&service.ObjectMeta, notebookId)
	service.Spec.Selector = map[string]string{"app": notebookId}
	service.Spec.Ports[0].Port = port

	return service, nil
}

func (b *Builder) buildIngress(notebookId string, port int32) (*kubenet.Ingress, error) {
	ingress := b.templates.Ingress()
	if len(ingress.Spec.Rules) == 0 ||
		ingress.Spec.Rules[0].HTTP == nil ||
		len(ingress.Spec.Rules[0].HTTP.Paths) == 0 {
		return nil, fmt.Errorf("%w: ingress has no rule paths", ErrInvalidTemplate)
	}

	ingress.ObjectMeta.Name = IngressNameOf(notebookId)
	setAppLabel(&ingress.ObjectMeta, notebookId)

	path := &ingress.Spec.Rules[0].HTTP.Paths[0]
	path.Path = "/" + notebookId
	path.Backend.Service = &kubenet.IngressServiceBackend{
		Name: ServiceNameOf(notebookId),
		Port: kubenet.ServiceBackendPort{Number: port},
	}

	return ingress, nil
}
