package k8s

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	kubecore "k8s.io/api/core/v1"
	kubeerr "k8s.io/apimachinery/pkg/api/errors"

	"github.com/JarcauCristian/notebook-manager/pkg/cluster"
	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	xe "github.com/JarcauCristian/notebook-manager/pkg/errors"
)

// cluster rejected creating one of the bundle resources.
// Rollback of the already-created siblings has been attempted.
var ErrResourceCreation = errors.New("could not create notebook resources")

// Spawned is the outcome of a successful Spawn.
type Spawned struct {
	NotebookId string
	Port       int32

	// one-time plaintext access token; empty when auth is disabled.
	Token string
}

// Interface drives the cluster-side lifecycle of notebook instances.
type Interface interface {
	// Spawn mints an identity, allocates a port, builds the resource
	// bundle and realizes it in the cluster.
	//
	// The bundle is created in a fixed order: secret, deployment,
	// service, ingress. The deployment mounts the secret by name, so
	// the secret must exist before the workload starts; service and
	// ingress come last so no route is exposed to a workload that
	// could not be created.
	//
	// On failure of any step, everything possibly created so far is
	// deleted again, best-effort, in reverse order. Return
	// domain.ErrUnsupportedVariant, ErrPortRangeExhausted or
	// ErrResourceCreation.
	Spawn(ctx context.Context, params CreateParams) (*Spawned, error)

	// Teardown removes the four cluster resources of notebookId,
	// each independently. Resources already absent are tolerated.
	//
	// # Returns
	//
	// - []string: one warning per resource that failed to delete for a
	// reason other than being absent. Teardown never stops early.
	//
	// - error: only when the cluster was unreachable outright.
	Teardown(ctx context.Context, notebookId string) ([]string, error)

	// CheckState is a one-shot look at the pods of notebookId.
	//
	// Return domain.ErrMissing when no pod of the instance exists.
	CheckState(ctx context.Context, notebookId string) (domain.NotebookState, error)

	// DeploymentCreatedAt reads the cluster-reported creation timestamp
	// of the instance's workload. Return domain.ErrMissing when the
	// deployment does not exist.
	DeploymentCreatedAt(ctx context.Context, notebookId string) (time.Time, error)
}

type orchestrator struct {
	cluster cluster.Cluster
	builder *Builder
}

var _ Interface = &orchestrator{}

func New(c cluster.Cluster, b *Builder) Interface {
	return &orchestrator{cluster: c, builder: b}
}

func (o *orchestrator) Spawn(ctx context.Context, params CreateParams) (*Spawned, error) {
	// reject bad variants before touching the cluster at all
	if _, err := o.builder.ImageFor(params.Variant); err != nil {
		return nil, err
	}

	port, err := AllocatePort(ctx, o.cluster)
	if err != nil {
		return nil, err
	}

	notebookId := NewNotebookId()
	bundle, token, err := o.builder.Build(notebookId, params, port)
	if err != nil {
		return nil, err
	}

	if err := o.provision(ctx, bundle); err != nil {
		return nil, err
	}

	return &Spawned{NotebookId: notebookId, Port: port, Token: token}, nil
}

func (o *orchestrator) provision(ctx context.Context, bundle *Bundle) error {
	client := o.cluster.Client()
	namespace := o.cluster.Namespace()

	steps := []struct {
		kind   string
		create func() error
	}{
		{
			kind: "secret",
			create: func() error {
				_, err := client.CreateSecret(ctx, namespace, bundle.Secret)
				return err
			},
		},
		{
			kind: "deployment",
			create: func() error {
				_, err := client.CreateDeployment(ctx, namespace, bundle.Deployment)
				return err
			},
		},
		{
			kind: "service",
			create: func() error {
				_, err := client.CreateService(ctx, namespace, bundle.Service)
				return err
			},
		},
	}
	if bundle.Ingress != nil {
		steps = append(steps, struct {
			kind   string
			create func() error
		}{
			kind: "ingress",
			create: func() error {
				_, err := client.CreateIngress(ctx, namespace, bundle.Ingress)
				return err
			},
		})
	}

	for nth, step := range steps {
		if err := step.create(); err != nil {
			rollback := o.rollback(ctx, bundle.NotebookId, nth)
			if len(rollback) != 0 {
				return xe.WrapWithNote(
					fmt.Sprintf("rollback left resources behind: %s", strings.Join(rollback, "; ")),
					fmt.Errorf("%w: %s: %s", ErrResourceCreation, step.kind, err),
				)
			}
			return xe.Wrap(fmt.Errorf("%w: %s: %s", ErrResourceCreation, step.kind, err))
		}
	}
	return nil
}

// rollback deletes every resource kind that may have been created by the
// first `upto`+1 provisioning steps, in reverse dependency order.
// It never stops early; leaving orphans behind is worse than extra deletes.
func (o *orchestrator) rollback(ctx context.Context, notebookId string, upto int) []string {
	deleters := o.deleters(notebookId)

	warnings := []string{}
	for nth := upto; 0 <= nth; nth-- {
		d := deleters[len(deleters)-1-nth]
		if _, err := deleteIfPresent(ctx, d.delete); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %s", d.kind, err))
		}
	}
	return warnings
}

func (o *orchestrator) Teardown(ctx context.Context, notebookId string) ([]string, error) {
	warnings := []string{}
	for _, d := range o.deleters(notebookId) {
		if _, err := deleteIfPresent(ctx, d.delete); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %s", d.kind, err))
		}
	}
	return warnings, nil
}

type deleter struct {
	kind   string
	delete func(ctx context.Context) error
}

// deleters lists the resource kinds of an instance in teardown order
// (reverse of the creation order).
func (o *orchestrator) deleters(notebookId string) []deleter {
	client := o.cluster.Client()
	namespace := o.cluster.Namespace()

	return []deleter{
		{"ingress", func(ctx context.Context) error {
			return client.DeleteIngress(ctx, namespace, IngressNameOf(notebookId))
		}},
		{"service", func(ctx context.Context) error {
			return client.DeleteService(ctx, namespace, ServiceNameOf(notebookId))
		}},
		{"deployment", func(ctx context.Context) error {
			return client.DeleteDeployment(ctx, namespace, DeploymentNameOf(notebookId))
		}},
		{"secret", func(ctx context.Context) error {
			return client.DeleteSecret(ctx, namespace, SecretNameOf(notebookId))
		}},
	}
}

// DeletionResult is the outcome of deleteIfPresent.
type DeletionResult int

const (
	DeletionFailed DeletionResult = iota
	Deleted
	AlreadyAbsent
)

// deleteIfPresent deletes a resource, treating "not found" as the
// AlreadyAbsent outcome instead of an error. Rollback and teardown both
// delete resource sets whose members may never have been created.
func deleteIfPresent(ctx context.Context, delete func(ctx context.Context) error) (DeletionResult, error) {
	if err := delete(ctx); err != nil {
		if kubeerr.IsNotFound(err) {
			return AlreadyAbsent, nil
		}
		return DeletionFailed, err
	}
	return Deleted, nil
}

func (o *orchestrator) CheckState(ctx context.Context, notebookId string) (domain.NotebookState, error) {
	pods, err := o.cluster.Client().ListPods(ctx, o.cluster.Namespace())
	if err != nil {
		return "", err
	}

	found := false
	state := domain.StateFailed
	for _, pod := range pods {
		if !strings.Contains(pod.ObjectMeta.Name, notebookId) {
			continue
		}
		found = true
		switch pod.Status.Phase {
		case kubecore.PodRunning:
			return domain.StateRunning, nil
		case kubecore.PodPending:
			state = domain.StatePending
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no pod of notebook %s", domain.ErrMissing, notebookId)
	}
	return state, nil
}

func (o *orchestrator) DeploymentCreatedAt(ctx context.Context, notebookId string) (time.Time, error) {
	deployment, err := o.cluster.Client().GetDeployment(
		ctx, o.cluster.Namespace(), DeploymentNameOf(notebookId),
	)
	if err != nil {
		if kubeerr.IsNotFound(err) {
			return time.Time{}, fmt.Errorf("%w: deployment of notebook %s", domain.ErrMissing, notebookId)
		}
		return time.Time{}, err
	}
	return deployment.ObjectMeta.CreationTimestamp.Time, nil
}
