// this package provide "mock" implementation of the notebook orchestrator for testing.
package mock

import (
	"context"
	"errors"
	"time"

	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	k8s "github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/k8s"
)

type Orchestrator struct {
	Impl struct {
		Spawn               func(context.Context, k8s.CreateParams) (*k8s.Spawned, error)
		Teardown            func(context.Context, string) ([]string, error)
		CheckState          func(context.Context, string) (domain.NotebookState, error)
		DeploymentCreatedAt func(context.Context, string) (time.Time, error)
	}
	Calls struct {
		Spawn               []k8s.CreateParams
		Teardown            []string
		CheckState          []string
		DeploymentCreatedAt []string
	}
}

var _ k8s.Interface = &Orchestrator{}

func New() *Orchestrator {
	return &Orchestrator{}
}

func (m *Orchestrator) Spawn(ctx context.Context, params k8s.CreateParams) (*k8s.Spawned, error) {
	m.Calls.Spawn = append(m.Calls.Spawn, params)
	if m.Impl.Spawn == nil {
		return nil, errors.New("[MOCK] not implemented: Spawn")
	}
	return m.Impl.Spawn(ctx, params)
}

func (m *Orchestrator) Teardown(ctx context.Context, notebookId string) ([]string, error) {
	m.Calls.Teardown = append(m.Calls.Teardown, notebookId)
	if m.Impl.Teardown == nil {
		return nil, errors.New("[MOCK] not implemented: Teardown")
	}
	return m.Impl.Teardown(ctx, notebookId)
}

func (m *Orchestrator) CheckState(ctx context.Context, notebookId string) (domain.NotebookState, error) {
	m.Calls.CheckState = append(m.Calls.CheckState, notebookId)
	if m.Impl.CheckState == nil {
		return "", errors.New("[MOCK] not implemented: CheckState")
	}
	return m.Impl.CheckState(ctx, notebookId)
}

func (m *Orchestrator) DeploymentCreatedAt(ctx context.Context, notebookId string) (time.Time, error) {
	m.Calls.DeploymentCreatedAt = append(m.Calls.DeploymentCreatedAt, notebookId)
	if m.Impl.DeploymentCreatedAt == nil {
		return time.Time{}, errors.New("[MOCK] not implemented: DeploymentCreatedAt")
	}
	return m.Impl.DeploymentCreatedAt(ctx, notebookId)
}
