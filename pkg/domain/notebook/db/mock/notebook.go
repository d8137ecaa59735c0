// this package provide "mock" implementation of the notebook record store for testing.
package mock

import (
	"context"
	"errors"

	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	kdb "github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/db"
)

type NotebookInterface struct {
	Impl struct {
		Register    func(context.Context, *domain.Notebook) error
		Get         func(context.Context, string) (*domain.Notebook, error)
		ListForUser func(context.Context, string) ([]domain.Notebook, error)
		Touch       func(context.Context, string) error
		Delete      func(context.Context, string) error
	}
	Calls struct {
		Register    []*domain.Notebook
		Get         []string
		ListForUser []string
		Touch       []string
		Delete      []string
	}
}

var _ kdb.Interface = &NotebookInterface{}

func New() *NotebookInterface {
	return &NotebookInterface{}
}

func (m *NotebookInterface) Register(ctx context.Context, n *domain.Notebook) error {
	m.Calls.Register = append(m.Calls.Register, n)
	if m.Impl.Register == nil {
		return errors.New("[MOCK] not implemented: Register")
	}
	return m.Impl.Register(ctx, n)
}

func (m *NotebookInterface) Get(ctx context.Context, notebookId string) (*domain.Notebook, error) {
	m.Calls.Get = append(m.Calls.Get, notebookId)
	if m.Impl.Get == nil {
		return nil, errors.New("[MOCK] not implemented: Get")
	}
	return m.Impl.Get(ctx, notebookId)
}

func (m *NotebookInterface) ListForUser(ctx context.Context, userId string) ([]domain.Notebook, error) {
	m.Calls.ListForUser = append(m.Calls.ListForUser, userId)
	if m.Impl.ListForUser == nil {
		return nil, errors.New("[MOCK] not implemented: ListForUser")
	}
	return m.Impl.ListForUser(ctx, userId)
}

func (m *NotebookInterface) Touch(ctx context.Context, notebookId string) error {
	m.Calls.Touch = append(m.Calls.Touch, notebookId)
	if m.Impl.Touch == nil {
		return errors.New("[MOCK] not implemented: Touch")
	}
	return m.Impl.Touch(ctx, notebookId)
}

func (m *NotebookInterface) Delete(ctx context.Context, notebookId string) error {
	m.Calls.Delete = append(m.Calls.Delete, notebookId)
	if m.Impl.Delete == nil {
		return errors.New("[MOCK] not implemented: Delete")
	}
	return m.Impl.Delete(ctx, notebookId)
}
