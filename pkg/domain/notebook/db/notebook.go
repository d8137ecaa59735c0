package db

import (
	"context"

	"github.com/JarcauCristian/notebook-manager/pkg/domain"
)

// Interface is the durable record store of notebook instances.
//
// Each operation is atomic per row. There are no multi-row transactions;
// the store owns exactly one table.
type Interface interface {
	// Register inserts the record of a newly provisioned notebook.
	//
	// Return domain.ErrConflict when a record with same id exists already
	// (should not happen: ids are minted from a 128-bit random space).
	Register(ctx context.Context, n *domain.Notebook) error

	// Get returns the record identified by notebookId.
	//
	// Return domain.ErrMissing when no record matches.
	Get(ctx context.Context, notebookId string) (*domain.Notebook, error)

	// ListForUser returns all records owned by userId, oldest first.
	ListForUser(ctx context.Context, userId string) ([]domain.Notebook, error)

	// Touch updates last-accessed of the record to the current time.
	//
	// Return domain.ErrMissing when no record matches.
	Touch(ctx context.Context, notebookId string) error

	// Delete removes the record identified by notebookId.
	//
	// Return domain.ErrMissing when no record matches.
	Delete(ctx context.Context, notebookId string) error
}
