package domain

import (
	"errors"
	"fmt"
	"time"
)

// record in the durable store is missing.
var ErrMissing = errors.New("missing")

// record already exists in the durable store.
var ErrConflict = errors.New("conflict")

var ErrUnsupportedVariant = errors.New("unsupported notebook type")

// NotebookVariant selects which notebook image a new instance runs.
type NotebookVariant string

var (
	VariantSklearn        NotebookVariant = "sklearn"
	VariantPytorch        NotebookVariant = "pytorch"
	VariantClassification NotebookVariant = "classification"
)

func (v NotebookVariant) String() string {
	return string(v)
}

func AsNotebookVariant(s string) (NotebookVariant, error) {
	switch NotebookVariant(s) {
	case VariantSklearn:
		return VariantSklearn, nil
	case VariantPytorch:
		return VariantPytorch, nil
	case VariantClassification:
		return VariantClassification, nil
	default:
		return NotebookVariant(s), fmt.Errorf("%w: %s", ErrUnsupportedVariant, s)
	}
}

// Notebook is the durable record of one provisioned notebook instance.
//
// NotebookId is minted once at creation and correlates the record with
// the cluster resources named `{kind}-{id}`.
type Notebook struct {
	NotebookId   string
	UserId       string
	Description  string
	DatasetURL   string
	Port         int32
	Variant      NotebookVariant
	CreatedAt    time.Time
	LastAccessed time.Time
}

func (n *Notebook) Equal(o *Notebook) bool {
	if (n == nil) || (o == nil) {
		return (n == nil) && (o == nil)
	}
	return n.NotebookId == o.NotebookId &&
		n.UserId == o.UserId &&
		n.Description == o.Description &&
		n.DatasetURL == o.DatasetURL &&
		n.Port == o.Port &&
		n.Variant == o.Variant &&
		n.CreatedAt.Equal(o.CreatedAt) &&
		n.LastAccessed.Equal(o.LastAccessed)
}

// NotebookState is the one-shot liveness of a notebook workload.
type NotebookState string

var (
	StateRunning NotebookState = "Running"
	StatePending NotebookState = "Pending"
	StateFailed  NotebookState = "Failed"
)

func (s NotebookState) String() string {
	return string(s)
}
