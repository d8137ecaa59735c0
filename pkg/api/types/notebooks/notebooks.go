package notebooks

// Timestamps in responses are rendered month/day/year, as the dashboard expects.
const TimestampFormat = "01/02/2006"

// NotebookSpec is the request body to create a new notebook instance.
type NotebookSpec struct {
	UserId       string `json:"user_id"`
	Description  string `json:"description"`
	DatasetURL   string `json:"dataset_url"`
	NotebookType string `json:"notebook_type"`
}

// Created is the response for a successful notebook creation.
type Created struct {
	NotebookId string `json:"notebook_id"`
	Port       int32  `json:"port"`

	// Token is the access token generated for the notebook, if any.
	//
	// It is returned here once and never retrievable again;
	// only a one-way hash of it is stored.
	Token string `json:"token,omitempty"`
}

// Detail is one entry of the per-user notebook listing.
type Detail struct {
	NotebookId     string `json:"notebook_id"`
	CreationTime   string `json:"creation_time"`
	ExpirationTime string `json:"expiration_time"`
	LastAccessed   string `json:"last_accessed"`
	Description    string `json:"description"`
	Port           int32  `json:"port"`
	NotebookType   string `json:"notebook_type"`
}

func (d Detail) Equal(o Detail) bool {
	return d == o
}

// Accessed acknowledges that last-accessed of a notebook was updated.
type Accessed struct {
	NotebookId string `json:"notebook_id"`
}

// State reports the one-shot liveness of a notebook workload.
type State struct {
	NotebookId string `json:"notebook_id"`
	Status     string `json:"status"`
}

// Deleted is the response for notebook teardown.
//
// Warning is set when the record was removed but some cluster
// resources could not be cleaned up.
type Deleted struct {
	NotebookId string `json:"notebook_id"`
	Warning    string `json:"warning,omitempty"`
}
