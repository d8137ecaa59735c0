package k8s

import "github.com/google/uuid"

// NewNotebookId mints the identity correlating all resources of one instance.
func NewNotebookId() string {
	return uuid.NewString()
}

// Cluster resource names are always re-derived from the notebook id;
// they are never stored. Changing these prefixes strands every
// already-provisioned instance.

func DeploymentNameOf(notebookId string) string {
	return "deployment-" + notebookId
}

func ServiceNameOf(notebookId string) string {
	return "service-" + notebookId
}

func SecretNameOf(notebookId string) string {
	return "secret-" + notebookId
}

func IngressNameOf(notebookId string) string {
	return "ingress-" + notebookId
}
