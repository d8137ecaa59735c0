package mock

import (
	"context"
	"errors"

	kubeapps "k8s.io/api/apps/v1"
	kubecore "k8s.io/api/core/v1"
	kubenet "k8s.io/api/networking/v1"

	"github.com/JarcauCristian/notebook-manager/pkg/cluster"
)

// get mocked cluster.Cluster
//
// # returns
//
//   - cluster.Cluster : using *MockClient as base client
//   - *MockClient : mock object.
//     you can fake k8s behaviours or spy its usage.
func NewCluster() (cluster.Cluster, *MockClient) {
	client := NewMockClient()
	return cluster.AttachCluster(client, "fake-namespace"), client
}

type MockClient struct {
	Impl struct {
		CreateSecret func(ctx context.Context, namespace string, sec *kubecore.Secret) (*kubecore.Secret, error)
		DeleteSecret func(ctx context.Context, namespace string, name string) error

		CreateDeployment func(ctx context.Context, namespace string, depl *kubeapps.Deployment) (*kubeapps.Deployment, error)
		GetDeployment    func(ctx context.Context, namespace string, name string) (*kubeapps.Deployment, error)
		DeleteDeployment func(ctx context.Context, namespace string, name string) error

		CreateService func(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error)
		DeleteService func(ctx context.Context, namespace string, name string) error
		ListServices  func(ctx context.Context, namespace string) ([]kubecore.Service, error)

		CreateIngress func(ctx context.Context, namespace string, ing *kubenet.Ingress) (*kubenet.Ingress, error)
		DeleteIngress func(ctx context.Context, namespace string, name string) error

		ListPods func(ctx context.Context, namespace string) ([]kubecore.Pod, error)
	}

	Calls struct {
		CreateSecret     []string
		DeleteSecret     []string
		CreateDeployment []string
		GetDeployment    []string
		DeleteDeployment []string
		CreateService    []string
		DeleteService    []string
		ListServices     int
		CreateIngress    []string
		DeleteIngress    []string
		ListPods         int
	}
}

var _ cluster.K8sClient = &MockClient{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) CreateSecret(ctx context.Context, namespace string, sec *kubecore.Secret) (*kubecore.Secret, error) {
	m.Calls.CreateSecret = append(m.Calls.CreateSecret, sec.ObjectMeta.Name)
	if m.Impl.CreateSecret == nil {
		return nil, errors.New("[MOCK] not implemented: CreateSecret")
	}
	return m.Impl.CreateSecret(ctx, namespace, sec)
}

func (m *MockClient) DeleteSecret(ctx context.Context, namespace string, name string) error {
	m.Calls.DeleteSecret = append(m.Calls.DeleteSecret, name)
	if m.Impl.DeleteSecret == nil {
		return errors.New("[MOCK] not implemented: DeleteSecret")
	}
	return m.Impl.DeleteSecret(ctx, namespace, name)
}

func (m *MockClient) CreateDeployment(ctx context.Context, namespace string, depl *kubeapps.Deployment) (*kubeapps.Deployment, error) {
	m.Calls.CreateDeployment = append(m.Calls.CreateDeployment, depl.ObjectMeta.Name)
	if m.Impl.CreateDeployment == nil {
		return nil, errors.New("[MOCK] not implemented: CreateDeployment")
	}
	return m.Impl.CreateDeployment(ctx, namespace, depl)
}

func (m *MockClient) GetDeployment(ctx context.Context, namespace string, name string) (*kubeapps.Deployment, error) {
	m.Calls.GetDeployment = append(m.Calls.GetDeployment, name)
	if m.Impl.GetDeployment == nil {
		return nil, errors.New("[MOCK] not implemented: GetDeployment")
	}
	return m.Impl.GetDeployment(ctx, namespace, name)
}

func (m *MockClient) DeleteDeployment(ctx context.Context, namespace string, name string) error {
	m.Calls.DeleteDeployment = append(m.Calls.DeleteDeployment, name)
	if m.Impl.DeleteDeployment == nil {
		return errors.New("[MOCK] not implemented: DeleteDeployment")
	}
	return m.Impl.DeleteDeployment(ctx, namespace, name)
}

func (m *MockClient) CreateService(ctx context.Context, namespace string, svc *kubecore.Service) (*kubecore.Service, error) {
	m.Calls.CreateService = append(m.Calls.CreateService, svc.ObjectMeta.Name)
	if m.Impl.CreateService == nil {
		return nil, errors.New("[MOCK] not implemented: CreateService")
	}
	return m.Impl.CreateService(ctx, namespace, svc)
}

func (m *MockClient) DeleteService(ctx context.Context, namespace string, name string) error {
	m.Calls.DeleteService = append(m.Calls.DeleteService, name)
	if m.Impl.DeleteService == nil {
		return errors.New("[MOCK] not implemented: DeleteService")
	}
	return m.Impl.DeleteService(ctx, namespace, name)
}

func (m *MockClient) ListServices(ctx context.Context, namespace string) ([]kubecore.Service, error) {
	m.Calls.ListServices += 1
	if m.Impl.ListServices == nil {
		return nil, errors.New("[MOCK] not implemented: ListServices")
	}
	return m.Impl.ListServices(ctx, namespace)
}

func (m *MockClient) CreateIngress(ctx context.Context, namespace string, ing *kubenet.Ingress) (*kubenet.Ingress, error) {
	m.Calls.CreateIngress = append(m.Calls.CreateIngress, ing.ObjectMeta.Name)
	if m.Impl.CreateIngress == nil {
		return nil, errors.New("[MOCK] not implemented: CreateIngress")
	}
	return m.Impl.CreateIngress(ctx, namespace, ing)
}

func (m *MockClient) DeleteIngress(ctx context.Context, namespace string, name string) error {
	m.Calls.DeleteIngress = append(m.Calls.DeleteIngress, name)
	if m.Impl.DeleteIngress == nil {
		return errors.New("[MOCK] not implemented: DeleteIngress")
	}
	return m.Impl.DeleteIngress(ctx, namespace, name)
}

func (m *MockClient) ListPods(ctx context.Context, namespace string) ([]kubecore.Pod, error) {
	m.Calls.ListPods += 1
	if m.Impl.ListPods == nil {
		return nil, errors.New("[MOCK] not implemented: ListPods")
	}
	return m.Impl.ListPods(ctx, namespace)
}
