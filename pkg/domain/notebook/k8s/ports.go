package k8s

import (
	"context"
	"errors"

	"github.com/JarcauCristian/notebook-manager/pkg/cluster"
)

// bounds of the service port range, inclusive.
const (
	PortRangeMin int32 = 49154
	PortRangeMax int32 = 49174
)

// every port in [PortRangeMin, PortRangeMax] is claimed by a live service.
var ErrPortRangeExhausted = errors.New("no free port left in range")

// AllocatePort scans services registered in the cluster namespace and
// returns the lowest port in [PortRangeMin, PortRangeMax] not claimed by
// any of them.
//
// The scan and the later service creation are not atomic: two concurrent
// create requests can both observe the same port as free. The window is
// narrow and creation rate is low against a 21-port range, so this is
// accepted rather than guarded by a cluster-wide lock.
func AllocatePort(ctx context.Context, c cluster.Cluster) (int32, error) {
	services, err := c.Client().ListServices(ctx, c.Namespace())
	if err != nil {
		return 0, err
	}

	used := map[int32]struct{}{}
	for _, svc := range services {
		for _, port := range svc.Spec.Ports {
			used[port.Port] = struct{}{}
		}
	}

	for candidate := PortRangeMin; candidate <= PortRangeMax; candidate++ {
		if _, taken := used[candidate]; !taken {
			return candidate, nil
		}
	}
	return 0, ErrPortRangeExhausted
}
