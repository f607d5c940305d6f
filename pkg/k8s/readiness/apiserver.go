package readiness

import (
	"context"
	"time"

	"k8s.io/client-go/kubernetes"
)

// WaitForAPIServerReady polls the API server with ServerVersion requests
// until it answers, converting a successful create into a reachable cluster.
// Errors during polling mean "not ready yet" and polling continues.
func WaitForAPIServerReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(_ context.Context) (bool, error) {
		// ServerVersion is a lightweight health check.
		_, err := clientset.Discovery().ServerVersion()
		if err != nil {
			return false, nil //nolint:nilerr // returning nil to continue polling
		}

		return true, nil
	})
}
