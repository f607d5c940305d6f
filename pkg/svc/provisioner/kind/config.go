package kindprovisioner

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/yaml"
)

// DefaultClusterName is the name kind assigns when the config names none.
const DefaultClusterName = "kind"

// LoadConfig reads and validates a kind cluster config file. The file is
// handed to kind by path afterwards; this early parse rejects unreadable or
// mistyped configs with a clearer error than kind's own.
func LoadConfig(path string) (*v1alpha4.Cluster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kind config: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrConfigEmpty, path)
	}

	var cluster v1alpha4.Cluster

	err = yaml.UnmarshalStrict(data, &cluster)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kind config %s: %w", path, err)
	}

	if cluster.Kind != "" && cluster.Kind != "Cluster" {
		return nil, fmt.Errorf("%w: got kind %q in %s", ErrConfigWrongKind, cluster.Kind, path)
	}

	return &cluster, nil
}

// ResolveClusterName returns the effective cluster name for a parsed config.
func ResolveClusterName(cluster *v1alpha4.Cluster) string {
	if cluster != nil {
		if name := strings.TrimSpace(cluster.Name); name != "" {
			return name
		}
	}

	return DefaultClusterName
}
