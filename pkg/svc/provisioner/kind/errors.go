package kindprovisioner

import "errors"

// ErrConfigEmpty is returned when the cluster config file exists but holds
// no document.
var ErrConfigEmpty = errors.New("kind config file is empty")

// ErrConfigWrongKind is returned when the config file does not declare a
// kind Cluster document.
var ErrConfigWrongKind = errors.New("kind config file does not declare a Cluster")
