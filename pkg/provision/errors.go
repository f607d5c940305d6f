package provision

import "errors"

// ErrTooling is the failure class for the toolchain install step and for
// cluster verification checks.
var ErrTooling = errors.New("tooling failure")

// ErrClusterOperation is the failure class for cluster reset, creation, and
// readiness timeouts.
var ErrClusterOperation = errors.New("cluster operation failure")
