package k8s

import "errors"

// ErrKubeconfigPathEmpty is returned when an explicit kubeconfig path is
// required but empty.
var ErrKubeconfigPathEmpty = errors.New("kubeconfig path is empty")
