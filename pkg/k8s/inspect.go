package k8s

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// clusterServiceLabel marks the core services kubectl cluster-info reports.
const clusterServiceLabel = "kubernetes.io/cluster-service=true"

// NodeInfo is one row of the node listing.
type NodeInfo struct {
	Name    string
	Status  string
	Roles   string
	Version string
}

// PodInfo is one row of the all-namespaces pod listing.
type PodInfo struct {
	Namespace string
	Name      string
	Phase     string
	Ready     string
}

// ServerVersion returns the API server's reported version string.
func ServerVersion(clientset kubernetes.Interface) (string, error) {
	info, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return "", fmt.Errorf("failed to query server version: %w", err)
	}

	return info.GitVersion, nil
}

// ClusterInfo returns the human-readable lines a cluster-info query prints:
// the control plane endpoint plus any labelled core services in kube-system.
func ClusterInfo(
	ctx context.Context,
	clientset kubernetes.Interface,
	controlPlaneURL string,
) ([]string, error) {
	lines := []string{
		fmt.Sprintf("Kubernetes control plane is running at %s", controlPlaneURL),
	}

	services, err := clientset.CoreV1().Services(metav1.NamespaceSystem).List(
		ctx,
		metav1.ListOptions{LabelSelector: clusterServiceLabel},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster services: %w", err)
	}

	for _, svc := range services.Items {
		lines = append(lines, fmt.Sprintf(
			"%s is running at %s/api/v1/namespaces/%s/services/%s/proxy",
			svc.Name, controlPlaneURL, svc.Namespace, svc.Name,
		))
	}

	return lines, nil
}

// ListNodes returns one row per node, sorted by name.
func ListNodes(ctx context.Context, clientset kubernetes.Interface) ([]NodeInfo, error) {
	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	infos := make([]NodeInfo, 0, len(nodes.Items))

	for i := range nodes.Items {
		node := &nodes.Items[i]
		infos = append(infos, NodeInfo{
			Name:    node.Name,
			Status:  nodeStatus(node),
			Roles:   nodeRoles(node),
			Version: node.Status.NodeInfo.KubeletVersion,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

// ListAllPods returns one row per pod across all namespaces, sorted by
// namespace then name.
func ListAllPods(ctx context.Context, clientset kubernetes.Interface) ([]PodInfo, error) {
	pods, err := clientset.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	infos := make([]PodInfo, 0, len(pods.Items))

	for i := range pods.Items {
		pod := &pods.Items[i]
		infos = append(infos, PodInfo{
			Namespace: pod.Namespace,
			Name:      pod.Name,
			Phase:     string(pod.Status.Phase),
			Ready:     podReadyCount(pod),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Namespace != infos[j].Namespace {
			return infos[i].Namespace < infos[j].Namespace
		}

		return infos[i].Name < infos[j].Name
	})

	return infos, nil
}

// nodeStatus returns "Ready" or "NotReady" from the node's conditions.
func nodeStatus(node *corev1.Node) string {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			if cond.Status == corev1.ConditionTrue {
				return "Ready"
			}

			return "NotReady"
		}
	}

	return "Unknown"
}

// nodeRoles extracts role names from node-role.kubernetes.io/* labels.
func nodeRoles(node *corev1.Node) string {
	const rolePrefix = "node-role.kubernetes.io/"

	var roles []string

	for label := range node.Labels {
		if role, ok := strings.CutPrefix(label, rolePrefix); ok && role != "" {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return "<none>"
	}

	sort.Strings(roles)

	return strings.Join(roles, ",")
}

// podReadyCount returns the "ready/total" container count for a pod.
func podReadyCount(pod *corev1.Pod) string {
	ready := 0

	for _, status := range pod.Status.ContainerStatuses {
		if status.Ready {
			ready++
		}
	}

	return fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers))
}
