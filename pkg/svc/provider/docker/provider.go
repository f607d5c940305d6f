// Package docker wraps the Docker Engine API client for the preflight and
// verification queries the bootstrap workflow performs against the runtime.
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
)

// ErrClientNotSet is returned when the provider has no API client.
var ErrClientNotSet = errors.New("docker client not set")

// DefaultPingTimeout bounds the daemon reachability check.
const DefaultPingTimeout = 10 * time.Second

// ContainerInfo is one row of the running-container listing.
type ContainerInfo struct {
	Name   string
	Image  string
	Status string
}

// Provider performs read-only queries against the Docker daemon.
type Provider struct {
	client client.APIClient
}

// NewProvider creates a Provider using the given API client.
func NewProvider(cli client.APIClient) *Provider {
	return &Provider{client: cli}
}

// NewDefaultProvider creates a Provider with a client configured from the
// environment (DOCKER_HOST et al.) and API version negotiation enabled.
func NewDefaultProvider() (*Provider, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return NewProvider(cli), nil
}

// Ping verifies the Docker daemon is reachable.
func (p *Provider) Ping(ctx context.Context) error {
	if p.client == nil {
		return ErrClientNotSet
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	_, err := p.client.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("docker daemon not reachable: %w", err)
	}

	return nil
}

// ListContainers returns one row per running container, equivalent to the
// output of a plain container listing.
func (p *Provider) ListContainers(ctx context.Context) ([]ContainerInfo, error) {
	if p.client == nil {
		return nil, ErrClientNotSet
	}

	containers, err := p.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	infos := make([]ContainerInfo, 0, len(containers))
	for _, ctr := range containers {
		infos = append(infos, ContainerInfo{
			Name:   containerDisplayName(ctr),
			Image:  ctr.Image,
			Status: ctr.Status,
		})
	}

	return infos, nil
}

// containerDisplayName returns the primary container name without the
// leading slash the daemon prepends, falling back to the short ID.
func containerDisplayName(ctr container.Summary) string {
	if len(ctr.Names) > 0 {
		return strings.TrimPrefix(ctr.Names[0], "/")
	}

	const shortIDLen = 12
	if len(ctr.ID) > shortIDLen {
		return ctr.ID[:shortIDLen]
	}

	return ctr.ID
}
