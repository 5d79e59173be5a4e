package dockerclient

import (
	"context"
	"fmt"
	"io"

	"github.com/crs4/seekimages/internal/logs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
)

// Label set by docker compose on every container of a stack's service.
const composeServiceLabel = "com.docker.compose.service"

type ContainerOps interface {
	CreateContainer(ctx context.Context, imageRef string, name string, labels map[string]string) (string, error)
	RemoveContainer(ctx context.Context, id string) error
	CopyFromContainer(ctx context.Context, id string, path string) (io.ReadCloser, error)
	FindComposeService(ctx context.Context, service string) (string, error)
	ListContainersByLabel(ctx context.Context, label string) ([]container.Summary, error)
}

// CreateContainer creates (without starting) a container from imageRef. The
// returned ID must be released with RemoveContainer.
func (dc *dockerClient) CreateContainer(ctx context.Context, imageRef string, name string, labels map[string]string) (string, error) {
	cfg := &container.Config{
		Image:  imageRef,
		Labels: labels,
	}

	created, err := dc.client.ContainerCreate(ctx, cfg, nil, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("container create %s: %w", name, err)
	}

	logs.Debugf("created container %s (%s)", name, created.ID)

	return created.ID, nil
}

func (dc *dockerClient) RemoveContainer(ctx context.Context, id string) error {
	err := dc.client.ContainerRemove(ctx, id, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
	if err != nil {
		return fmt.Errorf("container remove %s: %w", id, err)
	}

	return nil
}

// CopyFromContainer streams a tar archive of the given path inside the
// container. The caller closes the stream.
func (dc *dockerClient) CopyFromContainer(ctx context.Context, id string, path string) (io.ReadCloser, error) {
	rc, _, err := dc.client.CopyFromContainer(ctx, id, path)
	if err != nil {
		return nil, fmt.Errorf("copy %s from container %s: %w", path, id, err)
	}

	return rc, nil
}

// FindComposeService returns the ID of the single running container of the
// given compose service. Zero or multiple matches are an error so data is
// never captured from an ambiguous source.
func (dc *dockerClient) FindComposeService(ctx context.Context, service string) (string, error) {
	args := filters.NewArgs()
	args.Add("label", composeServiceLabel+"="+service)
	args.Add("status", "running")

	containers, err := dc.client.ContainerList(ctx, container.ListOptions{
		Filters: args,
	})
	if err != nil {
		return "", fmt.Errorf("container list: %w", err)
	}

	switch len(containers) {
	case 0:
		return "", fmt.Errorf("no running container for compose service %q", service)
	case 1:
		return containers[0].ID, nil
	default:
		return "", fmt.Errorf("%d running containers for compose service %q, expected one", len(containers), service)
	}
}

func (dc *dockerClient) ListContainersByLabel(ctx context.Context, label string) ([]container.Summary, error) {
	args := filters.NewArgs()
	args.Add("label", label)

	containers, err := dc.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: args,
	})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	return containers, nil
}
