package dockerclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/crs4/seekimages/internal/logs"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/pkg/jsonmessage"
)

type ImageRegistry interface {
	PullImage(ctx context.Context, ref string) error
	PushImage(ctx context.Context, ref string) error
	TagImage(ctx context.Context, source string, target string) error
	RemoveImage(ctx context.Context, ref string) error
	ListImagesByLabel(ctx context.Context, label string) ([]image.Summary, error)
}

// PullImage pulls the given reference, streaming the daemon's progress
// messages into a tail box. The daemon's error status (missing tag,
// unreachable registry) surfaces through the message stream.
func (dc *dockerClient) PullImage(ctx context.Context, ref string) error {
	logs.Debugf("pulling image %s", ref)

	rc, err := dc.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("image pull %s: %w", ref, err)
	}
	defer rc.Close()

	tail := logs.NewTailBox("pull " + ref)
	defer tail.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(rc, tail, 0, false, nil); err != nil {
		return fmt.Errorf("image pull %s: %w", ref, err)
	}

	return nil
}

// PushImage pushes the given reference using the ambient daemon credentials.
func (dc *dockerClient) PushImage(ctx context.Context, ref string) error {
	logs.Debugf("pushing image %s", ref)

	rc, err := dc.client.ImagePush(ctx, ref, image.PushOptions{
		RegistryAuth: anonymousRegistryAuth(),
	})
	if err != nil {
		return fmt.Errorf("image push %s: %w", ref, err)
	}
	defer rc.Close()

	tail := logs.NewTailBox("push " + ref)
	defer tail.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(rc, tail, 0, false, nil); err != nil {
		return fmt.Errorf("image push %s: %w", ref, err)
	}

	return nil
}

func (dc *dockerClient) TagImage(ctx context.Context, source string, target string) error {
	if err := dc.client.ImageTag(ctx, source, target); err != nil {
		return fmt.Errorf("image tag %s -> %s: %w", source, target, err)
	}

	return nil
}

func (dc *dockerClient) RemoveImage(ctx context.Context, ref string) error {
	_, err := dc.client.ImageRemove(ctx, ref, image.RemoveOptions{
		Force:         true,
		PruneChildren: true,
	})
	if err != nil {
		return fmt.Errorf("image remove %s: %w", ref, err)
	}

	return nil
}

// ListImagesByLabel returns all local images carrying the given label
// (either "key" or "key=value" form).
func (dc *dockerClient) ListImagesByLabel(ctx context.Context, label string) ([]image.Summary, error) {
	args := filters.NewArgs()
	args.Add("label", label)

	images, err := dc.client.ImageList(ctx, image.ListOptions{
		Filters: args,
	})
	if err != nil {
		return nil, fmt.Errorf("image list: %w", err)
	}

	return images, nil
}

// The push endpoint requires the X-Registry-Auth header even for anonymous
// pushes; an empty auth config keeps the daemon's own credential store in
// charge.
func anonymousRegistryAuth() string {
	buf, err := json.Marshal(registry.AuthConfig{})
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(buf)
}
