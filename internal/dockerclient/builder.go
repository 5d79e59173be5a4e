package dockerclient

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/build"
	sdkimage "github.com/docker/go-sdk/image"
)

type ImageBuilder interface {
	BuildImage(ctx context.Context, buildContext io.Reader, tag string, buildArgs map[string]*string) (string, error)
}

// BuildImage builds an image from a tar build context holding a Dockerfile
// at its root and returns the tag it was built under.
func (dc *dockerClient) BuildImage(ctx context.Context, buildContext io.Reader, tag string, buildArgs map[string]*string) (string, error) {
	buildTag, err := sdkimage.Build(
		ctx,
		buildContext,
		tag,
		sdkimage.WithBuildClient(dc.client),
		sdkimage.WithBuildOptions(build.ImageBuildOptions{
			Dockerfile: "Dockerfile",
			Remove:     true, // remove intermediate containers
			BuildArgs:  buildArgs,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("image build: %w", err)
	}

	return buildTag, nil
}
