// Package capture copies the filestore and database out of a running
// application container and packs them into a versioned seed data archive.
package capture

import (
	"context"
	"fmt"
	"path/filepath"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/pipeline"
	"github.com/crs4/seekimages/internal/seedarchive"
	"github.com/crs4/seekimages/internal/state"
	"github.com/crs4/seekimages/internal/versions"
)

type Options struct {
	// Version labels the archive; it is not verified against the running
	// container. Empty means the default capture version.
	Version string

	// OutputDir is where the archive lands. Empty means the backups folder.
	OutputDir string

	// Service is the compose service to capture from. Empty means the
	// default application service.
	Service string
}

type Capturer struct {
	docker dockerclient.DockerClient
	ledger *state.RunLedger
}

// New returns a Capturer. ledger may be nil; runs are then not recorded.
func New(docker dockerclient.DockerClient, ledger *state.RunLedger) *Capturer {
	return &Capturer{
		docker: docker,
		ledger: ledger,
	}
}

// Run captures a seed archive and returns its path.
func (c *Capturer) Run(ctx context.Context, opts Options) (string, error) {
	version := opts.Version
	if version == "" {
		version = appconfig.DefaultCaptureVersion
	}
	if !versions.IsValid(version) {
		return "", fmt.Errorf("invalid version %q", version)
	}

	service := opts.Service
	if service == "" {
		service = appconfig.ComposeServiceName
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = appconfig.BackupsPath()
	}
	outPath := filepath.Join(outputDir, version+".tar.gz")

	containerID := ""

	p := pipeline.New("capture "+version,
		pipeline.Step{
			Name: "find service container " + service,
			Run: func(ctx context.Context) error {
				id, err := c.docker.FindComposeService(ctx, service)
				if err != nil {
					return err
				}
				containerID = id
				return nil
			},
		},
		pipeline.Step{
			Name: "copy filestore and database",
			Run: func(ctx context.Context) error {
				return c.writeArchive(ctx, containerID, outPath)
			},
		},
	)

	if err := p.Execute(ctx); err != nil {
		return "", fmt.Errorf("capture %s: %w", version, err)
	}

	if c.ledger != nil {
		if err := c.ledger.RecordCapture(ctx, version, outPath); err != nil {
			logs.Warnf("could not record capture in the run ledger: %v", err)
		}
	}

	logs.Infof("captured seed data to %s", outPath)

	return outPath, nil
}

func (c *Capturer) writeArchive(ctx context.Context, containerID, outPath string) error {
	filestore, err := c.docker.CopyFromContainer(ctx, containerID, appconfig.ImageFilestorePath)
	if err != nil {
		return err
	}
	defer filestore.Close()

	database, err := c.docker.CopyFromContainer(ctx, containerID, appconfig.ImageDatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	return seedarchive.PackFromStreamsToFile(outPath, filestore, database)
}
