// Package builder runs a build plan end to end, from the upstream pull to
// the optional push of the finished fixture image.
package builder

import (
	"context"
	"fmt"
	"path/filepath"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/pipeline"
	"github.com/crs4/seekimages/internal/seedarchive"
	"github.com/crs4/seekimages/internal/state"
	"github.com/crs4/seekimages/internal/utils"
)

type Options struct {
	Plan     *buildspec.Plan
	Push     bool
	SaveData bool
}

type Builder struct {
	docker dockerclient.DockerClient
	ledger *state.RunLedger
}

// New returns a Builder. ledger may be nil; runs are then not recorded.
func New(docker dockerclient.DockerClient, ledger *state.RunLedger) *Builder {
	return &Builder{
		docker: docker,
		ledger: ledger,
	}
}

// Run executes the build plan as an ordered pipeline. Every step is fatal:
// a failed push or export leaves the run failed even though the image was
// built.
func (b *Builder) Run(ctx context.Context, opts Options) error {
	plan := opts.Plan
	if plan == nil {
		return fmt.Errorf("build: plan is required")
	}

	archivePath := ""

	p := pipeline.New("build "+plan.TargetVersion,
		pipeline.Step{
			Name: "pull " + plan.UpstreamRef(),
			Run: func(ctx context.Context) error {
				return b.docker.PullImage(ctx, plan.UpstreamRef())
			},
		},
	)

	if plan.Variant() == buildspec.VariantUpgradeSnapshot {
		p.Append(pipeline.Step{
			Name: "check snapshot " + plan.SnapshotRef(),
			Run: func(ctx context.Context) error {
				if !b.docker.ImageExists(ctx, plan.SnapshotRef()) {
					return fmt.Errorf(
						"snapshot image %s not found: build version %s first or seed from an archive",
						plan.SnapshotRef(), plan.SourceVersion,
					)
				}
				return nil
			},
		})
	}

	p.Append(pipeline.Step{
		Name: "build " + plan.ImageTag(),
		Run: func(ctx context.Context) error {
			buildCtx, err := plan.ContextTar()
			if err != nil {
				return err
			}
			_, err = b.docker.BuildImage(ctx, buildCtx, plan.ImageTag(), plan.BuildArgs())
			return err
		},
	})

	if opts.SaveData {
		p.Append(pipeline.Step{
			Name: "export seed data",
			Run: func(ctx context.Context) error {
				path, err := b.exportSeedData(ctx, plan)
				if err != nil {
					return err
				}
				archivePath = path
				return nil
			},
		})
	}

	if opts.Push {
		p.Append(pipeline.Step{
			Name: "push " + plan.ImageTag(),
			Run: func(ctx context.Context) error {
				return b.docker.PushImage(ctx, plan.ImageTag())
			},
		})
	}

	if err := p.Execute(ctx); err != nil {
		return fmt.Errorf("build %s: %w", plan.TargetVersion, err)
	}

	if b.ledger != nil {
		if err := b.ledger.RecordBuild(ctx, plan.TargetVersion, plan.SourceVersion, plan.ImageTag(), archivePath); err != nil {
			logs.Warnf("could not record build in the run ledger: %v", err)
		}
	}

	logs.Infof("built %s (%s)", plan.ImageTag(), plan.Variant())
	if archivePath != "" {
		logs.Infof("seed data exported to %s", archivePath)
	}

	return nil
}

// exportSeedData copies the filestore and database out of a disposable
// container created from the freshly built image and packs them into
// data/<version>.tar.gz. The container is never started.
func (b *Builder) exportSeedData(ctx context.Context, plan *buildspec.Plan) (string, error) {
	suffix, err := utils.RandomHex(3)
	if err != nil {
		return "", fmt.Errorf("export seed data: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s", appconfig.ImageRepository, plan.TargetVersion, suffix)

	id, err := b.docker.CreateContainer(ctx, plan.ImageTag(), name, map[string]string{
		buildspec.MarkerLabel:  "1",
		buildspec.VersionLabel: plan.TargetVersion,
	})
	if err != nil {
		return "", fmt.Errorf("export seed data: %w", err)
	}
	defer func() {
		if err := b.docker.RemoveContainer(context.Background(), id); err != nil {
			logs.Warnf("could not remove export container %s: %v", name, err)
		}
	}()

	filestore, err := b.docker.CopyFromContainer(ctx, id, appconfig.ImageFilestorePath)
	if err != nil {
		return "", fmt.Errorf("export seed data: %w", err)
	}
	defer filestore.Close()

	database, err := b.docker.CopyFromContainer(ctx, id, appconfig.ImageDatabasePath)
	if err != nil {
		return "", fmt.Errorf("export seed data: %w", err)
	}
	defer database.Close()

	outPath := filepath.Join(appconfig.DataOutputPath(), plan.TargetVersion+".tar.gz")
	if err := seedarchive.PackFromStreamsToFile(outPath, filestore, database); err != nil {
		return "", fmt.Errorf("export seed data: %w", err)
	}

	return outPath, nil
}
