package seekimages

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/spf13/cobra"
)

type cleanOptions struct {
	Containers bool
	Images     bool
	Archives   bool
	All        bool
	Yes        bool
}

func newCleanCmd() *cobra.Command {
	opts := &cleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove fixture images, leftover containers and captured archives",
		Long: `Remove the containers and images carrying the fixture marker label, and
the captured seed archives in the backups folder.

By default '--all' is implied. Leftover containers only appear when an
interrupted run could not dispose of its own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running clean...")

			rt := runtime.FromContext(cmd.Context())

			if !opts.Containers && !opts.Images && !opts.Archives && !opts.All {
				opts.All = true
			}
			if opts.All {
				opts.Containers = true
				opts.Images = true
				opts.Archives = true
			}

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			dockerClient, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			if !opts.Yes {
				ok, err := logs.PromptConfirm("Remove all fixture containers, images and captured archives?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted")
					return nil
				}
			}

			removed := 0

			if opts.Containers {
				containers, err := dockerClient.ListContainersByLabel(signalsCtx, buildspec.MarkerLabel)
				if err != nil {
					return err
				}
				for _, cont := range containers {
					if err := dockerClient.RemoveContainer(signalsCtx, cont.ID); err != nil {
						return err
					}
					logs.Infof("removed container %s", cont.ID)
					removed++
				}
			}

			if opts.Images {
				images, err := dockerClient.ListImagesByLabel(signalsCtx, buildspec.MarkerLabel)
				if err != nil {
					return err
				}
				for _, img := range images {
					if err := dockerClient.RemoveImage(signalsCtx, img.ID); err != nil {
						return err
					}
					logs.Infof("removed image %s", img.ID)
					removed++
				}
			}

			if opts.Archives {
				archives, err := filepath.Glob(filepath.Join(appconfig.BackupsPath(), "*.tar.gz"))
				if err != nil {
					return err
				}
				for _, archive := range archives {
					if err := os.Remove(archive); err != nil {
						return err
					}
					logs.Infof("removed archive %s", archive)
					removed++
				}
			}

			if removed == 0 {
				fmt.Println("Nothing to clean")
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.All, "all", false, "Clean containers and images (default behavior)")
	flags.BoolVar(&opts.Containers, "containers", false, "Clean containers only")
	flags.BoolVar(&opts.Images, "images", false, "Clean images only")
	flags.BoolVar(&opts.Archives, "archives", false, "Clean captured seed archives only")
	flags.BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
