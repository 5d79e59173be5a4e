package seekimages

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/crs4/seekimages/internal/builder"
	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/crs4/seekimages/internal/state"
	"github.com/spf13/cobra"
)

type buildOptions struct {
	Push        bool
	SaveData    bool
	Namespace   string
	DataArchive string
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build TARGET_VERSION [SOURCE_VERSION]",
		Short: "Build a test fixture image for an application version",
		Long: `Build the fixture image for TARGET_VERSION.

The first supported version is built from the official image alone. Every
later version seeds its data from the SOURCE_VERSION snapshot image (the
previous version when omitted), or from a captured archive given with
--data-archive. The database migration runs once during the build, so the
resulting image starts with data already at the target schema.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running build...")

			rt := runtime.FromContext(cmd.Context())

			sourceVersion := ""
			if len(args) == 2 {
				sourceVersion = args[1]
			}

			plan, err := buildspec.NewPlan(args[0], sourceVersion, opts.Namespace, opts.DataArchive)
			if err != nil {
				return err
			}

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			dockerClient, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			ledger, err := state.DefaultRunLedger(signalsCtx)
			if err != nil {
				logs.Warnf("run ledger unavailable, build will not be recorded: %v", err)
			}

			return builder.New(dockerClient, ledger).Run(signalsCtx, builder.Options{
				Plan:     plan,
				Push:     opts.Push,
				SaveData: opts.SaveData,
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Push, "push", false, "Push the built image to the registry")
	flags.BoolVar(&opts.SaveData, "save-data", false, "Export the image's seed data to data/<version>.tar.gz")
	flags.StringVar(&opts.Namespace, "namespace", "", "Registry namespace for the image tag (default \"crs4\")")
	flags.StringVar(&opts.DataArchive, "data-archive", "", "Seed from a captured archive instead of a snapshot image")

	return cmd
}
