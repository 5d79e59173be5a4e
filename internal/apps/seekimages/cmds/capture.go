package seekimages

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/crs4/seekimages/internal/capture"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/crs4/seekimages/internal/state"
	"github.com/spf13/cobra"
)

type captureOptions struct {
	Output  string
	Service string
}

func newCaptureCmd() *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture [SEEK_VERSION]",
		Short: "Capture seed data from a running application instance",
		Long: `Copy the filestore and database out of the running application container
and pack them into a versioned seed data archive.

SEEK_VERSION only labels the archive; it defaults to 1.12.0. The running
container is located through its compose service label.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running capture...")

			rt := runtime.FromContext(cmd.Context())

			version := ""
			if len(args) == 1 {
				version = args[0]
			}

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			dockerClient, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			ledger, err := state.DefaultRunLedger(signalsCtx)
			if err != nil {
				logs.Warnf("run ledger unavailable, capture will not be recorded: %v", err)
			}

			_, err = capture.New(dockerClient, ledger).Run(signalsCtx, capture.Options{
				Version:   version,
				OutputDir: opts.Output,
				Service:   opts.Service,
			})

			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", "", "Directory for the archive (default: the backups folder)")
	flags.StringVar(&opts.Service, "service", "", "Compose service to capture from (default \"seek\")")

	return cmd
}
