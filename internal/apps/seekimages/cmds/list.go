package seekimages

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/crs4/seekimages/internal/state"
	"github.com/crs4/seekimages/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List fixture images and recorded runs",
		Long:    "List the locally available fixture images and the builds and captures recorded so far.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running list...")

			rt := runtime.FromContext(cmd.Context())

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			dockerClient, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			images, err := dockerClient.ListImagesByLabel(signalsCtx, buildspec.MarkerLabel)
			if err != nil {
				return err
			}

			if len(images) == 0 {
				fmt.Println("No fixture images found")
			} else {
				table := ui.NewTable(
					ui.Column{Header: "Tag"},
					ui.Column{Header: "Version"},
					ui.Column{Header: "Variant"},
					ui.Column{Header: "Created"},
				)

				for _, img := range images {
					table.AddRow(
						strings.Join(img.RepoTags, ", "),
						img.Labels[buildspec.VersionLabel],
						img.Labels[buildspec.VariantLabel],
						time.Unix(img.Created, 0).Format(time.DateTime),
					)
				}

				fmt.Println("")
				table.Render(os.Stdout)
			}

			ledger, err := state.DefaultRunLedger(signalsCtx)
			if err != nil {
				logs.Warnf("run ledger unavailable: %v", err)
				return nil
			}

			records, err := ledger.List(signalsCtx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No recorded runs")
				return nil
			}

			table := ui.NewTable(
				ui.Column{Header: "Kind"},
				ui.Column{Header: "Version"},
				ui.Column{Header: "Source"},
				ui.Column{Header: "Image"},
				ui.Column{Header: "Archive"},
				ui.Column{Header: "When"},
			)

			for _, rec := range records {
				table.AddRow(
					string(rec.Kind),
					rec.Version,
					rec.SourceVersion,
					rec.ImageTag,
					rec.ArchivePath,
					rec.CreatedAt.Local().Format(time.DateTime),
				)
			}

			fmt.Println("")
			table.Render(os.Stdout)
			fmt.Println("")

			return nil
		},
	}

	return cmd
}
