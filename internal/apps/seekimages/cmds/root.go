package seekimages

import (
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/spf13/cobra"
)

var verbosity int

func Execute(rt *runtime.Runtime) error {
	rootCmd := &cobra.Command{
		Use:   "seekimages",
		Short: "Versioned SEEK test fixture images and seed data",
		Long: `seekimages builds the versioned SEEK images and seed data archives the
LifeMonitor test suite runs against.

'build' produces a fixture image for an application version, seeding data from
the previous version's snapshot or a captured archive. 'capture' packs the
filestore and database of a running instance into a reusable seed archive.`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logs.SetDebugVerbosity(verbosity)
			return nil
		},
		// we will handle that
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity level")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newCaptureCmd())
	rootCmd.AddCommand(newRelayCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd.ExecuteContext(rt.Ctx())
}
