package seekimages

import (
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/crs4/seekimages/internal/apps/seekimages/config"
	"github.com/crs4/seekimages/internal/buildspec"
	"github.com/crs4/seekimages/internal/dockerclient"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
	"github.com/spf13/cobra"
)

type relayOptions struct {
	Channel     string
	Target      string
	HandlerPath string
	Namespace   string
	Tag         string
	Push        bool
}

func newRelayCmd() *cobra.Command {
	opts := &relayOptions{}

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Build the webhook-relay sidecar image",
		Long: `Build the sidecar image that forwards smee.io webhook deliveries to a
local event handler. The channel, target and handler path are baked in as
environment defaults and can be overridden at container start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logs.Debugf("running relay...")

			rt := runtime.FromContext(cmd.Context())

			plan := &buildspec.RelayPlan{
				Channel:     opts.Channel,
				Target:      opts.Target,
				HandlerPath: opts.HandlerPath,
			}

			tag := opts.Tag
			if tag == "" {
				tag = appconfig.RelayImageRef(opts.Namespace)
			}

			signalsCtx, stopSignalsCtx := signal.NotifyContext(rt.Ctx(), os.Interrupt, syscall.SIGTERM)
			defer stopSignalsCtx()

			dockerClient, err := dockerclient.NewDockerClient()
			if err != nil {
				return err
			}

			buildCtx, err := plan.ContextTar()
			if err != nil {
				return err
			}

			if _, err := dockerClient.BuildImage(signalsCtx, buildCtx, tag, nil); err != nil {
				return err
			}
			logs.Infof("built %s", tag)

			if opts.Push {
				if err := dockerClient.PushImage(signalsCtx, tag); err != nil {
					return err
				}
				logs.Infof("pushed %s", tag)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Channel, "channel", "", "smee.io channel identifier (required)")
	flags.StringVar(&opts.Target, "target", "lm:8000", "Forwarding target as host:port")
	flags.StringVar(&opts.HandlerPath, "path", "integrations/github", "Event handler path on the target")
	flags.StringVar(&opts.Namespace, "namespace", "", "Registry namespace for the image tag (default \"crs4\")")
	flags.StringVar(&opts.Tag, "tag", "", "Full image tag, overriding the namespace default")
	flags.BoolVar(&opts.Push, "push", false, "Push the built image to the registry")

	_ = cmd.MarkFlagRequired("channel")

	return cmd
}
