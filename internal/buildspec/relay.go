package buildspec

import (
	"fmt"

	"github.com/crs4/seekimages/internal/utils"
)

// RelayPlan describes the webhook-relay sidecar image: a thin wrapper around
// the smee client, parameterized entirely through runtime environment.
type RelayPlan struct {
	// Channel is the smee.io channel identifier (SMEE_CHANNEL).
	Channel string
	// Target is the forwarding host:port (SMEE_TARGET).
	Target string
	// HandlerPath is the forwarding path on the target (EVENT_HANDLER_URL).
	HandlerPath string
}

func (rp *RelayPlan) env() map[string]string {
	return map[string]string{
		"SMEE_CHANNEL":      rp.Channel,
		"SMEE_TARGET":       rp.Target,
		"EVENT_HANDLER_URL": rp.HandlerPath,
	}
}

// GenerateDockerfile renders the sidecar build definition. The env values
// are bake-time defaults only; runtime -e flags override them.
func (rp *RelayPlan) GenerateDockerfile() Dockerfile {
	lines := Dockerfile{
		"FROM node:lts-alpine",
		"RUN " + jsonExec("npm", "install", "--global", "smee-client"),
	}

	env := rp.env()
	for _, k := range utils.SortedKeys(env) {
		lines = append(lines, fmt.Sprintf("ENV %s=%q", k, env[k]))
	}

	lines = append(lines,
		`CMD ["/bin/sh", "-c", "smee --url https://smee.io/${SMEE_CHANNEL} --target http://${SMEE_TARGET}/${EVENT_HANDLER_URL}"]`,
		fmt.Sprintf("LABEL %s=true", MarkerLabel),
	)

	return lines
}
