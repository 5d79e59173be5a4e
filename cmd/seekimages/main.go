package main

import (
	"os"
	"strings"

	seekimages "github.com/crs4/seekimages/internal/apps/seekimages/cmds"
	"github.com/crs4/seekimages/internal/logs"
	"github.com/crs4/seekimages/internal/runtime"
)

func main() {
	logs.SetComponent(detectComponent("host"))

	var execErr error

	rt := runtime.NewHostRuntime()
	defer rt.Finalize("seekimages", "Type 'seekimages help' to get help.", &execErr)

	execErr = seekimages.Execute(rt)
}

func detectComponent(base string) string {
	if len(os.Args) > 1 && len(os.Args[1]) > 0 && os.Args[1][0] != '-' {
		return base + ":" + strings.Join(os.Args[1:], " ")
	}
	return base
}
