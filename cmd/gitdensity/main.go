// Command gitdensity is the thin CLI front end over the analysis core: it
// parses flags, loads configuration, drives the span/pairing/orchestrator/
// hours/developer pipeline, and renders or serializes the result. No
// analysis logic lives here.
package main

import (
	"fmt"
	"os"

	"github.com/mrshoenel/git-density/pkg/models"
)

var (
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gitdensity: %s\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an ErrorKind to the process exit code it produces.
func exitCodeFor(err error) int {
	switch models.KindOf(err) {
	case models.ConfigInvalid:
		return -1
	case models.RepositoryUnavailable:
		return -2
	case models.BoundsInvalid, models.AmbiguousSha:
		return -3
	case models.PatchMalformed, models.CloneDetectionFailed, models.TempIoFailed, models.Cancelled:
		return -4
	default:
		return -2147483647 // INT_MIN+1
	}
}
