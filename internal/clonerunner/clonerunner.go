// Package clonerunner invokes the external clone-detection subprocess and
// parses its JSON output into clone records.
package clonerunner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/mrshoenel/git-density/pkg/models"
)

// Block is one matched region of a clone record: a path (relative to the
// working directory handed to the subprocess) plus an inclusive line
// range.
type Block struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Record is one clone finding emitted by the subprocess, before the
// exactly-2-block filter is applied.
type Record struct {
	Blocks []Block `json:"blocks"`
}

// Config names the external binary and fixed arguments used to invoke it.
// The working directory is supplied per-call.
type Config struct {
	Binary string
	Args   []string
}

// Run invokes the configured clone-detection binary against workDir and
// parses its stdout as a JSON array of Records. A nonzero exit or
// unparsable output is reported as CloneDetectionFailed.
func Run(ctx context.Context, cfg Config, workDir string) ([]Record, error) {
	cmd := exec.CommandContext(ctx, cfg.Binary, cfg.Args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, models.NewError(models.CloneDetectionFailed, "Run",
			fmt.Errorf("%w: %s", err, stderr.String()))
	}

	var records []Record
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		return nil, models.NewError(models.CloneDetectionFailed, "Run", err)
	}
	return records, nil
}
