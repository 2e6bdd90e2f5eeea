// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// executeVirtual interprets the parsed command in-process.
func (r *Runner) executeVirtual(req Request, prog *syntax.File, sink *lockedSink) Outcome {
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, chunkWriter(sink.Append), chunkWriter(sink.appendError)),
	}
	if req.dir != "" {
		opts = append(opts, interp.Dir(req.dir))
	}

	shell, err := interp.New(opts...)
	if err != nil {
		return launchFailure(fmt.Errorf("create interpreter: %w", err))
	}

	err = shell.Run(context.Background(), prog)
	if err == nil {
		return successOutcome()
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		return exitOutcome(ExitCode(status), nil)
	}
	return exitOutcome(1, err)
}
