package ffmpeg

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner runs a job to completion and returns its exit code.
type Runner interface {
	Run(ctx context.Context, job Job) (int, error)
}

// Exec runs jobs as ffmpeg subprocesses.
type Exec struct {
	// Path of the ffmpeg binary.
	Path string
	// Output receives the process stdout and stderr. Nil discards it.
	Output io.Writer
}

// Run starts ffmpeg and waits for it. A started process is never killed,
// ctx only prevents a job from starting. A non-zero exit is reported
// through the code, not the error. Logging is left to the caller.
func (e Exec) Run(ctx context.Context, job Job) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	path := e.Path
	if path == "" {
		path = "ffmpeg"
	}

	cmd := exec.Command(path, job.Args()...)
	cmd.Stdout = e.Output
	cmd.Stderr = e.Output

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// Check returns the location of the ffmpeg binary at path, looked up in PATH when bare.
func Check(path string) (string, error) {
	if path == "" {
		path = "ffmpeg"
	}
	return exec.LookPath(path)
}
