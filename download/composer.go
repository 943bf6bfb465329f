package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spacedl/spacedl/ffmpeg"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/space"
	"github.com/spf13/afero"
)

// Options control what a download writes and keeps.
type Options struct {
	Dir      string
	Template string

	KeepRecorded  bool
	WritePlaylist bool
	WriteMetadata bool
	SkipDownload  bool
	PrintURL      bool

	// Strict stops the sequence at the first failed job.
	Strict bool
}

// JobError reports a job that did not finish cleanly.
type JobError struct {
	Job  ffmpeg.Job
	Code int
	Err  error
}

func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ffmpeg %s job: %s", e.Job.Kind, e.Err)
	}
	return fmt.Sprintf("ffmpeg %s job exited with code %d", e.Job.Kind, e.Code)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// Result describes what a download did.
type Result struct {
	Name  string
	Paths Paths

	// MasterURL is set when only the location was requested.
	MasterURL string

	Jobs   []ffmpeg.Job
	Failed []*JobError

	// Output is the final file, empty when it was not produced.
	Output       string
	KeptRecorded bool
}

// Composer runs downloads against a filesystem and an ffmpeg runner.
type Composer struct {
	Fs      afero.Fs
	Runner  ffmpeg.Runner
	Options Options
}

// NewComposer returns a composer over the active filesystem.
func NewComposer(runner ffmpeg.Runner, options Options) *Composer {
	return &Composer{
		Fs:      filesystem.API(),
		Runner:  runner,
		Options: options,
	}
}

// Download resolves the space of r and produces its audio file. Jobs run one
// after another; ctx is checked between jobs and a running job is never
// interrupted. Unless Strict is set a failed job does not stop the ones
// after it, and the first failure is returned once the sequence is done.
func (c *Composer) Download(ctx context.Context, r *space.Resolver) (*Result, error) {
	logger := r.Session.Log

	meta, err := r.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	if c.Options.PrintURL {
		result.MasterURL, err = r.MasterURL(ctx)
		return result, err
	}

	result.Name, err = r.Filename(ctx, c.Options.Template)
	if err != nil {
		return nil, err
	}
	result.Paths = NewPaths(c.Options.Dir, result.Name)
	paths := result.Paths

	dyn, err := r.DynURL(ctx)
	if err != nil {
		return nil, err
	}

	if c.Options.WriteMetadata {
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := filesystem.WriteFileAtomic(c.Fs, paths.Metadata, data); err != nil {
			return nil, err
		}
	}

	playlist, err := r.Playlist(ctx)
	if err != nil {
		return nil, err
	}

	if err := filesystem.WriteFileAtomic(c.Fs, paths.Playlist, []byte(playlist)); err != nil {
		return nil, err
	}

	if c.Options.SkipDownload {
		return result, nil
	}

	if !c.Options.WritePlaylist {
		defer c.remove(logger, paths.Playlist)
	}

	result.Jobs, err = Plan(meta, paths, dyn)
	if err != nil {
		return nil, err
	}

	merging := lo.ContainsBy(result.Jobs, func(j ffmpeg.Job) bool { return j.Kind == ffmpeg.Merge })
	if merging {
		if err := filesystem.WriteFileAtomic(c.Fs, paths.Manifest, []byte(Manifest(paths))); err != nil {
			return nil, err
		}
	}

	for _, job := range result.Jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		logger.WithField("job", job.Kind).Infof("running %s", job)

		code, err := c.Runner.Run(ctx, job)
		if err == nil && code == 0 {
			if job.Output == paths.Final {
				result.Output = paths.Final
			}
			continue
		}

		failure := &JobError{Job: job, Code: code, Err: err}
		result.Failed = append(result.Failed, failure)
		logger.WithField("job", job.Kind).Error(failure)

		if c.Options.Strict {
			return result, failure
		}
	}

	if merging && result.Output != "" {
		c.remove(logger, paths.Manifest)
		c.remove(logger, paths.Live)

		if !c.Options.KeepRecorded {
			c.remove(logger, paths.Recorded)
		}
	}

	if merging {
		result.KeptRecorded, _ = afero.Exists(c.Fs, paths.Recorded)
	}

	if len(result.Failed) > 0 {
		return result, result.Failed[0]
	}

	return result, nil
}

func (c *Composer) remove(logger *logrus.Entry, path string) {
	err := c.Fs.Remove(path)
	if err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		logger.Warnf("remove %s: %s", path, err)
	}
}
