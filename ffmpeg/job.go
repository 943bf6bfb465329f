// Package ffmpeg describes and runs the ffmpeg invocations of a download.
package ffmpeg

import "fmt"

// Kind of a job.
type Kind string

const (
	// Live captures the dynamic stream from now on.
	Live Kind = "live"
	// Recorded transcodes the rewritten playlist, i.e. everything recorded so far.
	Recorded Kind = "recorded"
	// Merge concatenates the recorded and live parts.
	Merge Kind = "merge"
)

// Job is one ffmpeg invocation.
type Job struct {
	Kind   Kind
	Input  string
	Output string
	Title  string
	// Extra input options, placed before -i.
	Extra []string
}

// Base options shared by every job.
var Base = []string{"-hide_banner", "-y", "-stats", "-v", "warning"}

// Input options per kind.
var (
	RecordedExtra = []string{"-protocol_whitelist", "file,https,tls,tcp"}
	MergeExtra    = []string{"-f", "concat", "-safe", "0"}
)

// New returns a job of kind with the input options that kind requires.
func New(kind Kind, input, output, title string) Job {
	job := Job{Kind: kind, Input: input, Output: output, Title: title}

	switch kind {
	case Recorded:
		job.Extra = RecordedExtra
	case Merge:
		job.Extra = MergeExtra
	}

	return job
}

// Args returns the ffmpeg argument vector of the job.
func (j Job) Args() []string {
	args := make([]string, 0, len(Base)+len(j.Extra)+7)
	args = append(args, Base...)
	args = append(args, j.Extra...)
	return append(args,
		"-i", j.Input,
		"-c", "copy",
		"-metadata", "title="+j.Title,
		j.Output,
	)
}

func (j Job) String() string {
	return fmt.Sprintf("%s %s -> %s", j.Kind, j.Input, j.Output)
}
