// Package download composes the ffmpeg jobs that turn a resolved space into
// a single audio file and runs them in order.
package download

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/ffmpeg"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/twitter"
)

// Paths are the files a download touches, all under one directory.
type Paths struct {
	Playlist string
	Manifest string
	Metadata string
	Recorded string
	Live     string
	Final    string
}

// NewPaths derives the file set of name inside dir.
func NewPaths(dir, name string) Paths {
	at := func(suffix string) string {
		return filepath.Join(dir, name+suffix)
	}

	return Paths{
		Playlist: at(".m3u8"),
		Manifest: at("-concat.txt"),
		Metadata: at(".json"),
		Recorded: at("_recorded" + constant.M4A),
		Live:     at("_live" + constant.M4A),
		Final:    at(constant.M4A),
	}
}

// Plan returns the jobs for meta. An ended space is transcoded straight to
// the final file. Any other state counts as live: it is captured from dynURL
// while what was already broadcast is transcoded from the playlist, then both
// parts are merged.
func Plan(meta *twitter.Metadata, paths Paths, dynURL string) ([]ffmpeg.Job, error) {
	if meta.State != constant.StateEnded {
		return []ffmpeg.Job{
			ffmpeg.New(ffmpeg.Live, dynURL, paths.Live, meta.Title),
			ffmpeg.New(ffmpeg.Recorded, paths.Playlist, paths.Recorded, meta.Title),
			ffmpeg.New(ffmpeg.Merge, paths.Manifest, paths.Final, meta.Title),
		}, nil
	}

	if !meta.ReplayAvailable {
		return nil, fmt.Errorf("space %s: %w", meta.RestID, space.ErrNoReplay)
	}

	return []ffmpeg.Job{
		ffmpeg.New(ffmpeg.Recorded, paths.Playlist, paths.Final, meta.Title),
	}, nil
}

// Manifest renders the concat manifest joining the recorded part and the live part.
func Manifest(paths Paths) string {
	var b strings.Builder
	for _, p := range []string{paths.Recorded, paths.Live} {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}
