package download

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/ffmpeg"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/twitter/twittertest"
	"github.com/spf13/afero"
)

// fakeRunner records jobs and creates their outputs.
type fakeRunner struct {
	fs    afero.Fs
	jobs  []ffmpeg.Job
	codes map[ffmpeg.Kind]int
	after func()
}

func (f *fakeRunner) Run(_ context.Context, job ffmpeg.Job) (int, error) {
	f.jobs = append(f.jobs, job)
	if f.after != nil {
		defer f.after()
	}

	if code := f.codes[job.Kind]; code != 0 {
		return code, nil
	}
	return 0, afero.WriteFile(f.fs, job.Output, []byte(job.Kind), 0644)
}

func (f *fakeRunner) kinds() []ffmpeg.Kind {
	kinds := make([]ffmpeg.Kind, len(f.jobs))
	for i, j := range f.jobs {
		kinds[i] = j.Kind
	}
	return kinds
}

const dir = "/downloads"

func setup(state string, replay bool) (*space.Resolver, *twittertest.Fake) {
	meta := &twitter.Metadata{
		RestID:          "1ZkKzXXbwqNKv",
		State:           state,
		Title:           "Hello",
		MediaKey:        "28_1730000000000000000",
		ReplayAvailable: replay,
	}

	api := &twittertest.Fake{Token: "1234567890123456789"}
	api.Broadcast(meta, "host")

	sess := session.New(meta.RestID, nil)
	return space.New(sess, api, space.Options{Sleep: func(context.Context, time.Duration) error { return nil }}), api
}

func exists(fs afero.Fs, path string) bool {
	ok, _ := afero.Exists(fs, path)
	return ok
}

func TestPlan(t *testing.T) {
	Convey("Given the paths of a space", t, func() {
		paths := NewPaths(dir, "space")

		Convey("A running space should be captured, transcoded and merged", func() {
			jobs, err := Plan(&twitter.Metadata{State: constant.StateRunning}, paths, "https://host/dyn.m3u8")
			So(err, ShouldBeNil)
			So(len(jobs), ShouldEqual, 3)
			So(jobs[0].Input, ShouldEqual, "https://host/dyn.m3u8")
			So(jobs[0].Output, ShouldEqual, paths.Live)
			So(jobs[1].Input, ShouldEqual, paths.Playlist)
			So(jobs[1].Output, ShouldEqual, paths.Recorded)
			So(jobs[2].Input, ShouldEqual, paths.Manifest)
			So(jobs[2].Output, ShouldEqual, paths.Final)
		})

		Convey("An ended space should be transcoded to the final file", func() {
			jobs, err := Plan(&twitter.Metadata{State: constant.StateEnded, ReplayAvailable: true}, paths, "")
			So(err, ShouldBeNil)
			So(len(jobs), ShouldEqual, 1)
			So(jobs[0].Kind, ShouldEqual, ffmpeg.Recorded)
			So(jobs[0].Output, ShouldEqual, paths.Final)
		})

		Convey("An ended space without replay should not be planned", func() {
			_, err := Plan(&twitter.Metadata{State: constant.StateEnded}, paths, "")
			So(errors.Is(err, space.ErrNoReplay), ShouldBeTrue)
			So(space.Classify(err), ShouldEqual, space.FailureTerminal)
		})

		Convey("Every state other than ended should be planned as live", func() {
			for _, meta := range []*twitter.Metadata{
				{State: "TimedOut"},
				{State: "NotStarted"},
				{State: "TimedOut", ReplayAvailable: true},
				{State: "NotStarted", ReplayAvailable: true},
			} {
				jobs, err := Plan(meta, paths, "https://host/dyn.m3u8")
				So(err, ShouldBeNil)
				So(len(jobs), ShouldEqual, 3)
				So(jobs[0].Kind, ShouldEqual, ffmpeg.Live)
				So(jobs[2].Kind, ShouldEqual, ffmpeg.Merge)
			}
		})
	})

	Convey("Manifest should list recorded then live", t, func() {
		paths := NewPaths("/d", "it's")
		So(Manifest(paths), ShouldEqual, "file '/d/it'\\''s_recorded.m4a'\nfile '/d/it'\\''s_live.m4a'\n")
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a composer on an in-memory filesystem", t, func() {
		fs := afero.NewMemMapFs()
		runner := &fakeRunner{fs: fs, codes: map[ffmpeg.Kind]int{}}
		composer := &Composer{
			Fs:     fs,
			Runner: runner,
			Options: Options{
				Dir:          dir,
				Template:     "%{title}",
				KeepRecorded: true,
			},
		}
		paths := NewPaths(dir, "Hello")

		Convey("A running space should run live, recorded and merge in order", func() {
			r, _ := setup(constant.StateRunning, false)

			result, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(runner.kinds(), ShouldResemble, []ffmpeg.Kind{ffmpeg.Live, ffmpeg.Recorded, ffmpeg.Merge})
			So(result.Output, ShouldEqual, paths.Final)

			Convey("And clean up after the merge", func() {
				So(exists(fs, paths.Final), ShouldBeTrue)
				So(exists(fs, paths.Manifest), ShouldBeFalse)
				So(exists(fs, paths.Live), ShouldBeFalse)
				So(exists(fs, paths.Playlist), ShouldBeFalse)
				So(exists(fs, paths.Recorded), ShouldBeTrue)
				So(result.KeptRecorded, ShouldBeTrue)
			})
		})

		Convey("The recorded part should go when not kept", func() {
			composer.Options.KeepRecorded = false
			r, _ := setup(constant.StateRunning, false)

			result, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(exists(fs, paths.Recorded), ShouldBeFalse)
			So(result.KeptRecorded, ShouldBeFalse)
		})

		Convey("An ended space should run a single job", func() {
			r, _ := setup(constant.StateEnded, true)

			result, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(runner.kinds(), ShouldResemble, []ffmpeg.Kind{ffmpeg.Recorded})
			So(runner.jobs[0].Input, ShouldEqual, paths.Playlist)
			So(result.Output, ShouldEqual, paths.Final)
		})

		Convey("The manifest should be written before merging", func() {
			var manifest string
			runner.after = func() {
				if len(runner.jobs) == 2 {
					b, _ := afero.ReadFile(fs, paths.Manifest)
					manifest = string(b)
				}
			}
			r, _ := setup(constant.StateRunning, false)

			_, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(manifest, ShouldEqual, Manifest(paths))
		})

		Convey("A failed job should not stop the next one", func() {
			runner.codes[ffmpeg.Live] = 1
			r, _ := setup(constant.StateRunning, false)

			result, err := composer.Download(context.Background(), r)
			var jobErr *JobError
			So(errors.As(err, &jobErr), ShouldBeTrue)
			So(jobErr.Job.Kind, ShouldEqual, ffmpeg.Live)
			So(jobErr.Code, ShouldEqual, 1)
			So(len(runner.jobs), ShouldEqual, 3)
			So(len(result.Failed), ShouldEqual, 1)
		})

		Convey("Strict mode should stop at the first failure", func() {
			composer.Options.Strict = true
			runner.codes[ffmpeg.Live] = 1
			r, _ := setup(constant.StateRunning, false)

			_, err := composer.Download(context.Background(), r)
			So(err, ShouldNotBeNil)
			So(len(runner.jobs), ShouldEqual, 1)
		})

		Convey("A canceled context should stop between jobs", func() {
			ctx, cancel := context.WithCancel(context.Background())
			runner.after = cancel
			r, _ := setup(constant.StateRunning, false)

			_, err := composer.Download(ctx, r)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(len(runner.jobs), ShouldEqual, 1)
		})

		Convey("Skip download should only write the playlist", func() {
			composer.Options.SkipDownload = true
			composer.Options.WriteMetadata = true
			r, _ := setup(constant.StateEnded, true)

			_, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(runner.jobs, ShouldBeEmpty)
			So(exists(fs, paths.Playlist), ShouldBeTrue)
			So(exists(fs, paths.Metadata), ShouldBeTrue)

			body, _ := afero.ReadFile(fs, paths.Playlist)
			So(string(body), ShouldContainSubstring, "https://host/")
		})

		Convey("Write playlist should keep the playlist", func() {
			composer.Options.WritePlaylist = true
			r, _ := setup(constant.StateEnded, true)

			_, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(exists(fs, paths.Playlist), ShouldBeTrue)
		})

		Convey("Print URL should only resolve the master playlist", func() {
			composer.Options.PrintURL = true
			r, api := setup(constant.StateRunning, false)

			result, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(result.MasterURL, ShouldEqual, "https://host/Transcoding/v1/hls/1ZkKzXXbwqNKv/master_playlist.m3u8")
			So(runner.jobs, ShouldBeEmpty)
			So(api.Calls(twittertest.CallFetch), ShouldEqual, 0)
		})

		Convey("An ended space without replay should fail before writing", func() {
			composer.Options.WriteMetadata = true
			r, _ := setup(constant.StateEnded, false)

			_, err := composer.Download(context.Background(), r)
			So(errors.Is(err, space.ErrNoReplay), ShouldBeTrue)
			So(exists(fs, filepath.Join(dir, "Hello.m3u8")), ShouldBeFalse)
			So(exists(fs, paths.Metadata), ShouldBeFalse)
		})

		Convey("A timed out space should be downloaded as live", func() {
			r, _ := setup("TimedOut", false)

			result, err := composer.Download(context.Background(), r)
			So(err, ShouldBeNil)
			So(runner.kinds(), ShouldResemble, []ffmpeg.Kind{ffmpeg.Live, ffmpeg.Recorded, ffmpeg.Merge})
			So(result.Output, ShouldEqual, paths.Final)
		})
	})
}
