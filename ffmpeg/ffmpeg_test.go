package ffmpeg

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestArgs(t *testing.T) {
	Convey("Given a recorded job", t, func() {
		job := New(Recorded, "space.m3u8", "space.m4a", "Hello")

		Convey("Args should place the protocol whitelist before the input", func() {
			So(job.Args(), ShouldResemble, []string{
				"-hide_banner", "-y", "-stats", "-v", "warning",
				"-protocol_whitelist", "file,https,tls,tcp",
				"-i", "space.m3u8",
				"-c", "copy",
				"-metadata", "title=Hello",
				"space.m4a",
			})
		})
	})

	Convey("Given a merge job", t, func() {
		job := New(Merge, "space-concat.txt", "space.m4a", "Hello")

		Convey("Args should read a concat manifest", func() {
			args := job.Args()
			So(args[5:9], ShouldResemble, []string{"-f", "concat", "-safe", "0"})
			So(args[len(args)-1], ShouldEqual, "space.m4a")
		})
	})

	Convey("A live job should carry no extra input options", t, func() {
		job := New(Live, "https://host/dynamic_playlist.m3u8", "live.m4a", "Hello")
		So(job.Extra, ShouldBeEmpty)
		So(job.Args()[5:7], ShouldResemble, []string{"-i", "https://host/dynamic_playlist.m3u8"})
	})
}

func TestExec(t *testing.T) {
	Convey("Run should not start a job on a canceled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		code, err := Exec{Path: "/nonexistent/ffmpeg"}.Run(ctx, New(Live, "in", "out", "t"))
		So(err, ShouldEqual, context.Canceled)
		So(code, ShouldEqual, -1)
	})

	Convey("Run should fail for a missing binary", t, func() {
		_, err := Exec{Path: "/nonexistent/ffmpeg"}.Run(context.Background(), New(Live, "in", "out", "t"))
		So(err, ShouldNotBeNil)
	})

	Convey("Check should fail for a missing binary", t, func() {
		_, err := Check("/nonexistent/ffmpeg")
		So(err, ShouldNotBeNil)
	})
}
