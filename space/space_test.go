package space

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/twitter/twittertest"
)

func noSleep(context.Context, time.Duration) error { return nil }

func running() *twitter.Metadata {
	return &twitter.Metadata{
		RestID:   "1ZkKzXXbwqNKv",
		State:    constant.StateRunning,
		Title:    "Hello",
		MediaKey: "28_1730000000000000000",
	}
}

func resolver(api twitter.API, hooks hook.Hooks, spaceID string) *Resolver {
	return New(session.New(spaceID, hooks), api, Options{Sleep: noSleep})
}

func TestGuestToken(t *testing.T) {
	Convey("Given a flaky guest token endpoint", t, func() {
		fail := errors.New("boom")
		api := &twittertest.Fake{Token: "1234567890123456789"}

		Convey("Success on attempt 3 should make exactly 3 calls", func() {
			api.GuestTokenErrs = []error{fail, fail}

			var slept int
			r := New(session.New("x", nil), api, Options{Sleep: func(context.Context, time.Duration) error {
				slept++
				return nil
			}})

			token, err := r.GuestToken(context.Background())
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "1234567890123456789")
			So(api.Calls(twittertest.CallGuestToken), ShouldEqual, 3)
			So(slept, ShouldEqual, 2)

			Convey("And a second call should be served from cache", func() {
				_, err := r.GuestToken(context.Background())
				So(err, ShouldBeNil)
				So(api.Calls(twittertest.CallGuestToken), ShouldEqual, 3)
			})
		})

		Convey("Exhausting the budget should fail with credentials error", func() {
			api.GuestTokenErrs = []error{fail, fail, fail, fail, fail, fail}

			_, err := resolver(api, nil, "x").GuestToken(context.Background())
			So(errors.Is(err, ErrCredentials), ShouldBeTrue)
			So(Classify(err), ShouldEqual, FailureCredentials)
			So(api.Calls(twittertest.CallGuestToken), ShouldEqual, DefaultAttempts)
		})

		Convey("A custom budget should be honored", func() {
			api.GuestTokenErrs = []error{fail, fail, fail}

			r := New(session.New("x", nil), api, Options{Attempts: 2, Sleep: noSleep})
			_, err := r.GuestToken(context.Background())
			So(errors.Is(err, ErrCredentials), ShouldBeTrue)
			So(api.Calls(twittertest.CallGuestToken), ShouldEqual, 2)
		})

		Convey("Cancellation during backoff should stop retrying", func() {
			api.GuestTokenErrs = []error{fail, fail}
			ctx, cancel := context.WithCancel(context.Background())

			r := New(session.New("x", nil), api, Options{Sleep: func(ctx context.Context, _ time.Duration) error {
				cancel()
				return ctx.Err()
			}})

			_, err := r.GuestToken(ctx)
			So(Classify(err), ShouldEqual, FailureCanceled)
			So(api.Calls(twittertest.CallGuestToken), ShouldEqual, 1)
		})
	})
}

type overrides struct {
	hook.Nop
	metadata func(*twitter.Metadata) hook.Decision[*twitter.Metadata]
	bearer   string
}

func (o overrides) Metadata(m *twitter.Metadata, s hook.Scope) hook.Decision[*twitter.Metadata] {
	if o.metadata == nil {
		return o.Nop.Metadata(m, s)
	}
	return o.metadata(m)
}

func (o overrides) Bearer(token string, s hook.Scope) hook.Decision[string] {
	if o.bearer == "" {
		return o.Nop.Bearer(token, s)
	}
	return hook.Accept(o.bearer)
}

func TestHeaders(t *testing.T) {
	Convey("Headers should carry the bearer and guest token", t, func() {
		api := &twittertest.Fake{Token: "1234567890123456789"}

		h, err := resolver(api, overrides{bearer: "custom"}, "x").Headers(context.Background())
		So(err, ShouldBeNil)
		So(h["authorization"], ShouldEqual, "Bearer custom")
		So(h["x-guest-token"], ShouldEqual, "1234567890123456789")
	})
}

func TestMetadata(t *testing.T) {
	Convey("Given a running space", t, func() {
		meta := running()
		api := &twittertest.Fake{Token: "1234567890123456789"}
		api.Broadcast(meta, "prod-fastly-us-east-1.video.pscp.tv")

		Convey("Metadata should be fetched once", func() {
			r := resolver(api, nil, meta.RestID)
			for i := 0; i < 3; i++ {
				got, err := r.Metadata(context.Background())
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "Hello")
			}
			So(api.Calls(twittertest.CallAudioSpace), ShouldEqual, 1)
		})

		Convey("A vetoing hook should abort with its reason", func() {
			hooks := overrides{metadata: func(*twitter.Metadata) hook.Decision[*twitter.Metadata] {
				return hook.Abort[*twitter.Metadata]("not this one")
			}}

			_, err := resolver(api, hooks, meta.RestID).DynURL(context.Background())
			var veto *hook.VetoError
			So(errors.As(err, &veto), ShouldBeTrue)
			So(veto.Point, ShouldEqual, hook.PointMetadata)
			So(veto.Reason, ShouldEqual, "not this one")
			So(Classify(err), ShouldEqual, FailureVeto)
			So(api.Calls(twittertest.CallStreamSource), ShouldEqual, 0)
		})

		Convey("A rewriting hook should be seen by later stages", func() {
			hooks := overrides{metadata: func(m *twitter.Metadata) hook.Decision[*twitter.Metadata] {
				m.Title = "Rewritten"
				return hook.Accept(m)
			}}

			name, err := resolver(api, hooks, meta.RestID).Filename(context.Background(), "%{title}")
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "Rewritten")
		})

		Convey("A hook accepting no metadata should fail the stage", func() {
			hooks := overrides{metadata: func(*twitter.Metadata) hook.Decision[*twitter.Metadata] {
				return hook.Accept[*twitter.Metadata](nil)
			}}
			r := resolver(api, hooks, meta.RestID)

			_, err := r.Metadata(context.Background())
			var stage *StageError
			So(errors.As(err, &stage), ShouldBeTrue)
			So(stage.Stage, ShouldEqual, StageMetadata)
			So(r.Session.Cache.Get(session.Metadata).IsPresent(), ShouldBeFalse)

			_, err = r.DynURL(context.Background())
			So(errors.As(err, &stage), ShouldBeTrue)
			So(api.Calls(twittertest.CallStreamSource), ShouldEqual, 0)
		})

		Convey("An unknown space should fail at the metadata stage", func() {
			_, err := resolver(api, nil, "missing").Metadata(context.Background())
			var stage *StageError
			So(errors.As(err, &stage), ShouldBeTrue)
			So(stage.Stage, ShouldEqual, StageMetadata)
			So(Classify(err), ShouldEqual, FailureResolution)
		})
	})
}

func TestDynURL(t *testing.T) {
	Convey("Given the stream source endpoint", t, func() {
		api := &twittertest.Fake{Token: "1234567890123456789"}

		Convey("An ended space without replay should not be queried", func() {
			meta := running()
			meta.State = constant.StateEnded
			api.Broadcast(meta, "host")

			_, err := resolver(api, nil, meta.RestID).DynURL(context.Background())
			So(errors.Is(err, ErrNoReplay), ShouldBeTrue)
			So(Classify(err), ShouldEqual, FailureTerminal)
			So(api.Calls(twittertest.CallStreamSource), ShouldEqual, 0)
		})

		Convey("An ended space with replay should be queried once by media key", func() {
			meta := running()
			meta.State = constant.StateEnded
			meta.ReplayAvailable = true
			dyn := api.Broadcast(meta, "host")

			r := resolver(api, nil, meta.RestID)
			for i := 0; i < 2; i++ {
				got, err := r.DynURL(context.Background())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, dyn)
			}
			So(api.Calls(twittertest.CallStreamSource), ShouldEqual, 1)
			So(api.Last(twittertest.CallStreamSource), ShouldEqual, meta.MediaKey)
		})
	})
}

func TestPlaybackChain(t *testing.T) {
	Convey("Given a running space", t, func() {
		meta := running()
		api := &twittertest.Fake{Token: "1234567890123456789"}
		api.Broadcast(meta, "host")
		r := resolver(api, nil, meta.RestID)

		Convey("MasterURL should point next to the dynamic playlist", func() {
			master, err := r.MasterURL(context.Background())
			So(err, ShouldBeNil)
			So(master, ShouldEqual, "https://host/Transcoding/v1/hls/"+meta.RestID+"/master_playlist.m3u8")
		})

		Convey("PlaylistURL should join the master host and its 4th line", func() {
			u, err := r.PlaylistURL(context.Background())
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://host/Transcoding/v1/hls/"+meta.RestID+"/transcode/playlist_16.m3u8")
		})

		Convey("Playlist should carry absolute chunk locations", func() {
			body, err := r.Playlist(context.Background())
			So(err, ShouldBeNil)
			So(body, ShouldContainSubstring, "https://host/Transcoding/v1/hls/"+meta.RestID+"/chunk_1000_0_a.aac")
			So(strings.Count(body, "chunk_"), ShouldEqual, 2)

			Convey("And be cached", func() {
				fetches := api.Calls(twittertest.CallFetch)
				_, err := r.Playlist(context.Background())
				So(err, ShouldBeNil)
				So(api.Calls(twittertest.CallFetch), ShouldEqual, fetches)
			})
		})
	})
}

func TestPlaylistHelpers(t *testing.T) {
	Convey("MasterFromDyn", t, func() {
		master, err := MasterFromDyn("https://host/a/b/dynamic_playlist.m3u8?type=replay")
		So(err, ShouldBeNil)
		So(master, ShouldEqual, "https://host/a/b/master_playlist.m3u8")

		_, err = MasterFromDyn("not a url")
		So(err, ShouldNotBeNil)
	})

	Convey("PlaylistFromMaster", t, func() {
		u, err := PlaylistFromMaster("https://example.com/m/master_playlist.m3u8", "a\nb\nc\n/path/chunk.m3u8?x=1\n")
		So(err, ShouldBeNil)
		So(u, ShouldEqual, "https://example.com/path/chunk.m3u8?x=1")

		_, err = PlaylistFromMaster("https://example.com/m", "a\nb\nc")
		So(err, ShouldNotBeNil)

		_, err = PlaylistFromMaster("/relative", "a\nb\nc\nd")
		So(err, ShouldNotBeNil)
	})

	Convey("ChunkBase and RewriteChunks", t, func() {
		So(ChunkBase("https://host/a/master_playlist.m3u8?q=1"), ShouldEqual, "https://host/a/")
		So(RewriteChunks("x\nchunk_1.aac\n", "https://host/a/master_playlist.m3u8?q=1"), ShouldEqual, "x\nhttps://host/a/chunk_1.aac\n")
	})

	Convey("SegmentCount", t, func() {
		n, err := SegmentCount(twittertest.MediaPlaylist)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 2)
	})
}

func TestFormat(t *testing.T) {
	Convey("Format", t, func() {
		fields := map[string]string{"title": "Hello", "rest_id": "123"}

		So(Format("space-%{title}-%{rest_id}", fields), ShouldEqual, "space-Hello-123")
		So(Format("%{bogus}x", fields), ShouldEqual, "x")
		So(Format("%{title}", map[string]string{"title": "a/b"}), ShouldEqual, "a_b")
	})

	Convey("Fields", t, func() {
		meta := running()
		meta.TotalParticipated = 7
		fields := Fields(meta)

		So(fields["total_participated"], ShouldEqual, "7")
		So(fields["ended_at"], ShouldBeEmpty)
		So(fields["state"], ShouldEqual, constant.StateRunning)
	})

	Convey("Filename should fall back to the rest id", t, func() {
		meta := running()
		api := &twittertest.Fake{Token: "1234567890123456789"}
		api.Broadcast(meta, "host")

		name, err := resolver(api, nil, meta.RestID).Filename(context.Background(), "%{bogus}")
		So(err, ShouldBeNil)
		So(name, ShouldEqual, meta.RestID)
	})
}

func TestUserSpaces(t *testing.T) {
	Convey("SpaceURLs should resolve the user and extract links", t, func() {
		api := &twittertest.Fake{
			Token:  "1234567890123456789",
			Users:  map[string]string{"jack": "12"},
			Tweets: map[string]string{"12": `{"url":"https://twitter.com/i/spaces/1aBcD"} https://x.com/i/spaces/1aBcD`},
		}

		r := New(session.ForUser("jack", nil), api, Options{Sleep: noSleep})
		urls, err := r.SpaceURLs(context.Background())
		So(err, ShouldBeNil)
		So(urls, ShouldResemble, []string{"https://twitter.com/i/spaces/1aBcD"})
		So(api.Last(twittertest.CallUserTweets), ShouldEqual, "12")
	})
}
