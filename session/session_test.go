package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Cache", t, func() {
		c := NewCache()

		Convey("Get should report absence", func() {
			So(c.Get(DynURL).IsAbsent(), ShouldBeTrue)
		})

		Convey("PutIfAbsent should keep the first write", func() {
			So(c.PutIfAbsent(DynURL, "first"), ShouldBeTrue)
			So(c.PutIfAbsent(DynURL, "second"), ShouldBeFalse)
			So(c.Get(DynURL).MustGet(), ShouldEqual, "first")
		})

		Convey("Lookup should ignore values of another type", func() {
			c.PutIfAbsent(Metadata, 42)
			So(Lookup[string](c, Metadata).IsAbsent(), ShouldBeTrue)
			So(Lookup[int](c, Metadata).MustGet(), ShouldEqual, 42)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		c := NewCache()

		Convey("Should compute once and then serve from cache", func() {
			var calls int
			compute := func() (string, error) {
				calls++
				return "value", nil
			}

			v, err := Resolve(c, MasterPlaylist, compute)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value")

			v, err = Resolve(c, MasterPlaylist, compute)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "value")
			So(calls, ShouldEqual, 1)
		})

		Convey("Should not cache failures", func() {
			_, err := Resolve(c, Playlist, func() (string, error) { return "", errors.New("boom") })
			So(err, ShouldNotBeNil)
			So(c.Get(Playlist).IsAbsent(), ShouldBeTrue)

			v, err := Resolve(c, Playlist, func() (string, error) { return "ok", nil })
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "ok")
		})

		Convey("Concurrent misses should all observe one value", func() {
			var (
				wg      sync.WaitGroup
				counter atomic.Int64
				results = make([]int64, 32)
			)

			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					v, _ := Resolve(c, Filename, func() (int64, error) {
						return counter.Add(1), nil
					})
					results[i] = v
				}(i)
			}
			wg.Wait()

			winner := Lookup[int64](c, Filename).MustGet()
			for _, r := range results {
				So(r, ShouldEqual, winner)
			}
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Session", t, func() {
		parent := ForUser("host", nil)
		So(parent.ID, ShouldNotBeEmpty)
		So(parent.Scope().ScreenName, ShouldEqual, "host")

		Convey("Child should only inherit the guest token", func() {
			parent.Cache.PutIfAbsent(GuestToken, "1234567890123456789")
			parent.Cache.PutIfAbsent(UserID, "44196397")

			child := parent.Child("1eaKbrPAqbwKX")
			So(child.ID, ShouldNotEqual, parent.ID)
			So(child.Cache, ShouldNotEqual, parent.Cache)
			So(Lookup[string](child.Cache, GuestToken).MustGet(), ShouldEqual, "1234567890123456789")
			So(child.Cache.Get(UserID).IsAbsent(), ShouldBeTrue)
			So(child.Scope().SpaceID, ShouldEqual, "1eaKbrPAqbwKX")
			So(child.Scope().ScreenName, ShouldEqual, "host")
		})
	})
}
