package version

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spacedl/spacedl/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.4.2", "0.4.2", 0},
			{"v0.5.0", "0.4.2", 1},
			{"0.4.2", "1.0.0", -1},
			{"0.10.0", "0.9.9", 1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}

		_, err := Compare("latest", "0.4.2")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a release registry", t, func() {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = fmt.Fprint(w, `{"tag_name":"v1.2.3"}`)
		}))
		defer server.Close()
		releasesURL = server.URL

		Convey("Latest should strip the prefix and cache the result", func() {
			v, err := Latest()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.2.3")

			v, err = Latest()
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "1.2.3")
			So(calls, ShouldEqual, 1)
		})
	})
}
