package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFor(t *testing.T) {
	Convey("For", t, func() {
		So(For(false), ShouldEqual, Client)
		So(For(true), ShouldEqual, Impersonating)
	})
}

func TestDo(t *testing.T) {
	Convey("Do over plain http", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(r.Header.Get("X-Test")))
		}))
		defer srv.Close()

		body, status, err := Do(context.Background(), http.MethodGet, srv.URL, map[string]string{"X-Test": "ok"}, "")
		So(err, ShouldBeNil)
		So(status, ShouldEqual, http.StatusOK)
		So(body, ShouldEqual, "ok")
	})
}
