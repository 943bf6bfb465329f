package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spacedl/spacedl/constant"
	"github.com/zalando/go-keyring"
)

func TestBearer(t *testing.T) {
	keyring.MockInit()

	Convey("Without an override the built-in credential should be used", t, func() {
		_, err := GetBearer()
		So(IsMissing(err), ShouldBeTrue)
		So(Bearer(), ShouldEqual, constant.BearerToken)
	})

	Convey("A stored override should win", t, func() {
		So(SetBearer("custom"), ShouldBeNil)
		So(Bearer(), ShouldEqual, "custom")

		So(DeleteBearer(), ShouldBeNil)
		So(Bearer(), ShouldEqual, constant.BearerToken)
	})
}
