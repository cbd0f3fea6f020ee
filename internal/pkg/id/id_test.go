package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("RequestID 沿用合法的请求 ID", t, func() {
		u := uuid.New().String()
		So(RequestID(u), ShouldEqual, u)
		So(RequestID("trace_123-abc"), ShouldEqual, "trace_123-abc")

		Convey("缺失或不合法时生成新的", func() {
			for _, in := range []string{"", "  ", "bad id", "x\ny", strings.Repeat("a", 65)} {
				got := RequestID(in)
				_, err := uuid.Parse(got)
				So(err, ShouldBeNil)
			}
		})
	})
}
