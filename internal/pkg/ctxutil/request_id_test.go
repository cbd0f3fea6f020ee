package ctxutil

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("请求 ID 在 context 中传递", t, func() {
		_, ok := GetRequestID(context.Background())
		So(ok, ShouldBeFalse)

		ctx := WithRequestID(context.Background(), "req-1")
		id, ok := GetRequestID(ctx)
		So(ok, ShouldBeTrue)
		So(id, ShouldEqual, "req-1")

		_, ok = GetRequestID(WithRequestID(context.Background(), ""))
		So(ok, ShouldBeFalse)
	})
}
