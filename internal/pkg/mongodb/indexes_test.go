package mongodb

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRelayLogIndexes(t *testing.T) {
	Convey("RelayLogIndexes 按保留时间设置 TTL", t, func() {
		Convey("不设置保留时间", func() {
			idx := RelayLogIndexes(0)
			So(len(idx), ShouldEqual, 3)
			So(idx[0].Options.ExpireAfterSeconds, ShouldBeNil)
		})

		Convey("保留 7 天", func() {
			idx := RelayLogIndexes(7 * 24 * time.Hour)
			So(*idx[0].Options.ExpireAfterSeconds, ShouldEqual, int32(7*24*3600))
			So(*idx[1].Options.Name, ShouldEqual, "idx_request_id")
		})
	})
}
