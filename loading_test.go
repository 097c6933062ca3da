package qprogress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoading(t *testing.T) {
	Convey("Given a loading animation", t, func() {
		out := &bytes.Buffer{}

		Convey("When it runs for its full duration", func() {
			err := Loading(context.Background(), out, "Loading quantum state", 50*time.Millisecond, 10, WithDelay(5*time.Millisecond))

			Convey("Then it should animate and finish with a collapsed state", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "\rLoading quantum state [")
				So(out.String(), ShouldEndWith, "Loading quantum state: state collapsed\n")
			})
		})

		Convey("When a full config is passed as well", func() {
			cfg := NewConfig()
			cfg.Label = "ignored"
			cfg.Delay = 5 * time.Millisecond

			err := Loading(context.Background(), out, "Decohering", 20*time.Millisecond, 10, WithConfig(cfg))

			Convey("Then the message should still label the bar", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "\rDecohering [")
				So(out.String(), ShouldNotContainSubstring, "ignored")
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := Loading(ctx, out, "Tunnelling", time.Minute, 10)

			Convey("Then it should stop with the cancellation", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(strings.Count(out.String(), "\rTunnelling ["), ShouldEqual, 1)
			})
		})
	})
}
