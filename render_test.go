package qprogress

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a quantum state", t, func() {
		Convey("When rendering in plain style", func() {
			for seed := uint64(0); seed < 25; seed++ {
				qs, out := newTestState(100, WithSeed(seed, seed+1))
				percent := qs.Render(10, false)

				counter := qs.Counter()
				filled := 10 * counter / 100
				expected := fmt.Sprintf("\r[%s%s] ", strings.Repeat("█", filled), strings.Repeat(" ", 10-filled))

				So(percent, ShouldEqual, 100*counter/100)
				So(out.String(), ShouldStartWith, expected)
				So(out.String(), ShouldEndWith, "% ")
				So(len(qs.History()), ShouldEqual, 1)
			}
		})

		Convey("When rendering in quantum style", func() {
			qs, out := newTestState(100)
			percent := qs.Render(30, true)

			cells := barCells(out.String())

			Convey("Then the bar should be exactly as wide as requested", func() {
				So(utf8.RuneCountInString(cells), ShouldEqual, 30)
			})

			Convey("Then the returned percentage should follow the observed counter", func() {
				So(percent, ShouldEqual, 100*qs.Counter()/qs.Total())
			})
		})

		Convey("When rendering with a non-positive width", func() {
			qs, out := newTestState(100)
			qs.Render(0, false)

			Convey("Then the default width should be used", func() {
				So(utf8.RuneCountInString(barCells(out.String())), ShouldEqual, DefaultWidth)
			})
		})

		Convey("When rendering with a label", func() {
			qs, out := newTestState(100, WithLabel("Loading"))
			qs.Render(10, false)

			So(out.String(), ShouldStartWith, "\rLoading [")
		})

		Convey("When a narrower frame follows a wider one", func() {
			qs, out := newTestState(100, WithCollapseFactor(0))
			qs.painter.lastWidth = 40
			qs.Render(10, false)

			Convey("Then the old frame should be padded over", func() {
				So(runewidth.StringWidth(strings.TrimPrefix(out.String(), "\r")), ShouldEqual, 40)
			})
		})

		Convey("When rendering many frames", func() {
			qs, _ := newTestState(100, WithCollapseFactor(0.5))
			for i := 0; i < 200; i++ {
				percent := qs.Render(20, true)
				So(percent, ShouldBeBetweenOrEqual, 0, 100)
				So(percent, ShouldEqual, 100*qs.Counter()/qs.Total())
			}

			So(qs.Metrics().ExportMetrics()["renders"], ShouldEqual, int64(200))
		})
	})
}

func TestBuildBar(t *testing.T) {
	Convey("Given a random source", t, func() {
		qs, _ := newTestState(100)

		Convey("When building a plain bar", func() {
			b := buildBar(qs.rng, 8, 3, false)

			Convey("Then the fill should be uniform", func() {
				So(b.String(), ShouldEqual, "███     ")
				So(b.fluctuations, ShouldEqual, 0)
			})
		})

		Convey("When building quantum bars", func() {
			for i := 0; i < 100; i++ {
				b := buildBar(qs.rng, 20, 12, true)

				So(utf8.RuneCountInString(b.filled), ShouldEqual, 12)
				So(utf8.RuneCountInString(b.empty), ShouldEqual, 8)

				for _, r := range b.filled {
					So(quantumGlyphs, ShouldContain, string(r))
				}
				for _, r := range b.empty {
					So(string(r), ShouldBeIn, "░", " ")
				}
				So(b.fluctuations, ShouldEqual, strings.Count(b.empty, "░"))
			}
		})

		Convey("When every empty cell fluctuates onto a glyph", func() {
			qs.rng = scripted(0.05)
			b := buildBar(qs.rng, 4, 0, true)

			So(b.empty, ShouldEqual, "░░░░")
			So(b.fluctuations, ShouldEqual, 4)
		})

		Convey("When the fill exceeds the width", func() {
			b := buildBar(qs.rng, 4, 9, false)
			So(b.String(), ShouldEqual, "████")
		})
	})
}

func TestDisplayPercent(t *testing.T) {
	Convey("Given a true percentage", t, func() {
		Convey("When the display is not glitched", func() {
			shown, glitched := displayPercent(scripted(0.5), 42)

			So(shown, ShouldEqual, 42)
			So(glitched, ShouldBeFalse)
		})

		Convey("When the display is glitched", func() {
			qs, _ := newTestState(100)
			for i := 0; i < 500; i++ {
				for _, truth := range []int{0, 3, 50, 98, 100} {
					shown, _ := displayPercent(qs.rng, truth)
					So(shown, ShouldBeBetweenOrEqual, max(0, truth-5), min(100, truth+5))
				}
			}
		})
	})
}

// barCells extracts the cells between the brackets of a rendered frame.
func barCells(frame string) string {
	start, end := strings.Index(frame, "["), strings.LastIndex(frame, "]")
	return frame[start+1 : end]
}
