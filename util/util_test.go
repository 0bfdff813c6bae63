package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "stream", "streams"), ShouldEqual, "1 stream")
		So(Quantify(2, "stream", "streams"), ShouldEqual, "2 streams")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatSeconds(t *testing.T) {
	Convey("FormatSeconds", t, func() {
		Convey("Should render minutes and seconds", func() {
			So(FormatSeconds(0), ShouldEqual, "00:00")
			So(FormatSeconds(61.4), ShouldEqual, "01:01")
			So(FormatSeconds(599), ShouldEqual, "09:59")
		})
		Convey("Should include hours past the hour mark", func() {
			So(FormatSeconds(3600), ShouldEqual, "01:00:00")
			So(FormatSeconds(3723), ShouldEqual, "01:02:03")
		})
		Convey("Should clamp negative values", func() {
			So(FormatSeconds(-5), ShouldEqual, "00:00")
		})
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
