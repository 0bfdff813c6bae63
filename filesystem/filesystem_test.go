package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestBackendSwap(t *testing.T) {
	Convey("Swapping the filesystem backend", t, func() {
		Convey("SetMemMapFs should route writes into memory", func() {
			SetMemMapFs()
			defer SetOsFs()

			So(API().WriteFile("/probe", []byte("x"), 0644), ShouldBeNil)
			So(API().Name(), ShouldEqual, "MemMapFS")
		})

		Convey("SetOsFs should restore the operating-system backend", func() {
			SetMemMapFs()
			SetOsFs()

			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Swap should accept any afero filesystem", func() {
			Swap(afero.NewMemMapFs())
			defer SetOsFs()

			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}
