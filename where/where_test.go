package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Resolving application paths", t, func() {
		resolvers := map[string]func() string{
			"config": Config,
			"cache":  Cache,
			"logs":   Logs,
		}

		for name, resolve := range resolvers {
			Convey("Should create the "+name+" directory on first resolve", func() {
				path := resolve()

				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}

		Convey("History and lookup paths should live under existing directories", func() {
			for _, file := range []string{History(), HostedLookups()} {
				So(file, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().DirExists(filepath.Dir(file))), ShouldBeTrue)
			}
		})
	})
}
