package hosted

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/filesystem"
	"github.com/vidra-cli/vidra/key"
)

func TestLookupCache(t *testing.T) {
	Convey("Hosted lookup cache", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()
		viper.Set(key.HostedCacheTTL, 1)

		inner := &fakeLookup{video: Video{ID: "v1", StreamURL: "https://cdn/v1.m3u8"}}
		cached := WithCache(inner)

		Convey("Should hit the service once per content ID", func() {
			first, err := cached.FindVideo(context.Background(), "ref:clip")
			So(err, ShouldBeNil)
			second, err := cached.FindVideo(context.Background(), "ref:clip")
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
			So(inner.calls, ShouldEqual, 1)
		})

		Convey("Should miss on distinct content IDs", func() {
			_, err := cached.FindVideo(context.Background(), "ref:a")
			So(err, ShouldBeNil)
			_, err = cached.FindVideo(context.Background(), "ref:b")
			So(err, ShouldBeNil)
			So(inner.calls, ShouldEqual, 2)
		})

		Convey("Should not cache failures", func() {
			failing := &fakeLookup{err: context.DeadlineExceeded}
			wrapped := WithCache(failing)
			_, err := wrapped.FindVideo(context.Background(), "ref:x")
			So(err, ShouldNotBeNil)
			_, err = wrapped.FindVideo(context.Background(), "ref:x")
			So(err, ShouldNotBeNil)
			So(failing.calls, ShouldEqual, 2)
		})
	})
}

func TestService(t *testing.T) {
	Convey("Hosted lookup service", t, func() {
		var gotPath, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")
			if r.URL.Path != "/accounts/acct-1/videos/ref:clip" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "7701",
				"name": "Clip",
				"duration": 300500,
				"sources": [
					{"src": "http://cdn/insecure.m3u8", "type": "application/x-mpegurl"},
					{"src": "https://cdn/clip.m3u8", "type": "application/x-mpegurl"}
				]
			}`))
		}))
		defer server.Close()

		service := &Service{
			BaseURL:   server.URL,
			AccountID: "acct-1",
			PolicyKey: "pk-test",
			Client:    server.Client(),
		}

		Convey("Should resolve a video with policy-key authorization", func() {
			video, err := service.FindVideo(context.Background(), "ref:clip")
			So(err, ShouldBeNil)
			So(gotPath, ShouldEqual, "/accounts/acct-1/videos/ref:clip")
			So(gotAuth, ShouldEqual, "BCOV-Policy pk-test")
			So(video.ID, ShouldEqual, "7701")
			So(video.Title, ShouldEqual, "Clip")
			So(video.Duration, ShouldEqual, 300.5)
		})

		Convey("Should prefer an https rendition", func() {
			video, err := service.FindVideo(context.Background(), "ref:clip")
			So(err, ShouldBeNil)
			So(video.StreamURL, ShouldEqual, "https://cdn/clip.m3u8")
		})

		Convey("Should fail on a non-200 response", func() {
			_, err := service.FindVideo(context.Background(), "ref:other")
			So(err, ShouldNotBeNil)
		})
	})
}
