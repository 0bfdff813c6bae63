// Package hosted adapts an externally-owned hosted-video SDK to the playback
// contract. Content is addressed by an opaque content ID which a credentialed
// lookup service resolves into a playable video; the resolved video is handed
// to the SDK's playback controller, and the adapter binds to the controller's
// active session once it advances.
package hosted

import (
	"context"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/filesystem"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/where"
)

// Video is a playable handle resolved by the lookup service.
type Video struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	StreamURL string                 `json:"stream_url"`
	Duration  playback.TimeInSeconds `json:"duration"`
}

// LookupService resolves a content ID to a playable video. Failures surface
// to playback consumers as lookup errors.
type LookupService interface {
	FindVideo(ctx context.Context, contentID string) (Video, error)
}

// lookupData is the on-disk format of the lookup cache.
type lookupData struct {
	Videos map[string]Video `json:"videos"`
}

// lookupCache persists successful lookups so repeat playback of the same
// content skips the service round-trip until the entry expires.
type lookupCache struct {
	internal *gache.Cache[*lookupData]
	mu       sync.RWMutex
}

func newLookupCache() *lookupCache {
	return &lookupCache{
		internal: gache.New[*lookupData](
			&gache.Options{
				Path:       where.HostedLookups(),
				Lifetime:   time.Hour * time.Duration(viper.GetInt(key.HostedCacheTTL)),
				FileSystem: &filesystem.GacheFs{},
			},
		),
	}
}

func (c *lookupCache) get(contentID string) (Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return Video{}, false
	}

	video, ok := data.Videos[contentID]
	return video, ok
}

func (c *lookupCache) set(contentID string, video Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		data = &lookupData{Videos: make(map[string]Video)}
	}
	data.Videos[contentID] = video
	return c.internal.Set(data)
}

// cachedLookup decorates a lookup service with the persistent cache.
type cachedLookup struct {
	inner LookupService
	cache *lookupCache
}

// WithCache wraps a lookup service so successful resolutions are persisted
// and reused until the configured TTL elapses. Cache write failures are
// logged, never surfaced: the lookup itself already succeeded.
func WithCache(inner LookupService) LookupService {
	return &cachedLookup{inner: inner, cache: newLookupCache()}
}

func (c *cachedLookup) FindVideo(ctx context.Context, contentID string) (Video, error) {
	if video, ok := c.cache.get(contentID); ok {
		log.Debugf("hosted lookup cache hit for %q", contentID)
		return video, nil
	}

	video, err := c.inner.FindVideo(ctx, contentID)
	if err != nil {
		return Video{}, err
	}

	if err := c.cache.set(contentID, video); err != nil {
		log.Warnf("hosted lookup cache write: %v", err)
	}
	return video, nil
}
