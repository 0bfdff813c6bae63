// Package history provides the implementation for tracking and persisting playback resume positions.
package history

import (
	"time"

	"github.com/metafates/gache"

	"github.com/vidra-cli/vidra/filesystem"
	"github.com/vidra-cli/vidra/where"
)

// finishedFraction marks a recording as watched: records at or beyond it are
// dropped instead of saved, so finished videos restart from the beginning.
const finishedFraction = 0.97

// cacher provides an abstracted, disk-backed registry for resume records.
var cacher = gache.New[map[string]*SavedPlayback](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of resume records from the persistent store.
func Get() (map[string]*SavedPlayback, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedPlayback), nil
	}
	return cached, nil
}

// Save persists the playback position of a media handle to the history registry.
// Positions within the finished fraction of the duration clear the record instead,
// so the next playback starts over.
func Save(handle, title string, position, duration float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := &SavedPlayback{
		Handle:    handle,
		Title:     title,
		Position:  position,
		Duration:  duration,
		UpdatedAt: time.Now(),
	}

	if record.Fraction() >= finishedFraction {
		delete(saved, handle)
		return cacher.Set(saved)
	}

	saved[handle] = record
	return cacher.Set(saved)
}

// Resume returns the stored resume position for a handle, if one exists.
func Resume(handle string) (float64, bool) {
	saved, err := Get()
	if err != nil {
		return 0, false
	}
	record, ok := saved[handle]
	if !ok {
		return 0, false
	}
	return record.Position, true
}

// Remove permanently deletes a resume record from the history registry.
func Remove(handle string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, handle)
	return cacher.Set(saved)
}
