// Package filesystem routes every disk access through a swappable afero
// backend so tests can run against an in-memory tree.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches the backend to the real operating-system filesystem.
func SetOsFs() {
	Swap(afero.NewOsFs())
}

// SetMemMapFs switches the backend to a fresh in-memory filesystem.
func SetMemMapFs() {
	Swap(afero.NewMemMapFs())
}

// Swap installs fs as the backend for all subsequent API calls.
func Swap(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}
