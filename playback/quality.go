package playback

// bandwidthTolerance is the maximum bandwidth distance, in the manifest's
// bandwidth units, at which a rendition still counts as matching a requested
// stream quality.
const bandwidthTolerance = 100

// VideoQuality is either automatic engine-driven selection or a concrete
// rendition from a manifest ladder.
type VideoQuality struct {
	auto       bool
	Bandwidth  int
	Resolution string
	URL        string
	Label      string
}

// AutoQuality returns the automatic-selection quality.
func AutoQuality() VideoQuality {
	return VideoQuality{auto: true}
}

// StreamQuality returns a concrete rendition quality.
func StreamQuality(bandwidth int, resolution, url, label string) VideoQuality {
	return VideoQuality{Bandwidth: bandwidth, Resolution: resolution, URL: url, Label: label}
}

// IsAuto reports whether the quality requests engine-driven selection.
func (q VideoQuality) IsAuto() bool {
	return q.auto
}

// String returns the display label, or "auto" for automatic selection.
func (q VideoQuality) String() string {
	if q.auto {
		return "auto"
	}
	return q.Label
}

// Closest matches q against a candidate ladder by bandwidth proximity.
//
// Auto maps to auto. A concrete quality maps to the first candidate whose
// bandwidth lies within the tolerance; when no candidate is close enough the
// result falls back to auto rather than an arbitrary rendition. An empty
// ladder always yields auto.
func (q VideoQuality) Closest(candidates []VideoQuality) VideoQuality {
	if q.auto {
		return AutoQuality()
	}
	for _, c := range candidates {
		if c.auto {
			continue
		}
		d := c.Bandwidth - q.Bandwidth
		if d < 0 {
			d = -d
		}
		if d < bandwidthTolerance {
			return c
		}
	}
	return AutoQuality()
}
