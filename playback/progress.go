package playback

// Progress pairs the current playhead with the total duration. It is derived,
// never engine-reported: adapters emit time and duration independently and the
// shared Pipeline combines them.
type Progress struct {
	Value TimeInSeconds
	Total TimeInSeconds
}

// Fraction returns the playhead as a ratio of the total, clamped to [0, 1].
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := p.Value / p.Total
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// TimeRange is a half-open buffered interval in media time.
type TimeRange struct {
	Start TimeInSeconds
	End   TimeInSeconds
}

// LoadedTimeRange is the set of buffered intervals reported by an engine.
// Ranges may be disjoint; consumers interested in a single buffer indicator
// use UpperBound.
type LoadedTimeRange []TimeRange

// UpperBound returns the maximum buffered position, or zero when nothing is
// buffered.
func (l LoadedTimeRange) UpperBound() TimeInSeconds {
	var max TimeInSeconds
	for _, r := range l {
		if r.End > max {
			max = r.End
		}
	}
	return max
}
