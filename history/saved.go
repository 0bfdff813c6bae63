package history

import (
	"fmt"
	"time"

	"github.com/vidra-cli/vidra/util"
)

// SavedPlayback represents a single resume record preserved in the user's history.
type SavedPlayback struct {
	Handle    string    `json:"handle"`
	Title     string    `json:"title"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fraction reports how much of the recording was watched, clamped to [0, 1].
func (s *SavedPlayback) Fraction() float64 {
	if s.Duration <= 0 {
		return 0
	}
	fraction := s.Position / s.Duration
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

func (s *SavedPlayback) String() string {
	name := s.Title
	if name == "" {
		name = s.Handle
	}
	return fmt.Sprintf("%s : %s / %s", name, util.FormatSeconds(s.Position), util.FormatSeconds(s.Duration))
}
