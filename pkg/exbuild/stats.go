package exbuild

import (
	"time"
)

// Stats summarizes the most recent build.
type Stats struct {
	Worksheets  int           `json:"worksheets"`
	Cells       int           `json:"cells"`
	Styles      int           `json:"styles"`
	Formulas    int           `json:"formulas"`
	Merges      int           `json:"merges"`
	Links       int           `json:"links"`
	Comments    int           `json:"comments"`
	Validations int           `json:"validations"`
	Duration    time.Duration `json:"duration"`
	Bytes       int           `json:"bytes"`
	BuiltAt     time.Time     `json:"built_at"`
	// SheetDurations is filled when performance monitoring is enabled.
	SheetDurations map[string]time.Duration `json:"sheet_durations,omitempty"`

	styleIDs map[int]struct{}
}

func (s *Stats) recordStyle(id int) {
	if s.styleIDs == nil {
		s.styleIDs = make(map[int]struct{})
	}
	if _, ok := s.styleIDs[id]; !ok {
		s.styleIDs[id] = struct{}{}
		s.Styles++
	}
}

func (s *Stats) recordSheet(name string, d time.Duration) {
	if s.SheetDurations == nil {
		s.SheetDurations = make(map[string]time.Duration)
	}
	s.SheetDurations[name] = d
}

// clone returns a copy safe to hand to callers.
func (s Stats) clone() Stats {
	out := s
	out.styleIDs = nil
	if s.SheetDurations != nil {
		out.SheetDurations = make(map[string]time.Duration, len(s.SheetDurations))
		for k, v := range s.SheetDurations {
			out.SheetDurations[k] = v
		}
	}
	return out
}
