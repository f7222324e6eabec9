package terrain

import (
	"math"

	"ewaste-realm/server/models"
)

// Marker tags a cell as part of a feature while a level is being planned.
type Marker uint8

const (
	MarkerNone     Marker = 0
	MarkerRiver    Marker = 1
	MarkerMountain Marker = 2
	MarkerGrass    Marker = 4
)

// MarkerGrid is the planning layer. It never outlives GenerateLevel.
type MarkerGrid [][]Marker

func newMarkerGrid(rows, cols int) MarkerGrid {
	return models.NewGrid(rows, cols, MarkerNone)
}

func (m MarkerGrid) inBounds(r, c int) bool {
	return r >= 0 && r < len(m) && c >= 0 && c < len(m[r])
}

// is reports whether (r, c) holds marker; off-grid cells never do.
func (m MarkerGrid) is(r, c int, marker Marker) bool {
	return m.inBounds(r, c) && m[r][c] == marker
}

// BlobSpec places Count circular blobs with a radius drawn from
// [MinRadius, MaxRadius]. A reversed range is read low to high.
type BlobSpec struct {
	Count     int
	MinRadius int
	MaxRadius int
	// OnlyOnEmpty keeps the blob from overwriting other features.
	OnlyOnEmpty bool
}

// WalkSpec places Count random walks with a length drawn from
// [MinLength, MaxLength]. Walks start on, and only overwrite, cells
// holding Over.
type WalkSpec struct {
	Count     int
	MinLength int
	MaxLength int
	Over      Marker
}

type direction struct{ dr, dc int }

var cardinals = [4]direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (s *Synthesizer) addBlobs(m MarkerGrid, marker Marker, spec BlobSpec) {
	for i := 0; i < spec.Count; i++ {
		cr := s.rng.Intn(len(m))
		cc := s.rng.Intn(len(m[0]))
		radius := s.between(spec.MinRadius, spec.MaxRadius)
		stampBlob(m, cr, cc, radius, marker, spec.OnlyOnEmpty)
	}
}

// stampBlob marks every cell within Euclidean distance radius of (cr, cc).
func stampBlob(m MarkerGrid, cr, cc, radius int, marker Marker, onlyOnEmpty bool) {
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if math.Hypot(float64(dr), float64(dc)) > float64(radius) {
				continue
			}
			r, c := cr+dr, cc+dc
			if !m.inBounds(r, c) {
				continue
			}
			if onlyOnEmpty && m[r][c] != MarkerNone {
				continue
			}
			m[r][c] = marker
		}
	}
}

func (s *Synthesizer) addRandomWalks(m MarkerGrid, marker Marker, spec WalkSpec) {
	rows, cols := len(m), len(m[0])

	for i := 0; i < spec.Count; i++ {
		r, c, ok := s.findStart(m, spec.Over)
		if !ok {
			s.stats.WalksSkipped++
			continue
		}

		dir := cardinals[s.rng.Intn(len(cardinals))]
		length := s.between(spec.MinLength, spec.MaxLength)

		for j := 0; j < length; j++ {
			if m[r][c] == spec.Over {
				m[r][c] = marker
			}

			r += dir.dr
			c += dir.dc

			if s.rng.Float64() < s.cfg.TurnChance {
				dir = cardinals[s.rng.Intn(len(cardinals))]
			}
			if r < 0 || r >= rows || c < 0 || c >= cols {
				break
			}
		}
	}
}

// findStart samples random cells until one holds want.
func (s *Synthesizer) findStart(m MarkerGrid, want Marker) (int, int, bool) {
	for attempt := 0; attempt < s.cfg.MaxWalkStartAttempts; attempt++ {
		r := s.rng.Intn(len(m))
		c := s.rng.Intn(len(m[0]))
		if m[r][c] == want {
			return r, c, true
		}
	}
	return 0, 0, false
}

// between returns a uniform integer in [lo, hi], swapping a reversed range.
func (s *Synthesizer) between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
