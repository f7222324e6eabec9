package terrain

import "ewaste-realm/server/models"

// scatterObjects drops up to count collectibles on distinct walkable cells,
// giving up after the attempt budget. It returns how many were placed.
func (s *Synthesizer) scatterObjects(tiles models.TileGrid, objects models.ObjectGrid, count int) int {
	if len(s.vocab.Collectibles) == 0 {
		if count > 0 {
			s.logger.Printf("MapGenerator: only placed 0/%d items, no collectibles to choose from", count)
		}
		return 0
	}

	rows, cols := tiles.Rows(), tiles.Cols()
	placed, attempts := 0, 0
	for placed < count && attempts < s.cfg.MaxScatterAttempts {
		attempts++
		r := s.rng.Intn(rows)
		c := s.rng.Intn(cols)

		if !s.vocab.Walkable.Has(tiles[r][c]) || objects[r][c] != s.vocab.NoObject {
			continue
		}
		objects[r][c] = s.vocab.Collectibles[s.rng.Intn(len(s.vocab.Collectibles))]
		placed++
	}

	s.stats.ScatterAttempts = attempts
	if placed < count {
		s.logger.Printf("MapGenerator: only placed %d/%d items", placed, count)
	}
	return placed
}
