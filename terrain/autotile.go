package terrain

import "ewaste-realm/server/models"

// Ground transition mask bits.
const (
	maskNorth = 1
	maskSouth = 2
	maskEast  = 4
	maskWest  = 8
)

// autotileFeature replaces every cell holding marker with the piece of set
// that matches its same-marker neighbours.
func autotileFeature(tiles models.TileGrid, m MarkerGrid, marker Marker, set [9]models.TileCode) {
	for r := range m {
		for c := range m[r] {
			if m[r][c] == marker {
				tiles[r][c] = nineSliceTile(m, r, c, marker, set)
			}
		}
	}
}

// nineSliceTile picks a tile from a row-major 3x3 sprite block. A cell with
// a neighbour only to the north sits on the bottom row, only to the south on
// the top row; likewise west-only maps to the right column and east-only to
// the left one. Anything else is the middle.
func nineSliceTile(m MarkerGrid, r, c int, marker Marker, set [9]models.TileCode) models.TileCode {
	n := m.is(r-1, c, marker)
	s := m.is(r+1, c, marker)
	w := m.is(r, c-1, marker)
	e := m.is(r, c+1, marker)

	row, col := 1, 1
	switch {
	case n && !s:
		row = 2
	case !n && s:
		row = 0
	}
	switch {
	case w && !e:
		col = 2
	case !w && e:
		col = 0
	}

	idx := row*3 + col
	if idx < 0 || idx >= len(set) {
		return set[4]
	}
	return set[idx]
}

// autotileGround borders base cells that touch grass. Neighbours are read
// from a snapshot so rewritten cells do not feed back into the pass.
func autotileGround(tiles models.TileGrid, base, grass models.TileCode, table [16]models.TileCode) {
	snapshot := tiles.Clone()
	for r := range snapshot {
		for c := range snapshot[r] {
			if snapshot[r][c] != base {
				continue
			}
			tiles[r][c] = table[groundMask(snapshot, r, c, grass)]
		}
	}
}

// groundMask returns the N=1, S=2, E=4, W=8 mask of grass neighbours.
func groundMask(tiles models.TileGrid, r, c int, grass models.TileCode) int {
	isGrass := func(r, c int) bool {
		return tiles.InBounds(r, c) && tiles[r][c] == grass
	}

	mask := 0
	if isGrass(r-1, c) {
		mask |= maskNorth
	}
	if isGrass(r+1, c) {
		mask |= maskSouth
	}
	if isGrass(r, c+1) {
		mask |= maskEast
	}
	if isGrass(r, c-1) {
		mask |= maskWest
	}
	return mask
}
