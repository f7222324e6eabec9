package terrain

import (
	"github.com/zyedidia/generic/mapset"

	"ewaste-realm/server/models"
)

// Vocabulary is the set of tile and object codes the synthesizer writes.
type Vocabulary struct {
	Base  models.TileCode
	Grass models.TileCode

	RiverSet    [9]models.TileCode
	MountainSet [9]models.TileCode

	// GroundTransitions is indexed by the grass-neighbour mask
	// N=1, S=2, E=4, W=8 of a base cell.
	GroundTransitions [16]models.TileCode

	// Walkable lists the tile codes objects may be scattered on.
	Walkable mapset.Set[models.TileCode]

	Collectibles []models.ObjectCode
	NoObject     models.ObjectCode
}

// DefaultVocabulary returns the overworld vocabulary: grass patches drawn on
// mud, bordered by ground transition tiles.
func DefaultVocabulary() Vocabulary {
	walkable := mapset.New[models.TileCode]()
	for _, t := range []models.TileCode{
		models.TileGround, models.TileGround1, models.TileGround2, models.TileGround3,
		models.TileGround4, models.TileGround5, models.TileGround6, models.TileGround7,
		models.TileGround8, models.TileGround9, models.TileGround11, models.TileGround12,
		models.TileGround13, models.TileGround14, models.TileMud,
	} {
		walkable.Put(t)
	}

	return Vocabulary{
		Base:        models.TileMud,
		Grass:       models.TileGrass,
		RiverSet:    models.RiverTiles,
		MountainSet: models.MountainTiles,
		GroundTransitions: [16]models.TileCode{
			0: models.TileMud, // no grass

			// straight edges
			1: models.TileGround8, // N
			2: models.TileGround2, // S
			4: models.TileGround4, // E
			8: models.TileGround6, // W

			// inner corners
			5:  models.TileGround11, // N+E
			6:  models.TileGround14, // S+E, substitute art
			9:  models.TileGround12, // N+W, substitute art
			10: models.TileGround13, // S+W

			// opposite sides: no dedicated art, reuse the inner corners
			3:  models.TileGround12, // N+S
			12: models.TileGround13, // E+W

			// three sides: the mud speck becomes grass
			7:  models.TileGrass,
			11: models.TileGrass,
			13: models.TileGrass,
			14: models.TileGrass,

			// enclosed on all four sides stays mud
			15: models.TileMud,
		},
		Walkable:     walkable,
		Collectibles: append([]models.ObjectCode(nil), models.Collectibles...),
		NoObject:     models.ObjectNone,
	}
}
