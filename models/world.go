package models

// TileCode identifies the visual and collision kind of a tile. The numeric
// values match the browser client's sprite sheet and are persisted as-is.
type TileCode int

// Tile vocabulary. Names follow the art files they render with.
const (
	TileGround         TileCode = 0
	TileWall           TileCode = 1
	TileRepairStation  TileCode = 7
	TileDestroyStation TileCode = 8
	TileExitDoor       TileCode = 9
	TileUpgradeStation TileCode = 43

	TileGround1  TileCode = 10
	TileGround2  TileCode = 11
	TileGround3  TileCode = 12
	TileGround4  TileCode = 13
	TileGround5  TileCode = 14 // full grass
	TileGround6  TileCode = 15
	TileGround7  TileCode = 16
	TileGround8  TileCode = 17
	TileGround9  TileCode = 18
	TileGround11 TileCode = 44
	TileGround12 TileCode = 45
	TileGround13 TileCode = 51
	TileGround14 TileCode = 52

	TileMud TileCode = 55

	TileRiver1 TileCode = 19
	TileRiver2 TileCode = 20
	TileRiver3 TileCode = 21
	TileRiver4 TileCode = 22
	TileRiver5 TileCode = 23
	TileRiver6 TileCode = 24
	TileRiver7 TileCode = 25
	TileRiver8 TileCode = 26
	TileRiver9 TileCode = 27

	TileMountain1  TileCode = 28
	TileMountain2  TileCode = 29
	TileMountain3  TileCode = 30
	TileMountain4  TileCode = 31
	TileMountain5  TileCode = 32
	TileMountain6  TileCode = 33
	TileMountain7  TileCode = 34
	TileMountain8  TileCode = 35
	TileMountain9  TileCode = 36
	TileMountain10 TileCode = 37
	TileMountain11 TileCode = 38
	TileMountain12 TileCode = 39
	TileMountain13 TileCode = 40
	TileMountain14 TileCode = 41
	TileMountain15 TileCode = 42

	TileWorkshopWall1  TileCode = 53
	TileWorkshopWall2  TileCode = 54
	TileWorkshopWall3  TileCode = 56
	TileWorkshopWall4  TileCode = 57
	TileWorkshopWall5  TileCode = 58
	TileWorkshopWall6  TileCode = 59
	TileWorkshopWall7  TileCode = 60
	TileWorkshopWall8  TileCode = 61
	TileWorkshopWall9  TileCode = 62
	TileWorkshopFloor1 TileCode = 63
)

// Convenience aliases used by the generator.
const (
	TileGrass = TileGround5
)

// RiverTiles is the 3x3 river sprite block in row-major order.
var RiverTiles = [9]TileCode{
	TileRiver1, TileRiver2, TileRiver3,
	TileRiver4, TileRiver5, TileRiver6,
	TileRiver7, TileRiver8, TileRiver9,
}

// MountainTiles is the 3x3 mountain sprite block in row-major order.
var MountainTiles = [9]TileCode{
	TileMountain1, TileMountain2, TileMountain3,
	TileMountain4, TileMountain5, TileMountain6,
	TileMountain7, TileMountain8, TileMountain9,
}

// IsRiver reports whether code belongs to the river sprite block.
func (c TileCode) IsRiver() bool {
	for _, t := range RiverTiles {
		if t == c {
			return true
		}
	}
	return false
}

// IsMountain reports whether code is any mountain tile.
func (c TileCode) IsMountain() bool {
	return c >= TileMountain1 && c <= TileMountain15
}

// ObjectCode identifies what sits on a cell of the object layer.
type ObjectCode int

const (
	ObjectNone    ObjectCode = 0
	ObjectToaster ObjectCode = 2
	ObjectLaptop  ObjectCode = 3
	ObjectBlender ObjectCode = 4
	ObjectChip    ObjectCode = 5
	ObjectPC      ObjectCode = 6
	ObjectPhone   ObjectCode = 7
)

// Collectibles lists every object a player can pick up.
var Collectibles = []ObjectCode{
	ObjectToaster, ObjectLaptop, ObjectBlender, ObjectChip, ObjectPC, ObjectPhone,
}

var objectNames = map[ObjectCode]string{
	ObjectToaster: "toaster",
	ObjectLaptop:  "laptop",
	ObjectBlender: "blender",
	ObjectChip:    "chip",
	ObjectPC:      "pc",
	ObjectPhone:   "phone",
}

// Name returns the inventory name of a collectible, or "" for anything else.
func (o ObjectCode) Name() string {
	return objectNames[o]
}

// LevelKind tells which game mode a level belongs to.
type LevelKind string

const (
	LevelOverworld LevelKind = "overworld"
	LevelWorkshop  LevelKind = "workshop"
)
