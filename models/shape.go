package models

// Shape is the collision footprint of a tile.
type Shape uint8

const (
	ShapeEmpty Shape = iota
	ShapeFull
	ShapeSlopeTopLeft     // solid triangle above y = T - x
	ShapeSlopeTopRight    // solid triangle above y = x
	ShapeSlopeBottomLeft  // solid triangle below y = x
	ShapeSlopeBottomRight // solid triangle below y = T - x
)

var shapeNames = [...]string{
	ShapeEmpty:            "empty",
	ShapeFull:             "full",
	ShapeSlopeTopLeft:     "slope_top_left",
	ShapeSlopeTopRight:    "slope_top_right",
	ShapeSlopeBottomLeft:  "slope_bottom_left",
	ShapeSlopeBottomRight: "slope_bottom_right",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// MarshalText lets shapes appear by name in JSON payloads.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ShapeTable maps tile codes to collision shapes. It is built once and
// never mutated afterwards.
type ShapeTable map[TileCode]Shape

// Lookup returns the shape of code and whether the table knows it.
func (st ShapeTable) Lookup(code TileCode) (Shape, bool) {
	s, ok := st[code]
	return s, ok
}

// DefaultShapeTable returns the shape table for the full tile vocabulary.
func DefaultShapeTable() ShapeTable {
	st := ShapeTable{
		TileGround:         ShapeEmpty,
		TileMud:            ShapeEmpty,
		TileWorkshopFloor1: ShapeEmpty,
		TileRepairStation:  ShapeEmpty,
		TileDestroyStation: ShapeEmpty,
		TileUpgradeStation: ShapeEmpty,
		TileExitDoor:       ShapeEmpty,

		TileWall: ShapeFull,

		TileMountain1:  ShapeSlopeBottomRight,
		TileMountain2:  ShapeFull,
		TileMountain3:  ShapeSlopeBottomLeft,
		TileMountain4:  ShapeFull,
		TileMountain5:  ShapeFull,
		TileMountain6:  ShapeFull,
		TileMountain7:  ShapeFull,
		TileMountain8:  ShapeFull,
		TileMountain9:  ShapeFull,
		TileMountain10: ShapeFull,
		TileMountain11: ShapeFull,
		TileMountain12: ShapeFull,
		TileMountain13: ShapeSlopeTopRight,
		TileMountain14: ShapeFull,
		TileMountain15: ShapeSlopeTopLeft,

		TileRiver1: ShapeSlopeBottomRight,
		TileRiver2: ShapeFull,
		TileRiver3: ShapeSlopeBottomLeft,
		TileRiver4: ShapeFull,
		TileRiver5: ShapeFull,
		TileRiver6: ShapeFull,
		TileRiver7: ShapeSlopeTopRight,
		TileRiver8: ShapeFull,
		TileRiver9: ShapeSlopeTopLeft,
	}

	for _, t := range []TileCode{
		TileGround1, TileGround2, TileGround3, TileGround4, TileGround5, TileGround6,
		TileGround7, TileGround8, TileGround9, TileGround11, TileGround12, TileGround13,
		TileGround14,
	} {
		st[t] = ShapeEmpty
	}

	// Workshop walls are decoration only.
	for _, t := range []TileCode{
		TileWorkshopWall1, TileWorkshopWall2, TileWorkshopWall3, TileWorkshopWall4,
		TileWorkshopWall5, TileWorkshopWall6, TileWorkshopWall7, TileWorkshopWall8,
		TileWorkshopWall9,
	} {
		st[t] = ShapeEmpty
	}

	return st
}
