package models

import "log"

// Asset is the client-side image handle for a tile.
type Asset struct {
	Key string `json:"key"`
}

// MissingAsset is returned for tile codes without art.
var MissingAsset = Asset{}

// Missing reports whether a is the MissingAsset value.
func (a Asset) Missing() bool {
	return a == MissingAsset
}

var tileAssets = map[TileCode]Asset{
	TileGround:         {"GROUND"},
	TileMud:            {"MudTile1"},
	TileWorkshopFloor1: {"WorkshopFloorTile1"},
	TileUpgradeStation: {"chip"},
	TileRepairStation:  {"repair_station"},
	TileDestroyStation: {"destroy_station"},
	TileExitDoor:       {"exit_door"},

	TileGround1:  {"GroundTile1"},
	TileGround2:  {"GroundTile2"},
	TileGround3:  {"GroundTile3"},
	TileGround4:  {"GroundTile4"},
	TileGround5:  {"GroundTile5"},
	TileGround6:  {"GroundTile6"},
	TileGround7:  {"GroundTile7"},
	TileGround8:  {"GroundTile8"},
	TileGround9:  {"GroundTile9"},
	TileGround11: {"GroundTile11"},
	TileGround12: {"GroundTile12"},
	TileGround13: {"GroundTile13"},
	TileGround14: {"GroundTile14"},

	TileRiver1: {"RiverTile1"},
	TileRiver2: {"RiverTile2"},
	TileRiver3: {"RiverTile3"},
	TileRiver4: {"RiverTile4"},
	TileRiver5: {"RiverTile5"},
	TileRiver6: {"RiverTile6"},
	TileRiver7: {"RiverTile7"},
	TileRiver8: {"RiverTile8"},
	TileRiver9: {"RiverTile9"},

	TileMountain1:  {"MountainTile1"},
	TileMountain2:  {"MountainTile2"},
	TileMountain3:  {"MountainTile3"},
	TileMountain4:  {"MountainTile4"},
	TileMountain5:  {"MountainTile5"},
	TileMountain6:  {"MountainTile6"},
	TileMountain7:  {"MountainTile7"},
	TileMountain8:  {"MountainTile8"},
	TileMountain9:  {"MountainTile9"},
	TileMountain10: {"MountainTile10"},
	TileMountain11: {"MountainTile11"},
	TileMountain12: {"MountainTile12"},
	TileMountain13: {"MountainTile13"},
	TileMountain14: {"MountainTile14"},
	TileMountain15: {"MountainTile15"},

	TileWorkshopWall1: {"WorkshopWallTile1"},
	TileWorkshopWall2: {"WorkshopWallTile2"},
	TileWorkshopWall3: {"WorkshopWallTile3"},
	TileWorkshopWall4: {"WorkshopWallTile4"},
	TileWorkshopWall5: {"WorkshopWallTile5"},
	TileWorkshopWall6: {"WorkshopWallTile6"},
	TileWorkshopWall7: {"WorkshopWallTile7"},
	TileWorkshopWall8: {"WorkshopWallTile8"},
	TileWorkshopWall9: {"WorkshopWallTile9"},
}

// AssetFor resolves the image handle of a tile code.
func AssetFor(code TileCode) Asset {
	if a, ok := tileAssets[code]; ok {
		return a
	}
	return MissingAsset
}

// TileCodes returns every tile code that has art.
func TileCodes() []TileCode {
	codes := make([]TileCode, 0, len(tileAssets))
	for c := range tileAssets {
		codes = append(codes, c)
	}
	return codes
}

// AuditTiles logs every distinct tile code in grid that lacks a shape or an
// asset and returns the number of distinct codes with a gap.
func AuditTiles(grid TileGrid, shapes ShapeTable) int {
	seen := make(map[TileCode]bool)
	gaps := 0
	for _, row := range grid {
		for _, code := range row {
			if seen[code] {
				continue
			}
			seen[code] = true

			_, hasShape := shapes.Lookup(code)
			missingArt := AssetFor(code).Missing()
			if !hasShape || missingArt {
				gaps++
				log.Printf("Tile type %d has no shape=%t asset=%t mapping", code, !hasShape, missingArt)
			}
		}
	}
	return gaps
}
