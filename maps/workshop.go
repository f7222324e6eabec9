// Package maps holds the hand-authored levels that sit next to the
// generated overworld.
package maps

import "ewaste-realm/server/models"

const (
	w1 = models.TileWorkshopWall1
	w4 = models.TileWorkshopWall4
	w5 = models.TileWorkshopWall5
	w6 = models.TileWorkshopWall6
	w7 = models.TileWorkshopWall7
	w8 = models.TileWorkshopWall8
	w9 = models.TileWorkshopWall9
	fl = models.TileGround
	rs = models.TileRepairStation
	ds = models.TileDestroyStation
	us = models.TileUpgradeStation
	ex = models.TileExitDoor
)

var workshop = [10][14]models.TileCode{
	{w9, w6, w6, w6, w6, w6, w6, w6, w6, w6, w6, w6, w6, w6},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, rs, fl, fl, ds, fl, fl, us, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w8, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, fl, w5},
	{w1, w4, w4, w4, w4, w4, ex, w4, w4, w4, w4, w4, w4, w7},
}

// Workshop returns a fresh copy of the workshop tile map.
func Workshop() models.TileGrid {
	g := make(models.TileGrid, len(workshop))
	for r := range workshop {
		g[r] = append([]models.TileCode(nil), workshop[r][:]...)
	}
	return g
}

// WorkshopSpawn is where a player lands when entering the workshop.
func WorkshopSpawn(tileSize int) models.Position {
	return models.Position{X: float64(5 * tileSize), Y: float64(5 * tileSize)}
}

var prompts = map[models.TileCode]string{
	models.TileRepairStation:  "Press [E] to use the anvil",
	models.TileDestroyStation: "Press [E] to use the anvil",
	models.TileUpgradeStation: "Press [E] to open Upgrades",
	models.TileExitDoor:       "Press [E] to leave the workshop",
}

// Prompt returns the interaction text for a workshop tile, if it has one.
func Prompt(code models.TileCode) (string, bool) {
	p, ok := prompts[code]
	return p, ok
}
