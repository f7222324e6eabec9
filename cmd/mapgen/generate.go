package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ewaste-realm/server/models"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a level and print it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, stats, err := generate(opts)
			if err != nil {
				return err
			}

			switch format {
			case "ascii":
				if err := renderASCII(cmd.OutOrStdout(), level.Tiles, level.Objects); err != nil {
					return err
				}
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(level); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want ascii or json)", format)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "seed %d: %dx%d, %d/%d objects, %d walks skipped\n",
				level.Seed, level.Tiles.Rows(), level.Tiles.Cols(),
				stats.ObjectsPlaced, stats.ObjectsRequested, stats.WalksSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "ascii", "Output format: ascii or json.")
	return cmd
}

// glyph is the one-character rendering of a cell. Objects win over tiles.
func glyph(code models.TileCode, obj models.ObjectCode) rune {
	if obj.Name() != "" {
		return '*'
	}
	switch {
	case code.IsRiver():
		return '~'
	case code.IsMountain():
		return '^'
	case code == models.TileGrass:
		return '"'
	case code == models.TileMud:
		return '.'
	case code == models.TileWall:
		return '#'
	case code == models.TileGround || (code >= models.TileGround1 && code <= models.TileGround9) ||
		code == models.TileGround11 || code == models.TileGround12 ||
		code == models.TileGround13 || code == models.TileGround14:
		return ','
	}
	return '?'
}

func renderASCII(w io.Writer, tiles models.TileGrid, objects models.ObjectGrid) error {
	bw := bufio.NewWriter(w)
	for r, row := range tiles {
		for c, code := range row {
			obj := models.ObjectNone
			if objects.InBounds(r, c) {
				obj = objects[r][c]
			}
			bw.WriteRune(glyph(code, obj))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
