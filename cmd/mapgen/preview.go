package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"ewaste-realm/server/collision"
	"ewaste-realm/server/models"
)

func newPreviewCmd(opts *options) *cobra.Command {
	var boxSize, step float64

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Walk a generated level in the terminal (arrows move, q quits).",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, _, err := generate(opts)
			if err != nil {
				return err
			}
			p, err := newPreview(level, opts.tileSize, boxSize, step)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			p.run(screen)
			return nil
		},
	}

	cmd.Flags().Float64Var(&boxSize, "box", 60, "Walker box size in pixels.")
	cmd.Flags().Float64Var(&step, "step", 20, "Pixels moved per key press.")
	return cmd
}

type preview struct {
	level    *models.LevelState
	resolver *collision.Resolver
	tileSize int
	step     float64
	box      collision.Box
	status   string
}

// newPreview places the walker centred on the first walkable cell.
func newPreview(level *models.LevelState, tileSize int, boxSize, step float64) (*preview, error) {
	resolver, err := collision.NewResolver(level.Tiles, models.DefaultShapeTable(), tileSize)
	if err != nil {
		return nil, err
	}
	walkable := resolver.FindWalkableCells()
	if len(walkable) == 0 {
		return nil, fmt.Errorf("level has no walkable cell")
	}

	t := float64(tileSize)
	start := walkable[0]
	return &preview{
		level:    level,
		resolver: resolver,
		tileSize: tileSize,
		step:     step,
		box: collision.Box{
			X: float64(start.Col)*t + (t-boxSize)/2,
			Y: float64(start.Row)*t + (t-boxSize)/2,
			W: boxSize,
			H: boxSize,
		},
	}, nil
}

// walk moves the box by whole steps and records what stopped it.
func (p *preview) walk(dx, dy int) {
	var blockedX, blockedY bool
	p.box, blockedX, blockedY = collision.Move(p.resolver, p.box, float64(dx)*p.step, float64(dy)*p.step, nil)
	p.status = ""
	if blockedX || blockedY {
		p.status = "blocked"
	}
}

// cell is the cell under the centre of the box.
func (p *preview) cell() models.Cell {
	return models.CellAt(p.box.X+p.box.W/2, p.box.Y+p.box.H/2, p.tileSize)
}

func (p *preview) run(screen tcell.Screen) {
	for {
		p.draw(screen)

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyUp:
				p.walk(0, -1)
			case tcell.KeyDown:
				p.walk(0, 1)
			case tcell.KeyLeft:
				p.walk(-1, 0)
			case tcell.KeyRight:
				p.walk(1, 0)
			case tcell.KeyRune:
				if ev.Rune() == 'q' {
					return
				}
			}
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			return
		}
	}
}

func (p *preview) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	height-- // status line

	here := p.cell()
	originRow := here.Row - height/2
	originCol := here.Col - width/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, c := originRow+y, originCol+x
			if !p.level.Tiles.InBounds(r, c) {
				continue
			}
			ch := glyph(p.level.Tiles[r][c], p.level.Objects[r][c])
			screen.SetContent(x, y, ch, nil, glyphStyle(ch))
		}
	}
	screen.SetContent(here.Col-originCol, here.Row-originRow, '@', nil,
		tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))

	status := fmt.Sprintf("seed %d  cell %d,%d  px %.0f,%.0f  %s",
		p.level.Seed, here.Row, here.Col, p.box.X, p.box.Y, p.status)
	for i, ch := range status {
		screen.SetContent(i, height, ch, nil, tcell.StyleDefault.Reverse(true))
	}
	screen.Show()
}

func glyphStyle(ch rune) tcell.Style {
	switch ch {
	case '~':
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case '^':
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case '"', ',':
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case '*':
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorOlive)
}
