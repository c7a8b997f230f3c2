package blocks

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

// cellW is the number of terminal columns one board cell occupies.
const cellW = 2

// panelW is the width of the side panel next to a playfield.
const panelW = 14

// Playfield is everything DrawPlayfield needs to draw one board.
// Cell returns 0 for empty cells and a color index otherwise.
type Playfield struct {
	Width   int
	Height  int
	Cell    func(x, y int) int
	Current *engine.Piece
	Ghost   *engine.Piece
	Effects *engine.EffectSystem
}

// PlayfieldOf builds a Playfield from a live engine.
func PlayfieldOf(g *engine.Game, fx *engine.EffectSystem, ghost bool) Playfield {
	b := g.Board()
	p := Playfield{
		Width:   b.Width(),
		Height:  b.Height(),
		Cell:    b.Cell,
		Effects: fx,
	}
	if g.IsGameOver() {
		return p
	}
	p.Current = g.Current()
	if ghost && !g.Resolving() {
		p.Ghost = g.GhostPiece()
	}
	return p
}

// FieldSize returns the on-screen size of a playfield including its border.
func FieldSize(width, height int) (int, int) {
	return width*cellW + 2, height + 2
}

// PieceColor maps a board cell value to a screen color.
func PieceColor(v int) core.Color {
	switch v {
	case 1:
		return core.ColorCyan
	case 2:
		return core.ColorYellow
	case 3:
		return core.ColorMagenta
	case 4:
		return core.ColorGreen
	case 5:
		return core.ColorRed
	case 6:
		return core.ColorBlue
	case 7:
		return core.ColorOrange
	case engine.CellGarbage:
		return core.ColorGray
	default:
		return core.ColorDefault
	}
}

// DrawPlayfield draws a bordered board with its top-left corner at (ox, oy).
func DrawPlayfield(dst *core.Screen, ox, oy int, p Playfield) {
	w, h := FieldSize(p.Width, p.Height)
	dst.DrawBox(core.NewRect(ox, oy, w, h))

	put := func(x, y int, text string, c core.Color) {
		if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
			return
		}
		dst.DrawTextColor(ox+1+x*cellW, oy+1+y, text, c)
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if v := p.Cell(x, y); v > 0 {
				put(x, y, "[]", PieceColor(v))
			} else {
				put(x, y, " .", core.ColorGray)
			}
		}
	}

	if p.Ghost != nil {
		for _, b := range p.Ghost.Blocks() {
			if p.Cell(b.X, b.Y) == engine.CellEmpty {
				put(b.X, b.Y, "::", core.ColorGray)
			}
		}
	}
	if p.Current != nil {
		c := PieceColor(p.Current.Type().Color())
		for _, b := range p.Current.Blocks() {
			put(b.X, b.Y, "[]", c)
		}
	}
	if p.Effects != nil {
		drawEffects(dst, ox, oy, p, put)
	}
}

func drawEffects(dst *core.Screen, ox, oy int, p Playfield, put func(x, y int, text string, c core.Color)) {
	for _, e := range p.Effects.Effects() {
		switch e.Kind {
		case engine.EffectLineFlash:
			// Blink twice over the flash.
			if int(e.Progress()*4)%2 == 1 {
				continue
			}
			for x := 0; x < p.Width; x++ {
				put(x, e.Row, "==", core.ColorBrightWhite)
			}
		case engine.EffectChainWave:
			row := e.Row - int(e.Progress()*float64(p.Height))
			c := PieceColor((e.Chain-1)%7 + 1)
			for x := 0; x < p.Width; x++ {
				if p.Cell(x, row) == engine.CellEmpty {
					put(x, row, "~~", c)
				}
			}
		}
	}
	for _, pt := range p.Effects.Particles() {
		x := int(math.Floor(pt.X))
		y := int(math.Floor(pt.Y))
		if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
			continue
		}
		r := '*'
		if pt.Age > pt.Life/2 {
			r = '.'
		}
		sx := ox + 1 + x*cellW
		if pt.X-float64(x) >= 0.5 {
			sx++
		}
		dst.SetWithColor(sx, oy+1+y, r, PieceColor(pt.Color))
	}
}

// DrawPiecePreview draws a label and a piece normalized to a 4x2 box.
func DrawPiecePreview(dst *core.Screen, x, y int, label string, p *engine.Piece, dim bool) {
	dst.DrawText(x, y, label)
	if p == nil {
		dst.DrawTextColor(x, y+1, "  --", core.ColorGray)
		return
	}
	blocks := p.Blocks()
	minX, minY := blocks[0].X, blocks[0].Y
	for _, b := range blocks[1:] {
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
	}
	c := PieceColor(p.Type().Color())
	if dim {
		c = core.ColorGray
	}
	for _, b := range blocks {
		dst.DrawTextColor(x+(b.X-minX)*cellW, y+1+(b.Y-minY), "[]", c)
	}
}

// DrawStats draws score, lines and level one per row starting at (x, y).
func DrawStats(dst *core.Screen, x, y int, g *engine.Game) int {
	dst.DrawText(x, y, fmt.Sprintf("Score %d", g.Score()))
	dst.DrawText(x, y+1, fmt.Sprintf("Lines %d", g.Lines()))
	dst.DrawText(x, y+2, fmt.Sprintf("Level %d", g.Level()))
	return y + 3
}

// DrawOverlay draws a centered two-line message box over the whole screen.
func DrawOverlay(dst *core.Screen, line1, line2 string) {
	DrawOverlayAt(dst, core.NewRect(0, 0, dst.Width(), dst.Height()), line1, line2)
}

// DrawOverlayAt draws a two-line message box centered inside area.
func DrawOverlayAt(dst *core.Screen, area core.Rect, line1, line2 string) {
	box := area.Centered(max(len([]rune(line1)), len([]rune(line2)))+4, 5)
	bx, by, boxW, boxH := box.X, box.Y, box.W, box.H

	for y := by; y < by+boxH; y++ {
		for x := bx; x < bx+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box)
	centered := func(y int, text string) {
		x := bx + (boxW-len([]rune(text)))/2
		dst.DrawTextColor(x, y, text, core.ColorBrightWhite)
	}
	centered(by+1, line1)
	centered(by+3, line2)
}

// SoloSize returns the minimum screen size for one playfield with its panel.
func SoloSize(width, height int) (int, int) {
	w, h := FieldSize(width, height)
	return w + panelW + 1, h + 1
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	b := g.eng.Board()
	needW, needH := SoloSize(b.Width(), b.Height())
	if dst.Width() < needW || dst.Height() < needH {
		DrawOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", needW, needH))
		return
	}

	fieldW, _ := FieldSize(b.Width(), b.Height())
	ox := (dst.Width() - needW) / 2
	dst.DrawText(ox, 0, g.Title())
	DrawPlayfield(dst, ox, 1, PlayfieldOf(g.eng, g.effects, g.cfg.Rules.ShowGhost))

	px := ox + fieldW + 1
	y := DrawStats(dst, px, 2, g.eng)
	DrawPiecePreview(dst, px, y+1, "Next", g.eng.Next(), false)
	y += 5
	if g.eng.AllowHold() {
		DrawPiecePreview(dst, px, y, "Hold", g.eng.Held(), g.eng.HoldUsed())
		y += 4
	}
	if g.special != nil {
		if g.chainTimer > 0 && g.chainShown > 1 {
			dst.DrawTextColor(px, y, fmt.Sprintf("Chain x%d!", g.chainShown), core.ColorBrightYellow)
		} else if g.special.IsCascading() {
			dst.DrawTextColor(px, y, "Cascade...", core.ColorCyan)
		}
	}

	area := core.NewRect(ox, 1, fieldW, dst.Height()-1)
	switch {
	case g.eng.IsGameOver():
		DrawOverlayAt(dst, area, "Game Over", "R restart")
	case g.eng.IsPaused():
		DrawOverlayAt(dst, area, "Paused", "P resume")
	}
}

// DuoSize returns the minimum screen size for two playfields side by side.
func DuoSize(width, height int) (int, int) {
	w, h := SoloSize(width, height)
	return w * 2, h
}

// Render draws both players' boards side by side.
func (d *Duo) Render(dst *core.Screen) {
	dst.Clear()
	p1 := d.duo.Player(1)
	b := p1.Board()
	needW, needH := DuoSize(b.Width(), b.Height())
	if dst.Width() < needW || dst.Height() < needH {
		DrawOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", needW, needH))
		return
	}

	soloW, _ := SoloSize(b.Width(), b.Height())
	fieldW, _ := FieldSize(b.Width(), b.Height())
	ox := (dst.Width() - needW) / 2
	for i := 0; i < 2; i++ {
		g := d.duo.Player(i + 1)
		x := ox + i*soloW
		dst.DrawText(x, 0, fmt.Sprintf("Player %d", i+1))
		DrawPlayfield(dst, x, 1, PlayfieldOf(g, d.effects[i], d.cfg.Rules.ShowGhost))
		px := x + fieldW + 1
		y := DrawStats(dst, px, 2, g)
		DrawPiecePreview(dst, px, y+1, "Next", g.Next(), false)
		if g.AllowHold() {
			DrawPiecePreview(dst, px, y+5, "Hold", g.Held(), g.HoldUsed())
		}
	}

	switch {
	case d.duo.Winner() != 0:
		DrawOverlay(dst, fmt.Sprintf("Player %d wins!", d.duo.Winner()), "R rematch")
	case d.duo.IsPaused():
		DrawOverlay(dst, "Paused", "P resume")
	}
}
