package systems

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/particlefx/pkg/particles"
)

// densityRamp maps accumulated coverage to glyphs, sparse to dense.
var densityRamp = []rune{'.', ':', '+', '*', '#', '@'}

type cellAccum struct {
	r, g, b float64
	alpha   float64
}

// TerminalRenderSystem draws particle batches onto a tcell screen.
// Each quad contributes its color, weighted by alpha, to the cell under its
// center; Flush turns the accumulated coverage into glyphs.
type TerminalRenderSystem struct {
	screen tcell.Screen

	// World units per terminal cell.
	CellWidth, CellHeight float64

	originX, originY float64
	width, height    int
	cells            []cellAccum
}

// NewTerminalRenderSystem creates a renderer for screen. A cell covers
// cellWidth x cellHeight world units.
func NewTerminalRenderSystem(screen tcell.Screen, cellWidth, cellHeight float64) *TerminalRenderSystem {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &TerminalRenderSystem{
		screen:     screen,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}
}

// Begin resets the accumulation grid. (originX, originY) is the world
// position of the top-left cell.
func (t *TerminalRenderSystem) Begin(originX, originY float64) {
	t.originX = originX
	t.originY = originY
	t.width, t.height = t.screen.Size()

	n := t.width * t.height
	if cap(t.cells) < n {
		t.cells = make([]cellAccum, n)
	}
	t.cells = t.cells[:n]
	for i := range t.cells {
		t.cells[i] = cellAccum{}
	}
}

// DrawParticles implements particles.Renderer. Batches that only write the
// stencil produce no color and are skipped.
func (t *TerminalRenderSystem) DrawParticles(batch *particles.DrawBatch) {
	if batch.Stencil.Modify && !batch.Stencil.Use {
		return
	}

	tx := float64(batch.Translate.X())
	ty := float64(batch.Translate.Y())

	for q := 0; q+3 < batch.VertexCount; q += 4 {
		var cx, cy float64
		for c := 0; c < 4; c++ {
			cx += float64(batch.Vertices[q+c].X())
			cy += float64(batch.Vertices[q+c].Y())
		}
		cx = cx/4 + tx
		cy = cy/4 + ty

		col := batch.Colors[q]
		t.accumulate(cx, cy, float64(col.X()), float64(col.Y()), float64(col.Z()), float64(col.W()))
	}
}

func (t *TerminalRenderSystem) accumulate(x, y, r, g, b, a float64) {
	if a <= 0 {
		return
	}
	col := int(math.Floor((x - t.originX) / t.CellWidth))
	row := int(math.Floor((y - t.originY) / t.CellHeight))
	if col < 0 || row < 0 || col >= t.width || row >= t.height {
		return
	}

	cell := &t.cells[row*t.width+col]
	cell.r += r * a
	cell.g += g * a
	cell.b += b * a
	cell.alpha += a
}

// Flush writes the accumulated cells to the screen and shows it.
func (t *TerminalRenderSystem) Flush() {
	t.Render()
	t.screen.Show()
}

// Render writes the accumulated cells to the screen without showing it, so
// callers can draw an overlay on top.
func (t *TerminalRenderSystem) Render() {
	t.screen.Clear()
	for row := 0; row < t.height; row++ {
		for col := 0; col < t.width; col++ {
			cell := t.cells[row*t.width+col]
			if cell.alpha <= 0 {
				continue
			}
			glyph, style := cellGlyph(cell)
			t.screen.SetContent(col, row, glyph, nil, style)
		}
	}
}

// cellGlyph picks the glyph from coverage and the color from the
// alpha-weighted average.
func cellGlyph(cell cellAccum) (rune, tcell.Style) {
	level := int(cell.alpha * float64(len(densityRamp)-1) / 2)
	if level >= len(densityRamp) {
		level = len(densityRamp) - 1
	}

	r := channel(cell.r / cell.alpha)
	g := channel(cell.g / cell.alpha)
	b := channel(cell.b / cell.alpha)
	return densityRamp[level], tcell.StyleDefault.Foreground(tcell.NewRGBColor(r, g, b))
}

func channel(v float64) int32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int32(math.Round(v * 255))
}
