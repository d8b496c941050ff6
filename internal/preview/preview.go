// Package preview renders generated chunks for inspection: plain text for terminals and
// PNG images drawn with a fixed-width bitmap font.
package preview

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mini-realm/internal/grid"
	"mini-realm/internal/world"
)

var face = basicfont.Face7x13

// CellSize is the pixel size of one tile at scale 1.
func CellSize() (int, int) { return face.Advance, face.Height }

// Stitch copies every tracked chunk into one grid addressed by world coordinates.
// Chunks missing from a rectangular window are left as default tiles.
func Stitch(m *world.RegionMaps) *grid.Grid[world.Tile] {
	regions := m.Regions()
	if len(regions) == 0 {
		return grid.WithDimensions[world.Tile](0, 0)
	}
	w, h := m.ChunkSize()
	lo, hi := regions[0], regions[0]
	for _, r := range regions[1:] {
		lo.X, lo.Y = min(lo.X, r.X), min(lo.Y, r.Y)
		hi.X, hi.Y = max(hi.X, r.X), max(hi.Y, r.Y)
	}
	bounds := grid.Rect{
		TL: lo.Origin(w, h),
		BR: hi.Origin(w, h).Add(grid.Pos(w-1, h-1)),
	}
	out := grid.WithBounds[world.Tile](bounds)
	out.Fill(world.DefaultTile())
	for _, r := range regions {
		// PasteInto consumes its source, so hand it a copy.
		if _, err := out.PasteInto(r.Origin(w, h), m.Get(r).Tiles().Clone()); err != nil {
			panic(fmt.Sprintf("stitch %v: %v", r, err))
		}
	}
	return out
}

// ASCII writes one line of glyphs per grid row.
func ASCII(w io.Writer, g *grid.Grid[world.Tile]) error {
	bw := bufio.NewWriter(w)
	for row := range g.Bounds().Rows() {
		for _, p := range row {
			t, _ := g.Get(p)
			if _, err := bw.WriteRune(t.Glyph); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Render draws each tile as its glyph in the foreground colour over a cell filled with
// the background colour. Scale multiplies the cell size with nearest-neighbour sampling.
func Render(g *grid.Grid[world.Tile], scale int) *image.RGBA {
	cw, ch := CellSize()
	b := g.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, g.Width()*cw, g.Height()*ch))

	d := &font.Drawer{Dst: img, Face: face}
	for p, t := range g.All() {
		x, y := (p.X-b.TL.X)*cw, (p.Y-b.TL.Y)*ch
		cell := image.Rect(x, y, x+cw, y+ch)
		draw.Draw(img, cell, image.NewUniform(toRGBA(t.Bg)), image.Point{}, draw.Src)
		if t.Glyph == ' ' || t.Glyph == 0 {
			continue
		}
		d.Src = image.NewUniform(toRGBA(t.Fg))
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(t.Glyph))
	}

	if scale <= 1 {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx()*scale, img.Bounds().Dy()*scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled
}

// WritePNG renders g and saves it to path.
func WritePNG(path string, g *grid.Grid[world.Tile], scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create preview: %w", err)
	}
	if err := png.Encode(f, Render(g, scale)); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not encode preview: %w", err)
	}
	return f.Close()
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	ch := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: 0xff}
}
