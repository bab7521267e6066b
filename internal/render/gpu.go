package render

import (
	"image"
	"image/color"

	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/world"
	"github.com/hajimehoshi/ebiten/v2"
)

// GPU draws tile fans with ebiten. Its id pass renders into a private
// offscreen image so it never shows up in the visible frame.
type GPU struct {
	proj   Projection
	buf    []float32
	target *ebiten.Image
	white  *ebiten.Image
	verts  []ebiten.Vertex
}

var _ picking.Renderer = (*GPU)(nil)

// NewGPU allocates a w×h offscreen id target. ReadPixel only works once
// the game loop is running.
func NewGPU(w, h int, proj Projection) *GPU {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &GPU{
		proj:   proj,
		target: ebiten.NewImage(w, h),
		white:  white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Load sets the packed vertex buffer that tile ranges index into.
func (g *GPU) Load(buf []float32) { g.buf = buf }

// Projection returns the view used for both passes.
func (g *GPU) Projection() Projection { return g.proj }

// Clear fills the id target with opaque black.
func (g *GPU) Clear() {
	g.target.Fill(color.RGBA{A: 0xFF})
}

// DrawTileRange writes fill over the fan with blending and antialiasing off.
func (g *GPU) DrawTileRange(offset, count int, fill world.Color) {
	g.drawFan(g.target, offset, count, fill, 1, ebiten.BlendCopy)
}

// ReadPixel reads one pixel of the id target.
func (g *GPU) ReadPixel(x, y int) picking.Pixel {
	c := color.RGBAModel.Convert(g.target.At(x, y)).(color.RGBA)
	return picking.Pixel{c.R, c.G, c.B}
}

// FillTile draws a tile onto a visible image with normal alpha blending.
func (g *GPU) FillTile(dst *ebiten.Image, offset, count int, c world.Color, alpha float32) {
	g.drawFan(dst, offset, count, c, alpha, ebiten.BlendSourceOver)
}

func (g *GPU) drawFan(dst *ebiten.Image, offset, count int, c world.Color, alpha float32, blend ebiten.Blend) {
	f, ok := g.proj.projectRange(g.buf, offset, count)
	if !ok {
		return
	}
	g.verts = g.verts[:0]
	for i := range f.xs {
		g.verts = append(g.verts, ebiten.Vertex{
			DstX:   f.xs[i],
			DstY:   f.ys[i],
			SrcX:   1,
			SrcY:   1,
			ColorR: c.R,
			ColorG: c.G,
			ColorB: c.B,
			ColorA: alpha,
		})
	}
	dst.DrawTriangles(g.verts, fanIndices(len(f.xs)), g.white, &ebiten.DrawTrianglesOptions{
		Blend:     blend,
		AntiAlias: false,
	})
}
