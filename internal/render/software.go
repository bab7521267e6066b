package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Garsondee/Tile-World/internal/picking"
	"github.com/Garsondee/Tile-World/internal/world"
)

// Software is a CPU render target for headless picking. A pixel belongs to
// a fan when its centre lies inside it. Centres exactly on an edge go to
// the fan for which that edge is a top or left edge, so tiles that share an
// edge neither overlap nor leave gaps, as on the GPU.
type Software struct {
	proj Projection
	buf  []float32
	img  *image.RGBA
}

var _ picking.Renderer = (*Software)(nil)

// NewSoftware creates a w×h target viewed through proj.
func NewSoftware(w, h int, proj Projection) *Software {
	return &Software{
		proj: proj,
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
	}
}

// Load sets the packed vertex buffer that tile ranges index into.
func (s *Software) Load(buf []float32) { s.buf = buf }

// Clear fills the target with opaque black, which decodes to no tile.
func (s *Software) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(color.RGBA{A: 0xFF}), image.Point{}, draw.Src)
}

// DrawTileRange fills one tile fan with fill.
func (s *Software) DrawTileRange(offset, count int, fill world.Color) {
	f, ok := s.proj.projectRange(s.buf, offset, count)
	if !ok {
		return
	}
	edges := fanEdges(f)
	if edges == nil {
		return
	}

	px := picking.ToPixel(fill)
	c := color.RGBA{R: px[0], G: px[1], B: px[2], A: 0xFF}
	r := fanBounds(f).Intersect(s.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		cy := float64(y) + 0.5
		for x := r.Min.X; x < r.Max.X; x++ {
			if covers(edges, float64(x)+0.5, cy) {
				s.img.SetRGBA(x, y, c)
			}
		}
	}
}

// halfPlane is one fan edge. The endpoints are stored in a canonical order
// so two fans sharing the edge compute exactly opposite values.
type halfPlane struct {
	x0, y0, x1, y1 float64
	sign           float64 // +1 when the inside is on the positive side
	topLeft        bool    // owns centres lying exactly on the edge
}

func (h halfPlane) eval(px, py float64) float64 {
	return h.sign * ((h.x1-h.x0)*(py-h.y0) - (h.y1-h.y0)*(px-h.x0))
}

// fanEdges returns the edges of a convex fan, or nil if it has no area.
func fanEdges(f fan) []halfPlane {
	n := len(f.xs)
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += float64(f.xs[i])*float64(f.ys[j]) - float64(f.xs[j])*float64(f.ys[i])
	}
	if area == 0 {
		return nil
	}
	orient := 1.0
	if area < 0 {
		orient = -1
	}

	edges := make([]halfPlane, 0, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ax, ay := float64(f.xs[i]), float64(f.ys[i])
		bx, by := float64(f.xs[j]), float64(f.ys[j])
		if ax == bx && ay == by {
			continue
		}
		// Screen y grows downward: with the inside on the positive side,
		// a top edge runs rightward and a left edge runs upward.
		dx, dy := (bx-ax)*orient, (by-ay)*orient
		h := halfPlane{sign: orient, topLeft: dy < 0 || (dy == 0 && dx > 0)}
		if bx < ax || (bx == ax && by < ay) {
			ax, ay, bx, by = bx, by, ax, ay
			h.sign = -h.sign
		}
		h.x0, h.y0, h.x1, h.y1 = ax, ay, bx, by
		edges = append(edges, h)
	}
	return edges
}

func covers(edges []halfPlane, px, py float64) bool {
	for _, h := range edges {
		e := h.eval(px, py)
		if e < 0 || (e == 0 && !h.topLeft) {
			return false
		}
	}
	return true
}

// ReadPixel returns the colour at (x, y); points outside the target read as
// background.
func (s *Software) ReadPixel(x, y int) picking.Pixel {
	if !(image.Point{X: x, Y: y}).In(s.img.Bounds()) {
		return picking.Pixel{}
	}
	c := s.img.RGBAAt(x, y)
	return picking.Pixel{c.R, c.G, c.B}
}

// Image exposes the target, e.g. for dumping a debug PNG.
func (s *Software) Image() *image.RGBA { return s.img }

func fanBounds(f fan) image.Rectangle {
	minX, minY := f.xs[0], f.ys[0]
	maxX, maxY := minX, minY
	for i := range f.xs {
		minX = min(minX, f.xs[i])
		maxX = max(maxX, f.xs[i])
		minY = min(minY, f.ys[i])
		maxY = max(maxY, f.ys[i])
	}
	return image.Rect(int(minX)-1, int(minY)-1, int(maxX)+2, int(maxY)+2)
}
