package render

import (
	"math"

	"github.com/Garsondee/Tile-World/internal/world"
)

// Projection is a fixed orthographic view of the planet: rotate by Yaw about
// the vertical axis, then Pitch about the horizontal axis, scale and centre.
// Screen y grows downward; depth grows toward the viewer.
type Projection struct {
	Scale    float32
	CenterX  float32
	CenterY  float32
	Yaw      float64 // degrees
	Pitch    float64 // degrees
	CullBack bool    // skip fans whose centroid faces away from the viewer
}

// Project maps a world point to screen coordinates and view depth.
func (p Projection) Project(v world.Vec3) (x, y, depth float32) {
	yaw := p.Yaw * math.Pi / 180
	pitch := p.Pitch * math.Pi / 180
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)

	vx, vy, vz := float64(v.X), float64(v.Y), float64(v.Z)
	// yaw about Y
	rx := vx*cy + vz*sy
	rz := -vx*sy + vz*cy
	// pitch about X
	ry := vy*cp - rz*sp
	rz = vy*sp + rz*cp

	x = p.CenterX + float32(rx)*p.Scale
	y = p.CenterY - float32(ry)*p.Scale
	return x, y, float32(rz)
}

// CenteredOn returns p shifted so that v lands in the middle of a w×h frame.
func (p Projection) CenteredOn(v world.Vec3, w, h int) Projection {
	p.CenterX, p.CenterY = 0, 0
	x, y, _ := p.Project(v)
	p.CenterX = float32(w)/2 - x
	p.CenterY = float32(h)/2 - y
	return p
}

// fan is one tile range projected to screen space.
type fan struct {
	xs, ys []float32
	depth  float32 // mean depth of the fan's vertices
}

// projectRange projects count vertices of buf starting at vertex offset.
// It returns false for ranges outside buf or culled by the projection.
func (p Projection) projectRange(buf []float32, offset, count int) (fan, bool) {
	if offset < 0 || count < 3 || (offset+count)*3 > len(buf) {
		return fan{}, false
	}
	f := fan{xs: make([]float32, count), ys: make([]float32, count)}
	var depth float32
	for i := 0; i < count; i++ {
		j := (offset + i) * 3
		x, y, d := p.Project(world.Vec3{X: buf[j], Y: buf[j+1], Z: buf[j+2]})
		f.xs[i], f.ys[i] = x, y
		depth += d
	}
	f.depth = depth / float32(count)
	if p.CullBack && f.depth < 0 {
		return fan{}, false
	}
	return f, true
}

// fanIndices returns triangle indices (0,i,i+1) for a fan of n vertices.
func fanIndices(n int) []uint16 {
	if n < 3 {
		return nil
	}
	idx := make([]uint16, 0, (n-2)*3)
	for i := 1; i+1 < n; i++ {
		idx = append(idx, 0, uint16(i), uint16(i+1))
	}
	return idx
}
