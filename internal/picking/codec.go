package picking

import "github.com/Garsondee/Tile-World/internal/world"

// Pixel is one RGB byte triple read back from a render target.
type Pixel [3]byte

// NoTile is the id of the cleared background. It is never assigned.
const NoTile uint32 = 0

// Codec maps tile ids to fill colours and read-back pixels to ids.
// Swapping the codec changes the id channel without touching geometry
// or movement code.
type Codec interface {
	Encode(id uint32) world.Color
	Decode(p Pixel) uint32
	// Capacity is the largest id the codec can represent.
	Capacity() uint32
}

// RGB24 packs an id into the three 8-bit colour channels.
//
// Capacity is 1<<24 - 1 tiles. Exceeding it is not checked at draw time;
// ids would alias.
type RGB24 struct{}

var _ Codec = RGB24{}

func (RGB24) Encode(id uint32) world.Color { return EncodeColor(id) }

func (RGB24) Decode(p Pixel) uint32 { return Decode(p) }

func (RGB24) Capacity() uint32 { return 1<<24 - 1 }

// EncodeColor returns the flat fill colour for id.
func EncodeColor(id uint32) world.Color {
	r := (id >> 16) & 0xFF
	g := (id >> 8) & 0xFF
	b := id & 0xFF
	return world.Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
	}
}

// Decode turns a read-back pixel into an id.
func Decode(p Pixel) uint32 {
	return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

// ToPixel quantises a normalised colour to bytes, rounding to nearest.
// Renderers use it so that EncodeColor and Decode round-trip exactly.
func ToPixel(c world.Color) Pixel {
	return Pixel{channelByte(c.R), channelByte(c.G), channelByte(c.B)}
}

func channelByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
