package world

// DefaultMovement is the per-turn movement budget of a freshly created unit.
const DefaultMovement = 5

// Unit is a piece standing on a tile. It is owned by the session; the
// movement engine only mutates Position and MovementRemaining.
type Unit struct {
	Position          TileKey
	Kind              string // cosmetic, e.g. "explorer"
	MovementMax       int
	MovementRemaining int
}

// NewUnit places a unit of kind on pos with a full budget of movement points.
func NewUnit(pos TileKey, kind string, movement int) *Unit {
	return &Unit{
		Position:          pos,
		Kind:              kind,
		MovementMax:       movement,
		MovementRemaining: movement,
	}
}
