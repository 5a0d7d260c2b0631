package components

// PositionComponent is an entity's world position in pixels.
type PositionComponent struct {
	X, Y float64
}
