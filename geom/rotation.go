package geom

// Rotation is the direction-to-rotation mapping in use (degrees, counter
// clockwise). Swap to FullRotation for 45 degree steps on diagonals.
var Rotation = CardinalRotation

// CardinalRotation rotates only for left and right facings. Up-facing
// sprites have their own frames, and diagonals keep the unrotated pose.
func CardinalRotation(d Direction) float32 {
	switch d {
	case Left:
		return 90
	case Right:
		return 270
	}
	return 0
}

// FullRotation rotates in 45 degree steps for every facing.
func FullRotation(d Direction) float32 {
	switch d {
	case DownLeft:
		return 45
	case Left:
		return 90
	case UpLeft:
		return 135
	case Up:
		return 180
	case UpRight:
		return 225
	case Right:
		return 270
	case DownRight:
		return 315
	}
	return 0
}
