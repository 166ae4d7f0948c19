package orb

// Encoded keypoint word layout:
//
//	bits  0..11  y coordinate (0..4095)
//	bits 12..23  x coordinate (0..4095)
//	bits 24..31  8-bit score, or (octave:3, orientation:5) once oriented
//
// Because the score occupies the high byte, comparing two score-encoded
// words as plain uint32 compares by score first, which is what the
// extraction buckets rely on. The octave/orientation overlay replaces
// the score and is never mixed with it in the same word.

// EncodeKeypoint packs a score and pixel coordinates into a keypoint word.
func EncodeKeypoint(score, x, y uint32) uint32 {
	return score<<24 | x<<12 | y
}

// ReencodeKeypointScore replaces the high byte of an encoded keypoint,
// leaving the coordinates untouched.
func ReencodeKeypointScore(score, encoded uint32) uint32 {
	return score<<24 | encoded&0xffffff
}

// KeypointX returns the x coordinate of an encoded keypoint.
func KeypointX(encoded uint32) uint32 {
	return encoded >> 12 & 0xfff
}

// KeypointY returns the y coordinate of an encoded keypoint.
func KeypointY(encoded uint32) uint32 {
	return encoded & 0xfff
}

// KeypointScore returns the high byte of an encoded keypoint.
func KeypointScore(encoded uint32) uint32 {
	return encoded >> 24
}

// EncodeOriented overlays a pyramid octave (0..7) and orientation bin
// (0..29) onto the high byte of an encoded keypoint.
func EncodeOriented(octave, orientation, encoded uint32) uint32 {
	return octave<<29 | orientation<<24 | encoded&0xffffff
}

// OrientedOctave returns the pyramid octave of an oriented keypoint.
func OrientedOctave(encoded uint32) uint32 {
	return encoded >> 29
}

// OrientedBin returns the orientation bin of an oriented keypoint.
func OrientedBin(encoded uint32) uint32 {
	return encoded >> 24 & 0x1f
}

// ScaleKeypoint multiplies both coordinates by scale/65536, rounding
// toward zero. The high byte passes through unchanged. Coordinates are
// below 0x1000 and pyramid scale factors below 0x10, which leaves
// 0x10000 of headroom for the fixed-point product.
func ScaleKeypoint(encoded, scale uint32) uint32 {
	x := (scale * KeypointX(encoded)) >> 16
	y := (scale * KeypointY(encoded)) >> 16
	return encoded&0xff000000 | x<<12 | y
}
