package orb

import "math"

// Orientation is quantized to 30 bins of 12 degrees each. The core of
// the approximation works in 3-degree units (a quarter bin), [0..15)
// over the first octant, scaled by 256:
//
//	atan z ~= z * (pi/4 + 0.273 * (1 - z))  for z in [0..1)
//
// refined with a second-order term and with the constants pre-scaled
// by 60/pi and 256 so quadrant folding is pure integer work. The
// average error is 0.054 degrees, misclassifying about 1 pair in 273
// near a bin edge.
const (
	atan2C0 = 256 * 14.999998
	atan2C1 = 256 * 4.723436
	atan2C2 = 256 * 1.266240
)

// Atan2Bins converts interleaved moment pairs, as produced by
// OrbCentroids, into orientation bins in [0, 30). Zero-fill lanes in
// the input produce bins as well; callers index the result by
// keypoint position and ignore the tail.
func Atan2Bins(moments []int32) []uint8 {
	angles := make([]uint8, 0, len(moments)/2)
	for base := 0; base+8 <= len(moments); base += 8 {
		for i := range 4 {
			angles = append(angles, atan2Bin(moments[base+i], moments[base+4+i]))
		}
	}
	return angles
}

func atan2Bin(x, y int32) uint8 {
	if x == 0 && y == 0 {
		return 0
	}

	xf := float32(x)
	yf := float32(y)
	if xf < 0 {
		xf = -xf
	}
	if yf < 0 {
		yf = -yf
	}
	zmin, zmax := xf, yf
	if zmin > zmax {
		zmin, zmax = zmax, zmin
	}

	z := zmin / zmax
	anglef := z * (atan2C0 - (z-1)*(atan2C1+atan2C2*z))

	// truncating conversion; NaN converts to zero like the hardware
	// path would
	var angle int32
	if !math.IsNaN(float64(anglef)) {
		angle = int32(anglef)
	}

	if abs32(x) > abs32(y) {
		if x^y < 0 { // signs differ
			angle = -angle
		}
		if x < 0 {
			angle += 256 * 60
		} else if angle < 0 {
			angle += 256 * 120
		}
	} else {
		if x^y >= 0 { // signs same
			angle = -angle
		}
		if y >= 0 {
			angle += 256 * 30
		} else {
			angle += 256 * 90
		}
	}

	// scale back into [0..30)
	angle >>= 10
	if angle < 0 || angle >= 30 {
		angle = 0
	}
	return uint8(angle)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
