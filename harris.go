package orb

import (
	"image"
	"math"
)

// HarrisScore computes a Harris corner response at (x, y) using a 3x3
// Sobel operator over a 6x6 window, quantized to an 8-bit mini-float
// with 5 exponent and 3 fraction bits. Higher score means a stronger
// corner response. Scores at or below threshold return 0.
//
// The point must have at least 4 pixels of margin on every side.
//
// The gradients are built from halving adds and subtracts so every
// intermediate fits a signed byte, matching the fixed-point pipeline
// used on the scoring path: a half-difference across two pixels,
// then two halving adds to apply the (1, 2, 1) smoothing.
func HarrisScore(img *image.Gray, x, y int, threshold int32) uint8 {
	pix := img.Pix
	stride := img.Stride
	base := (y-3)*stride + x - 3

	// 8x8 patch rows centered on (x, y); the outer two rows and
	// columns only supply gradient context for the inner 6x6.
	var rows [8][]uint8
	for n := range 8 {
		rows[n] = pix[base+n*stride : base+n*stride+8]
	}

	// dy[n][i] is the vertical Sobel response centered at row n+1,
	// column i+1: half-differences down each column smoothed with
	// (1, 2, 1)/4 across columns, all in floor-halving arithmetic.
	var dy [6][6]int32
	for n := range 6 {
		var d [8]int32
		for i := range 8 {
			d[i] = (int32(rows[n+2][i]) - int32(rows[n][i])) >> 1
		}
		for i := range 6 {
			t := (d[i] + d[i+2]) >> 1
			dy[n][i] = (d[i+1] + t) >> 1
		}
	}

	// dx mirrors dy with the roles of rows and columns swapped:
	// half-differences across columns, (1, 2, 1)/4 down rows.
	var hd [8][6]int32
	for n := range 8 {
		for i := range 6 {
			hd[n][i] = (int32(rows[n][i+2]) - int32(rows[n][i])) >> 1
		}
	}
	var dx [6][6]int32
	for n := range 6 {
		for i := range 6 {
			t := (hd[n][i] + hd[n+2][i]) >> 1
			dx[n][i] = (hd[n+1][i] + t) >> 1
		}
	}

	// Ixx and Iyy accumulate as unsigned so the -128*-128 + -128*-128
	// = 0x8000 lane pattern cannot overflow a signed accumulator. Ixy
	// cannot reach that configuration: two adjacent -128 gradients
	// would require alternating 0x00/0xff rows, which the smoothing
	// step has already averaged away.
	var xx, yy uint32
	var xy int32
	for n := range 6 {
		for i := range 6 {
			gx := dx[n][i]
			gy := dy[n][i]
			xx += uint32(gx * gx)
			yy += uint32(gy * gy)
			xy += gx * gy
		}
	}

	// Scoring requires (Ixx + Iyy)^2 < 2^32. Shifting off 4 bits
	// assures this.
	xx >>= 4
	yy >>= 4
	xy >>= 4

	return harrisEval(xx, yy, xy, threshold)
}

// harrisEval folds the structure tensor into det - trace^2/16 (k =
// 1/16) and compresses the response to a mini-float. It requires
// (Ixx+Iyy)^2 < 2^32.
func harrisEval(ixx, iyy uint32, ixy, threshold int32) uint8 {
	trace := ixx + iyy
	trace2 := (trace * trace) >> 4

	// determinant of the autocorrelation matrix is positive
	det := int32(ixx*iyy) - ixy*ixy

	// det < 2^30, trace2 < 2^28, so the subtraction stays in range
	score := det - int32(trace2)
	if threshold < score {
		// IEEE single precision is encoded as
		// [sign (1 bit)][exponent (8 bits)][fraction (23 bits)].
		// Keeping 5 exponent bits and 3 fraction bits yields a
		// monotone 8-bit log-like score.
		logscore := math.Float32bits(float32(score))
		return uint8(logscore >> 20)
	}
	return 0
}
