package orb

import "image"

// The downscalers are dense separable resamplers with fixed per-phase
// tap tables scaled to 256. Each pair of taps for one output sample is
// applied horizontally first, producing intermediate rows, then
// vertically, with a round-half-up at each of the two stages. They may
// run in place: an output block always lands above and left of the
// input block it was computed from, and strictly before that input is
// re-read.

// bilinearTaps7 holds the first tap of each 7/8 output phase; the
// second tap is the mirrored entry, taps7[6-k].
var bilinearTaps7 = [7]uint32{238, 201, 165, 128, 91, 55, 18}

// bilinearTaps13 holds the first tap of each 13/16 output phase; the
// second tap is taps13[12-k]. The table is kept exactly as tabulated
// in the fixed-point pipeline, including the 246 sums at phases 2 and
// 10, so outputs stay bit-identical across ports.
var bilinearTaps13 = [13]uint32{226, 167, 108, 49, 246, 187, 128, 69, 10, 207, 138, 89, 30}

// srcIndex13 maps a 13/16 output phase to its source index within a
// 16-sample block; source samples 4 and 10 begin no output.
func srcIndex13(k int) int {
	if k > 3 {
		k++
	}
	if k > 9 {
		k++
	}
	return k
}

// rshr8 is a round-half-up shift by the 8 fractional tap bits.
func rshr8(v uint32) uint32 {
	return (v + 128) >> 8
}

// Bilinear7_8 reduces an image to 7/8 size with bilinear
// interpolation, 7 output rows and columns from every 8 input rows and
// columns. Output dimensions round down: a 40x32 image scales to
// 35x28. The raster must be padded to a multiple of 8 in both
// dimensions; img and out may be the same raster, in which case
// scaling is done in place.
func Bilinear7_8(width, height int, img, out *image.Gray) {
	src := img.Pix
	sstride := img.Stride
	dst := out.Pix
	dstride := out.Stride

	for i, oi := 0, 0; i < height; i, oi = i+8, oi+7 {
		for j, oj := 0, 0; j < width; j, oj = j+8, oj+7 {
			for y := range 7 {
				r0 := src[(i+y)*sstride+j:]
				r1 := src[(i+y+1)*sstride+j:]
				orow := dst[(oi+y)*dstride+oj:]
				wy0 := bilinearTaps7[y]
				wy1 := bilinearTaps7[6-y]
				for x := range 7 {
					wx0 := bilinearTaps7[x]
					wx1 := bilinearTaps7[6-x]

					h0 := rshr8(uint32(r0[x])*wx0 + uint32(r0[x+1])*wx1)
					h1 := rshr8(uint32(r1[x])*wx0 + uint32(r1[x+1])*wx1)

					orow[x] = uint8(rshr8(h0*wy0 + h1*wy1))
				}
			}
		}
	}
}

// Bilinear13_16 reduces an image to 13/16 size with bilinear
// interpolation, 13 output rows and columns from every 16 input rows
// and columns. Output dimensions round down: a 48x32 image scales to
// 39x26. The raster must be padded to a multiple of 16 in both
// dimensions; img and out may be the same raster, in which case
// scaling is done in place.
func Bilinear13_16(width, height int, img, out *image.Gray) {
	src := img.Pix
	sstride := img.Stride
	dst := out.Pix
	dstride := out.Stride

	for i, oi := 0, 0; i < height; i, oi = i+16, oi+13 {
		for j, oj := 0, 0; j < width; j, oj = j+16, oj+13 {
			for y := range 13 {
				sy := i + srcIndex13(y)
				r0 := src[sy*sstride+j:]
				r1 := src[(sy+1)*sstride+j:]
				orow := dst[(oi+y)*dstride+oj:]
				wy0 := bilinearTaps13[y]
				wy1 := bilinearTaps13[12-y]
				for x := range 13 {
					sx := srcIndex13(x)
					wx0 := bilinearTaps13[x]
					wx1 := bilinearTaps13[12-x]

					h0 := rshr8(uint32(r0[sx])*wx0 + uint32(r0[sx+1])*wx1)
					h1 := rshr8(uint32(r1[sx])*wx0 + uint32(r1[sx+1])*wx1)

					orow[x] = uint8(rshr8(h0*wy0 + h1*wy1))
				}
			}
		}
	}
}
