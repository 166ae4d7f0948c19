package orb

import "image"

// rhadd is the rounding halving add (a + b + 1) >> 1, the only
// arithmetic primitive the blur is built from.
func rhadd(a, b uint8) uint8 {
	return uint8((uint32(a) + uint32(b) + 1) >> 1)
}

// Gaussian5x5 convolves a single-channel image with the separable
// kernel 1/16 * [1 4 6 4 1] in both axes, in place. Borders reflect
// the interior without repeating the edge sample. The image may be of
// any dimension greater than 16x16.
//
// For pixel values [a b c d e] the convolution at c is
//
//	1/16 * [1*(a+e) + 4*(b+d) + 6*c]
//
// which rewrites as a chain of rounding halving adds:
//
//	a+e                     short delta: the (b+d) part
//	--- + c
//	 2                      long delta:  the (a+e)+c+c part
//	------- + c
//	   2          b+d
//	----------- + ---
//	     2         2
//	-----------------
//	        2
//
// Every output byte is produced by exactly that chain, so two
// conformant implementations agree bit for bit. Each pass keeps its
// five-sample window in locals, which is what makes the in-place
// update safe: a row is overwritten only after every window that
// needs its original value has latched it.
func Gaussian5x5(width, height int, img *image.Gray) {
	pix := img.Pix
	stride := img.Stride

	// vertical pass
	for j := 0; j < width; j++ {
		a := pix[2*stride+j]
		b := pix[1*stride+j]
		c := pix[j]
		d := pix[1*stride+j]
		for i := 0; i < height; i++ {
			var e uint8
			switch i {
			case height - 2:
				e = c
			case height - 1:
				e = a
			default:
				e = pix[(i+2)*stride+j]
			}

			long := rhadd(a, e)
			short := rhadd(b, d)
			long = rhadd(long, c)
			long = rhadd(long, c)

			pix[i*stride+j] = rhadd(long, short)

			a, b, c, d = b, c, d, e
		}
	}

	// horizontal pass
	for i := 0; i < height; i++ {
		row := pix[i*stride:]
		a := row[2]
		b := row[1]
		c := row[0]
		d := row[1]
		for j := 0; j < width; j++ {
			var e uint8
			switch j {
			case width - 2:
				e = c
			case width - 1:
				e = a
			default:
				e = row[j+2]
			}

			long := rhadd(a, e)
			short := rhadd(b, d)
			long = rhadd(long, c)
			long = rhadd(long, c)

			row[j] = rhadd(long, short)

			a, b, c, d = b, c, d, e
		}
	}
}
