package orb

import "image"

// ringOffsets lists the 16 pixels of the Bresenham radius-3 circle in
// clockwise order starting above and left of center. Mask bit i
// corresponds to ringOffsets[15-i], so a contiguous arc of the circle
// is a contiguous run of mask bits.
var ringOffsets = [16][2]int{
	{-3, -1}, {-3, 0}, {-3, 1}, {-2, 2},
	{-1, 3}, {0, 3}, {1, 3}, {2, 2},
	{3, 1}, {3, 0}, {3, -1}, {2, -2},
	{1, -3}, {0, -3}, {-1, -3}, {-2, -2},
}

// ringRun9 reports whether the 16-bit ring mask contains a run of at
// least 9 set bits under cyclic wrap. Doubling the mask turns the
// cyclic test into a linear one; folding shifted copies narrows "run
// of 9 starting at i" down to a single bit per position.
func ringRun9(m uint32) bool {
	d := m | m<<16
	r := d & (d >> 1)
	r &= r >> 2
	r &= r >> 4
	r &= d >> 8
	return r&0xffff != 0
}

// FastDetect classifies every pixel of the bounded region as a FAST-9
// corner or not, writing 0xff or 0x00 to the marks raster. Marks
// outside the region are left untouched, except that when width is not
// a multiple of 16 the two bytes at marks[y][width] and
// marks[y][width+1] are zeroed so the extractor always sees a clean
// right edge; the marks raster must be addressable there.
//
// marks should be zero-initialized if non-max suppression is to be
// used, but can safely be reused without reinitializing as long as the
// region stays unchanged. FAST samples 3 pixels around the classified
// region, so border must be at least 3; use at least 4 if scoring with
// Harris and at least 15 if describing with ORB.
//
// Running time is independent of image contents.
func FastDetect(width, height, border int, threshold uint8, img, marks *image.Gray) {
	pix := img.Pix
	stride := img.Stride
	out := marks.Pix
	ostride := marks.Stride

	for y := border; y < height-border; y++ {
		orow := out[y*ostride:]
		for x := border; x < width-border; x++ {
			c := int(pix[y*stride+x])

			// A dark bound below 0 or a light bound above 255 admits no
			// ring pixel, so that polarity cannot fire.
			dark := c - int(threshold)
			light := c + int(threshold)

			var d, l uint32
			for _, o := range ringOffsets {
				p := int(pix[(y+o[0])*stride+x+o[1]])
				d <<= 1
				l <<= 1
				if p <= dark {
					d |= 1
				}
				if p >= light {
					l |= 1
				}
			}

			if ringRun9(d) || ringRun9(l) {
				orow[x] = 0xff
			} else {
				orow[x] = 0
			}
		}
		// The caller is promised two zeros at the right edge even
		// when a vectorized classifier runs past it.
		if width%16 != 0 {
			orow[width] = 0
			orow[width+1] = 0
		}
	}
}

// FastScoreHarris replaces non-zero marks, presumably detected points
// of interest, with their 8-bit Harris score. Zero marks remain zero.
//
// Running time is proportional to the number of non-zero marks.
func FastScoreHarris(width, height, border int, threshold int32, img, marks *image.Gray) {
	out := marks.Pix
	ostride := marks.Stride

	for y := border; y < height-border; y++ {
		for x := border; x < width-border; x++ {
			if out[y*ostride+x] == 0 {
				continue
			}
			out[y*ostride+x] = HarrisScore(img, x, y, threshold)
		}
	}
}

// nmsCandidate evaluates the suppression window whose four interior
// cells have their top-left corner at (x, y) and returns the one
// surviving encoded keypoint, or 0 if every candidate is suppressed.
//
// The window is 4x4: one row above, the 2x2 interior, one row below.
// At most one interior cell survives: candidates are compared strictly
// against each other and with an exact >=/> split against the twelve
// outer neighbors, keeping the test deterministic regardless of visit
// order. The split must not be altered; extraction results are
// bit-compared across implementations.
func nmsCandidate(pix []uint8, stride, x, y int) uint32 {
	i1 := y*stride + x - 1
	i2 := i1 + stride
	v0 := pix[i1+1]
	v1 := pix[i1+2]
	v2 := pix[i2+1]
	v3 := pix[i2+2]

	if v0|v1|v2|v3 == 0 {
		return 0
	}

	i0 := i1 - stride
	i3 := i2 + stride

	switch {
	case v0 > v1 && v0 > v2 && v0 > v3:
		if v0 >= pix[i0] && v0 >= pix[i1] && v0 > pix[i2] &&
			v0 >= pix[i0+1] && v0 >= pix[i0+2] {
			return EncodeKeypoint(uint32(v0), uint32(x), uint32(y))
		}
	case v1 > v2 && v1 > v3:
		if v1 >= pix[i0+1] && v1 >= pix[i0+2] && v1 >= pix[i0+3] &&
			v1 > pix[i1+3] && v1 > pix[i2+3] {
			return EncodeKeypoint(uint32(v1), uint32(x+1), uint32(y))
		}
	case v2 > v3:
		if v2 >= pix[i1] && v2 >= pix[i2] && v2 > pix[i3] &&
			v2 > pix[i3+1] && v2 > pix[i3+2] {
			return EncodeKeypoint(uint32(v2), uint32(x), uint32(y+1))
		}
	default:
		if v3 > pix[i3+1] && v3 > pix[i3+2] && v3 >= pix[i1+3] &&
			v3 > pix[i2+3] && v3 > pix[i3+3] {
			return EncodeKeypoint(uint32(v3), uint32(x+1), uint32(y+1))
		}
	}
	return 0
}

// FastExtract walks the marks raster in 2x2 steps, suppresses
// non-maximal marks, and appends the survivors to results as encoded
// keypoints in row-major encounter order.
func FastExtract(width, height, border int, marks *image.Gray, results []uint32) []uint32 {
	pix := marks.Pix
	stride := marks.Stride

	for y := border; y < height-border; y += 2 {
		for x := border; x < width-border; x += 2 {
			if kp := nmsCandidate(pix, stride, x, y); kp != 0 {
				results = append(results, kp)
			}
		}
	}
	return results
}

// FastExtractBuckets extracts like FastExtract but additionally
// suppresses weak features within small regions of the image: the
// region is cut into horizontal stripes 1<<logBucketSize rows tall, each
// stripe into buckets 1<<logBucketSize columns wide, and only the
// bucketLimit strongest features of each bucket are kept. For example,
// logBucketSize = 4 and bucketLimit = 5 keeps at most 5 features per
// 16x16 region.
//
// At each stripe boundary the completed stripe's buckets are appended
// to results in column order, weakest first within a bucket.
//
// logBucketSize = 0 disables region suppression entirely.
func FastExtractBuckets(width, height, border, logBucketSize, bucketLimit int, marks *image.Gray, results []uint32) []uint32 {
	if logBucketSize == 0 {
		return FastExtract(width, height, border, marks, results)
	}

	bucketSize := 1 << logBucketSize
	numBuckets := (width-2*border-1)/bucketSize + 1
	buckets := make([]FeatureBucket, numBuckets)
	for i := range buckets {
		buckets[i].Features = make([]uint32, bucketLimit)
	}

	pix := marks.Pix
	stride := marks.Stride

	flush := func() {
		for b := range buckets {
			results = append(results, buckets[b].Features[:buckets[b].Count]...)
			buckets[b].Count = 0
		}
	}

	for y := border; y < height-border; y += 2 {
		if (y-border)%bucketSize == 0 && y != border {
			flush()
		}
		for x := border; x < width-border; x += 2 {
			if kp := nmsCandidate(pix, stride, x, y); kp != 0 {
				buckets[(x-border)/bucketSize].Insert(kp)
			}
		}
	}
	flush()

	return results
}

// FastBucket extracts into a FeatureGrid instead of a flat list,
// retaining the grid structure for later reduction and area queries.
// The grid must have been created for the same width, height, and
// border, and is reset before filling.
func FastBucket(width, height, border int, marks *image.Gray, grid *FeatureGrid) {
	grid.Reset()

	pix := marks.Pix
	stride := marks.Stride

	for y := border; y < height-border; y += 2 {
		for x := border; x < width-border; x += 2 {
			if kp := nmsCandidate(pix, stride, x, y); kp != 0 {
				grid.Insert(kp)
			}
		}
	}
}
