package orb

// FeatureBucket is a fixed-capacity set of encoded keypoints kept in
// ascending order, so Features[0] is always the weakest retained
// feature. Capacity is len(Features); Count tracks how many slots are
// in use.
type FeatureBucket struct {
	Features []uint32
	Count    int
}

// Insert adds an encoded keypoint, keeping the bucket sorted. When the
// bucket is full the weakest feature is dropped, or the new one is
// discarded if it is weakest of all.
func (b *FeatureBucket) Insert(kp uint32) {
	limit := len(b.Features)
	switch {
	case b.Count == 0:
		b.Features[0] = kp
		b.Count = 1
	case b.Count < limit:
		// forward insertion
		i := b.Count - 1
		for ; i >= 0 && kp < b.Features[i]; i-- {
			b.Features[i+1] = b.Features[i]
		}
		b.Features[i+1] = kp
		b.Count++
	case kp > b.Features[0]:
		// backwards insertion if we are full but kp is stronger
		i := 1
		for ; i < limit && kp > b.Features[i]; i++ {
			b.Features[i-1] = b.Features[i]
		}
		b.Features[i-1] = kp
	}
}

// dropWeakest removes Features[0], shifting the rest down.
func (b *FeatureBucket) dropWeakest() {
	copy(b.Features, b.Features[1:b.Count])
	b.Count--
}

// FeatureGrid buckets extracted keypoints over a coarse grid so
// feature density can be equalized across the image and neighborhood
// queries answered without scanning every feature. Cell (i, j) covers
// image rows [border + i<<logBucketSize, border + (i+1)<<logBucketSize)
// and the equivalent column range.
//
// The grid owns its bucket storage and is reused across frames by
// Reset (or by FastBucket, which resets before filling).
type FeatureGrid struct {
	HBuckets      int
	VBuckets      int
	Border        int
	LogBucketSize int
	Buckets       []FeatureBucket

	// set by ExtractAndIndex: global index of each bucket's first
	// feature within the extracted sequence
	offsets []int
}

// NewFeatureGrid creates a grid sized for a width x height raster with
// the given border, cell size 1<<logBucketSize, and per-bucket
// capacity bucketLimit.
func NewFeatureGrid(width, height, border, logBucketSize, bucketLimit int) *FeatureGrid {
	bucketSize := 1 << logBucketSize
	g := &FeatureGrid{
		HBuckets:      (width-2*border-1)/bucketSize + 1,
		VBuckets:      (height-2*border-1)/bucketSize + 1,
		Border:        border,
		LogBucketSize: logBucketSize,
	}
	g.Buckets = make([]FeatureBucket, g.HBuckets*g.VBuckets)
	for i := range g.Buckets {
		g.Buckets[i].Features = make([]uint32, bucketLimit)
	}
	return g
}

// Row returns the row of buckets at grid row y.
func (g *FeatureGrid) Row(y int) []FeatureBucket {
	return g.Buckets[y*g.HBuckets : (y+1)*g.HBuckets]
}

// Reset empties every bucket and forgets any extraction index.
func (g *FeatureGrid) Reset() {
	for i := range g.Buckets {
		g.Buckets[i].Count = 0
	}
	g.offsets = nil
}

// Count returns the number of features currently stored.
func (g *FeatureGrid) Count() int {
	n := 0
	for i := range g.Buckets {
		n += g.Buckets[i].Count
	}
	return n
}

// Insert files an encoded keypoint into its owning bucket.
func (g *FeatureGrid) Insert(kp uint32) {
	row := (int(KeypointY(kp)) - g.Border) >> g.LogBucketSize
	col := (int(KeypointX(kp)) - g.Border) >> g.LogBucketSize
	g.Buckets[row*g.HBuckets+col].Insert(kp)
}

// GridReduce trims the weakest features from every 2x2 super-cell
// until either the total feature count drops to targetTotal, or every
// super-cell holds at most minPerFourCell features. The per-super-cell
// quota counts down from maxPerFourCell to minPerFourCell in steps of
// step, so reduction pressure is applied evenly across the image
// rather than draining one region first. An odd trailing row or
// column of buckets is excluded and always retained; features near
// the image edge are valuable under perspective change.
//
// Returns the final feature count, including the retained edges.
func (g *FeatureGrid) GridReduce(minPerFourCell, maxPerFourCell, step, targetTotal int) int {
	count := g.Count()

	evenV := g.VBuckets &^ 1
	evenH := g.HBuckets &^ 1

	for n := maxPerFourCell; n >= minPerFourCell; n -= step {
		if count <= targetTotal {
			return count
		}
		for y := 0; y < evenV; y += 2 {
			for x := 0; x < evenH; x += 2 {
				// Enumeration order fixes how ties between equal
				// weakest features break.
				quad := [4]*FeatureBucket{
					&g.Row(y)[x],
					&g.Row(y + 1)[x],
					&g.Row(y)[x+1],
					&g.Row(y + 1)[x+1],
				}
				c := quad[0].Count + quad[1].Count + quad[2].Count + quad[3].Count
				for c > n && count > targetTotal {
					weakest := -1
					var low uint32
					for i, b := range quad {
						if b.Count > 0 && (weakest < 0 || b.Features[0] < low) {
							weakest = i
							low = b.Features[0]
						}
					}
					quad[weakest].dropWeakest()
					c--
					count--
				}
			}
		}
	}
	return count
}

// ExtractAndIndex appends every stored feature to results in
// bucket-row, bucket-column, within-bucket order, and records each
// bucket's starting offset so GetFeaturesInArea can return indices
// into the extracted sequence.
func (g *FeatureGrid) ExtractAndIndex(results []uint32) []uint32 {
	g.offsets = make([]int, len(g.Buckets))
	idx := len(results)
	for i := range g.Buckets {
		g.offsets[i] = idx
		results = append(results, g.Buckets[i].Features[:g.Buckets[i].Count]...)
		idx += g.Buckets[i].Count
	}
	return results
}

// GetFeaturesInArea appends the index of every stored feature within
// the square |fx - x| <= r, |fy - y| <= r to indices. Indices refer to
// the sequence built by ExtractAndIndex, which must have been called
// since the grid last changed.
func (g *FeatureGrid) GetFeaturesInArea(x, y, r int, indices []int) []int {
	minCol := (x - r - g.Border) >> g.LogBucketSize
	maxCol := (x + r - g.Border) >> g.LogBucketSize
	minRow := (y - r - g.Border) >> g.LogBucketSize
	maxRow := (y + r - g.Border) >> g.LogBucketSize

	minCol = max(minCol, 0)
	minRow = max(minRow, 0)
	maxCol = min(maxCol, g.HBuckets-1)
	maxRow = min(maxRow, g.VBuckets-1)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			b := row*g.HBuckets + col
			bucket := &g.Buckets[b]
			for i := 0; i < bucket.Count; i++ {
				fx := int(KeypointX(bucket.Features[i]))
				fy := int(KeypointY(bucket.Features[i]))
				if abs(fx-x) <= r && abs(fy-y) <= r {
					indices = append(indices, g.offsets[b]+i)
				}
			}
		}
	}
	return indices
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
