package orb

import (
	"math/rand"
	"slices"
	"sort"
	"testing"
)

// fillGridRandom populates every bucket with a random number of
// random sorted features, like a frame's worth of extraction.
func fillGridRandom(g *FeatureGrid, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for i := range g.Buckets {
		b := &g.Buckets[i]
		limit := len(b.Features)
		b.Count = rng.Intn(limit + 1)
		for j := 0; j < b.Count; j++ {
			b.Features[j] = rng.Uint32()
		}
		slices.Sort(b.Features[:b.Count])
	}
}

func cloneGrid(g *FeatureGrid) *FeatureGrid {
	c := *g
	c.Buckets = make([]FeatureBucket, len(g.Buckets))
	for i := range g.Buckets {
		c.Buckets[i].Features = slices.Clone(g.Buckets[i].Features)
		c.Buckets[i].Count = g.Buckets[i].Count
	}
	return &c
}

func TestNewFeatureGridDimensions(t *testing.T) {
	g := NewFeatureGrid(640, 480, 16, 4, 5)
	if g.HBuckets != 38 || g.VBuckets != 28 {
		t.Errorf("got %dx%d buckets, want 38x28", g.HBuckets, g.VBuckets)
	}
	if len(g.Buckets) != g.HBuckets*g.VBuckets {
		t.Errorf("bucket storage %d does not match %dx%d", len(g.Buckets), g.HBuckets, g.VBuckets)
	}
}

func TestGridReduce(t *testing.T) {
	const (
		bucketLimit         = 5
		maxPerFourCell      = 8
		minPerFourCell      = 4
		step                = 2
		totalDesiredFeature = 1000
	)

	g := NewFeatureGrid(640, 480, 16, 4, bucketLimit)
	fillGridRandom(g, 7)
	reference := cloneGrid(g)

	count := g.GridReduce(minPerFourCell, maxPerFourCell, step, totalDesiredFeature)

	if count != totalDesiredFeature {
		// no bucket of a complete super-cell may exceed the final quota
		for y := 0; y < g.VBuckets&^1; y++ {
			for x := 0; x < g.HBuckets&^1; x++ {
				if got := g.Row(y)[x].Count; got > minPerFourCell {
					t.Errorf("bucket (%d, %d) holds %d > %d features", x, y, got, minPerFourCell)
				}
			}
		}
	}

	referenceCount := 0
	for y := 0; y < g.VBuckets&^1; y += 2 {
		for x := 0; x < g.HBuckets&^1; x += 2 {
			var kept, original []uint32
			for _, cell := range [][2]int{{y, x}, {y + 1, x}, {y, x + 1}, {y + 1, x + 1}} {
				kb := g.Row(cell[0])[cell[1]]
				kept = append(kept, kb.Features[:kb.Count]...)
				ob := reference.Row(cell[0])[cell[1]]
				original = append(original, ob.Features[:ob.Count]...)
			}

			if len(kept) > len(original) {
				t.Fatalf("super-cell (%d, %d) grew from %d to %d", x, y, len(original), len(kept))
			}

			// the survivors must be the strongest of the originals
			sort.Slice(kept, func(i, j int) bool { return kept[i] > kept[j] })
			sort.Slice(original, func(i, j int) bool { return original[i] > original[j] })
			for i := range kept {
				if kept[i] != original[i] {
					t.Fatalf("super-cell (%d, %d): survivor %d is %#x, want %#x", x, y, i, kept[i], original[i])
				}
			}
			referenceCount += len(kept)
		}
	}

	// add the retained odd edges to the expected count
	if g.VBuckets%2 != 0 {
		for x := 0; x < g.HBuckets; x++ {
			referenceCount += g.Row(g.VBuckets - 1)[x].Count
		}
	}
	if g.HBuckets%2 != 0 {
		for y := 0; y < g.VBuckets; y++ {
			referenceCount += g.Row(y)[g.HBuckets-1].Count
		}
	}
	if g.VBuckets%2 != 0 && g.HBuckets%2 != 0 {
		referenceCount -= g.Row(g.VBuckets - 1)[g.HBuckets-1].Count
	}

	if count != referenceCount {
		t.Errorf("GridReduce returned %d, grid holds %d", count, referenceCount)
	}
}

func TestGridReduceStopsAtTarget(t *testing.T) {
	g := NewFeatureGrid(640, 480, 16, 4, 5)
	fillGridRandom(g, 11)
	total := g.Count()
	target := total - 50

	count := g.GridReduce(0, 8, 2, target)
	if count != target {
		t.Errorf("got %d, want exactly the target %d", count, target)
	}
	if got := g.Count(); got != count {
		t.Errorf("returned count %d, grid holds %d", count, got)
	}
}

func TestGridReduceKeepsOddEdges(t *testing.T) {
	// 5x3 buckets: the last bucket row and column must be untouched
	g := NewFeatureGrid(16+5*16, 16+3*16, 8, 4, 5)
	if g.HBuckets%2 == 0 || g.VBuckets%2 == 0 {
		t.Fatalf("test wants odd grid dims, got %dx%d", g.HBuckets, g.VBuckets)
	}
	fillGridRandom(g, 13)
	reference := cloneGrid(g)

	g.GridReduce(0, 2, 1, 0)

	for x := 0; x < g.HBuckets; x++ {
		if g.Row(g.VBuckets-1)[x].Count != reference.Row(g.VBuckets-1)[x].Count {
			t.Errorf("odd bucket row was reduced at column %d", x)
		}
	}
	for y := 0; y < g.VBuckets; y++ {
		if g.Row(y)[g.HBuckets-1].Count != reference.Row(y)[g.HBuckets-1].Count {
			t.Errorf("odd bucket column was reduced at row %d", y)
		}
	}
}

func TestGridInsertOwnership(t *testing.T) {
	g := NewFeatureGrid(640, 480, 16, 4, 5)
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 500; i++ {
		x := uint32(16 + rng.Intn(640-32))
		y := uint32(16 + rng.Intn(480-32))
		g.Insert(EncodeKeypoint(uint32(rng.Intn(256)), x, y))
	}

	cell := 16
	for row := 0; row < g.VBuckets; row++ {
		for col := 0; col < g.HBuckets; col++ {
			b := g.Row(row)[col]
			for i := 0; i < b.Count; i++ {
				x := int(KeypointX(b.Features[i]))
				y := int(KeypointY(b.Features[i]))
				if (x-16)/cell != col || (y-16)/cell != row {
					t.Fatalf("feature (%d, %d) stored in cell (%d, %d)", x, y, col, row)
				}
				if i > 0 && b.Features[i-1] > b.Features[i] {
					t.Fatalf("bucket (%d, %d) not ascending", col, row)
				}
			}
		}
	}
}

func TestExtractAndIndexAreaQuery(t *testing.T) {
	g := NewFeatureGrid(320, 240, 16, 4, 5)
	rng := rand.New(rand.NewSource(19))
	var inserted []uint32
	for i := 0; i < 200; i++ {
		kp := EncodeKeypoint(uint32(rng.Intn(256)),
			uint32(16+rng.Intn(320-32)), uint32(16+rng.Intn(240-32)))
		g.Insert(kp)
		inserted = append(inserted, kp)
	}

	features := g.ExtractAndIndex(nil)

	queries := []struct{ x, y, r int }{
		{160, 120, 40},
		{16, 16, 10},
		{300, 220, 60},
		{0, 0, 5},
		{160, 120, 1000},
	}
	for _, q := range queries {
		got := g.GetFeaturesInArea(q.x, q.y, q.r, nil)

		seen := make(map[int]bool)
		for _, idx := range got {
			if idx < 0 || idx >= len(features) {
				t.Fatalf("query (%d,%d,r=%d): index %d out of range", q.x, q.y, q.r, idx)
			}
			if seen[idx] {
				t.Fatalf("query (%d,%d,r=%d): duplicate index %d", q.x, q.y, q.r, idx)
			}
			seen[idx] = true
			fx := int(KeypointX(features[idx]))
			fy := int(KeypointY(features[idx]))
			if abs(fx-q.x) > q.r || abs(fy-q.y) > q.r {
				t.Fatalf("query (%d,%d,r=%d): feature (%d,%d) outside area", q.x, q.y, q.r, fx, fy)
			}
		}

		// no qualifying feature may be omitted
		want := 0
		for _, f := range features {
			if abs(int(KeypointX(f))-q.x) <= q.r && abs(int(KeypointY(f))-q.y) <= q.r {
				want++
			}
		}
		if len(got) != want {
			t.Errorf("query (%d,%d,r=%d): got %d indices, want %d", q.x, q.y, q.r, len(got), want)
		}
	}
}

func TestGridReset(t *testing.T) {
	g := NewFeatureGrid(320, 240, 16, 4, 5)
	g.Insert(EncodeKeypoint(10, 100, 100))
	g.Reset()
	if got := g.Count(); got != 0 {
		t.Errorf("count after reset: got %d, want 0", got)
	}
}
