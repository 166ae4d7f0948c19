package orb

import "testing"

func TestOrbCentroidsSymmetricPatch(t *testing.T) {
	// constant disk: every dx weight cancels its mirror, so both
	// moments vanish
	img := NewPaddedGray(64, 64)
	for i := range img.Pix {
		img.Pix[i] = 180
	}

	points := []uint32{EncodeKeypoint(0, 32, 32)}
	moments := OrbCentroids(img, points)

	if moments[0] != 0 || moments[4] != 0 {
		t.Errorf("constant patch: got moments (%d, %d), want (0, 0)", moments[0], moments[4])
	}
}

func TestOrbCentroidsGradientSigns(t *testing.T) {
	tests := []struct {
		name   string
		value  func(x, y int) uint8
		wantMx func(mx int32) bool
		wantMy func(my int32) bool
	}{
		{
			name:   "brighter to the right",
			value:  func(x, y int) uint8 { return uint8(4 * x) },
			wantMx: func(mx int32) bool { return mx > 0 },
			wantMy: func(my int32) bool { return my == 0 },
		},
		{
			name:   "brighter below",
			value:  func(x, y int) uint8 { return uint8(4 * y) },
			wantMx: func(mx int32) bool { return mx == 0 },
			wantMy: func(my int32) bool { return my > 0 },
		},
		{
			name:   "brighter to the left",
			value:  func(x, y int) uint8 { return uint8(255 - 4*x) },
			wantMx: func(mx int32) bool { return mx < 0 },
			wantMy: func(my int32) bool { return my == 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewPaddedGray(64, 64)
			for y := 0; y < 64; y++ {
				for x := 0; x < 64; x++ {
					img.Pix[y*img.Stride+x] = tt.value(x, y)
				}
			}
			moments := OrbCentroids(img, []uint32{EncodeKeypoint(0, 32, 32)})
			if !tt.wantMx(moments[0]) {
				t.Errorf("mx = %d fails its sign check", moments[0])
			}
			if !tt.wantMy(moments[4]) {
				t.Errorf("my = %d fails its sign check", moments[4])
			}
		})
	}
}

func TestOrbCentroidsLayout(t *testing.T) {
	img := NewPaddedGray(64, 64)
	fillRandom(img, 64, 64, 23)

	for _, n := range []int{0, 1, 3, 4, 5, 8} {
		points := make([]uint32, n)
		for i := range points {
			points[i] = EncodeKeypoint(0, uint32(20+i), 32)
		}
		moments := OrbCentroids(img, points)

		if len(moments)%8 != 0 {
			t.Errorf("n=%d: length %d not a multiple of 8", n, len(moments))
		}
		if want := (2*n + 7) &^ 7; len(moments) != want {
			t.Errorf("n=%d: length %d, want %d", n, len(moments), want)
		}

		// each point's moments must match an independent single-point run
		for i, p := range points {
			single := OrbCentroids(img, []uint32{p})
			group := i / 4 * 8
			lane := i % 4
			if moments[group+lane] != single[0] || moments[group+4+lane] != single[4] {
				t.Errorf("n=%d point %d: got (%d, %d), want (%d, %d)", n, i,
					moments[group+lane], moments[group+4+lane], single[0], single[4])
			}
		}
	}
}

func TestOrbCentroidsDiskClipping(t *testing.T) {
	// light up one pixel just inside and one just outside the disk's
	// widest column reach; only the inside one may contribute
	img := NewPaddedGray(64, 64)
	img.Pix[(32+5)*img.Stride+32-15] = 200 // dx=-15, dy=5: inside
	in := OrbCentroids(img, []uint32{EncodeKeypoint(0, 32, 32)})
	if in[0] >= 0 {
		t.Errorf("inside-disk pixel ignored: mx = %d", in[0])
	}

	img2 := NewPaddedGray(64, 64)
	img2.Pix[(32+6)*img2.Stride+32-15] = 200 // dx=-15, dy=6: clipped
	out := OrbCentroids(img2, []uint32{EncodeKeypoint(0, 32, 32)})
	if out[0] != 0 || out[4] != 0 {
		t.Errorf("outside-disk pixel counted: moments (%d, %d)", out[0], out[4])
	}
}
