package orb

import (
	"image"
	"math"
)

// Pyramid is a sequence of progressively downscaled images sharing a
// common coordinate origin. Levels alternate 7/8 and 13/16 bilinear
// reductions, so two consecutive levels shrink by 91/128, close to
// the 25/36 of a classic two-level 5/6 pyramid. Each level is blurred
// before reduction.
//
// The pyramid owns its level rasters; the level-0 raster is a padded
// copy of the input, so callers keep ownership of their image.
type Pyramid struct {
	Levels  []*image.Gray
	Widths  []int
	Heights []int
	// Scales[i] maps level-i coordinates back to level 0 as a Q16.16
	// factor suitable for ScaleKeypoint.
	Scales []uint32
}

// BuildPyramid copies img into level 0 and derives depth-1 reduced
// levels. Depth must be at least 1, and the image must be large
// enough that every level stays above the blur's 16-pixel minimum.
func BuildPyramid(img *image.Gray, depth int) (*Pyramid, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if depth < 1 || depth > 8 {
		return nil, ErrInvalidPyramidDepth
	}

	width := img.Rect.Dx()
	height := img.Rect.Dy()
	if minLevelDim(width, height, depth) <= 16 {
		return nil, ErrImageTooSmall
	}

	p := &Pyramid{
		Levels:  make([]*image.Gray, depth),
		Widths:  make([]int, depth),
		Heights: make([]int, depth),
		Scales:  make([]uint32, depth),
	}

	level0 := NewPaddedGray(width, height)
	copyGray(level0, img, width, height)
	p.Levels[0] = level0
	p.Widths[0] = width
	p.Heights[0] = height
	p.Scales[0] = 1 << 16

	scale := 1.0
	for i := 1; i < depth; i++ {
		w, h := p.Widths[i-1], p.Heights[i-1]

		// blur a scratch copy so the stored level stays sharp
		scratch := NewPaddedGray(w, h)
		copyGray(scratch, p.Levels[i-1], w, h)
		Gaussian5x5(w, h, scratch)

		var nw, nh int
		if i%2 == 1 {
			nw, nh = w*7/8, h*7/8
			scale *= 8.0 / 7.0
		} else {
			nw, nh = w*13/16, h*13/16
			scale *= 16.0 / 13.0
		}

		dst := NewPaddedGray(nw, nh)
		if i%2 == 1 {
			Bilinear7_8(w, h, scratch, dst)
		} else {
			Bilinear13_16(w, h, scratch, dst)
		}

		p.Levels[i] = dst
		p.Widths[i] = nw
		p.Heights[i] = nh
		p.Scales[i] = uint32(math.Round(scale * 65536))
	}
	return p, nil
}

// minLevelDim returns the smaller dimension of the deepest level.
func minLevelDim(width, height, depth int) int {
	w, h := width, height
	for i := 1; i < depth; i++ {
		if i%2 == 1 {
			w, h = w*7/8, h*7/8
		} else {
			w, h = w*13/16, h*13/16
		}
	}
	return min(w, h)
}
