package orb

import (
	"errors"
	"testing"
)

func TestOrbComputeLengths(t *testing.T) {
	img := NewPaddedGray(96, 96)
	fillRandom(img, 96, 96, 43)

	points := []uint32{
		EncodeKeypoint(50, 20, 20),
		EncodeKeypoint(60, 40, 40),
		EncodeKeypoint(70, 70, 70),
	}

	for _, words := range []int{1, 4, 8} {
		descriptors, err := OrbCompute(img, words, points, nil)
		if err != nil {
			t.Fatalf("words=%d: %v", words, err)
		}
		if len(descriptors) != len(points)*words {
			t.Errorf("words=%d: got %d words, want %d", words, len(descriptors), len(points)*words)
		}
	}
}

func TestOrbComputeInvalidWords(t *testing.T) {
	img := NewPaddedGray(64, 64)
	for _, words := range []int{0, -1, 9} {
		if _, err := OrbCompute(img, words, nil, nil); !errors.Is(err, ErrInvalidWords) {
			t.Errorf("words=%d: got %v, want ErrInvalidWords", words, err)
		}
	}
}

func TestOrbComputeEmptyPoints(t *testing.T) {
	img := NewPaddedGray(64, 64)
	descriptors, err := OrbCompute(img, 8, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(descriptors) != 0 {
		t.Errorf("no keypoints produced %d descriptor words", len(descriptors))
	}
}

func TestOrbComputeAppends(t *testing.T) {
	img := NewPaddedGray(64, 64)
	fillRandom(img, 64, 64, 47)

	points := []uint32{EncodeKeypoint(50, 32, 32)}
	seed := []uint32{0x12345678}
	descriptors, err := OrbCompute(img, 2, points, seed)
	if err != nil {
		t.Fatal(err)
	}
	if len(descriptors) != 3 || descriptors[0] != 0x12345678 {
		t.Errorf("compute did not append: got %#x", descriptors)
	}
}

func TestOrbComputeUsesOrientation(t *testing.T) {
	// OrbCompute must agree with running the centroid, binning, and
	// describe stages by hand
	img := NewPaddedGray(64, 64)
	fillRandom(img, 64, 64, 53)

	points := []uint32{EncodeKeypoint(50, 32, 32)}
	bins := OrbOrientations(img, points)
	if bins[0] >= 30 {
		t.Fatalf("orientation bin %d out of range", bins[0])
	}

	var manual [8]uint32
	BriefDescribe(img, 32, 32, int(bins[0]), manual[:])

	descriptors, err := OrbCompute(img, 8, points, nil)
	if err != nil {
		t.Fatal(err)
	}
	for w := range manual {
		if descriptors[w] != manual[w] {
			t.Errorf("word %d: OrbCompute %#x, manual pipeline %#x", w, descriptors[w], manual[w])
		}
	}
}

func TestDetectAndCompute(t *testing.T) {
	const w, h = 128, 128
	img := NewPaddedGray(w, h)
	fillRandom(img, w, h, 59)
	marks := NewPaddedGray(w, h)

	cfg := DefaultConfig()
	points, descriptors, err := DetectAndCompute(w, h, 16, cfg, img, marks, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) == 0 {
		t.Fatal("random image produced no features")
	}
	if len(descriptors) != len(points)*cfg.Words {
		t.Errorf("got %d descriptor words for %d points", len(descriptors), len(points))
	}
	for _, p := range points {
		x := int(KeypointX(p))
		y := int(KeypointY(p))
		if x < 16 || x >= w-16 || y < 16 || y >= h-16 {
			t.Errorf("keypoint (%d, %d) outside the bounded region", x, y)
		}
		if KeypointScore(p) == 0 {
			t.Errorf("keypoint (%d, %d) with zero score survived extraction", x, y)
		}
	}
}
