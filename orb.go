package orb

import "image"

// OrbCompute derives an orientation for each keypoint from its
// intensity centroid and appends a rotated BRIEF descriptor of `words`
// 32-bit words per keypoint (up to 8, for a 256-bit descriptor) to
// descriptors. Keypoints must have at least 15 pixels of margin on
// all sides; words outside 1..8 return ErrInvalidWords.
//
// Descriptors are emitted in keypoint order, so descriptors[i*words]
// through descriptors[(i+1)*words-1] belong to points[i] counting from
// the call's starting length.
func OrbCompute(img *image.Gray, words int, points []uint32, descriptors []uint32) ([]uint32, error) {
	if words < 1 || words > 8 {
		return descriptors, ErrInvalidWords
	}

	centroids := OrbCentroids(img, points)
	angles := Atan2Bins(centroids)

	start := len(descriptors)
	descriptors = append(descriptors, make([]uint32, len(points)*words)...)
	out := descriptors[start:]

	for i, p := range points {
		x := int(KeypointX(p))
		y := int(KeypointY(p))
		BriefDescribe(img, x, y, int(angles[i]), out[i*words:(i+1)*words])
	}
	return descriptors, nil
}

// OrbOrientations computes just the orientation bins for a set of
// keypoints, for callers that overlay the bin onto the encoded word
// with EncodeOriented instead of describing immediately.
func OrbOrientations(img *image.Gray, points []uint32) []uint8 {
	return Atan2Bins(OrbCentroids(img, points))
}

// DetectAndCompute runs the whole per-level pipeline: detect FAST
// corners, score them with Harris, extract with non-max suppression
// and optional region suppression, and describe the survivors.
// Keypoints are appended to points and their descriptors, words words
// each, to descriptors.
//
// marks must be a raster of the same shape as img; its bounded region
// is overwritten.
func DetectAndCompute(width, height, border int, cfg *PipelineConfig, img, marks *image.Gray, points []uint32, descriptors []uint32) ([]uint32, []uint32, error) {
	FastDetect(width, height, border, cfg.Threshold, img, marks)
	FastScoreHarris(width, height, border, cfg.HarrisThreshold, img, marks)

	start := len(points)
	points = FastExtractBuckets(width, height, border, cfg.LogBucketSize, cfg.BucketLimit, marks, points)

	descriptors, err := OrbCompute(img, cfg.Words, points[start:], descriptors)
	return points, descriptors, err
}

// PipelineConfig carries the tuning knobs for DetectAndCompute.
type PipelineConfig struct {
	// Threshold is the FAST intensity threshold.
	Threshold uint8
	// HarrisThreshold is the raw Harris response floor; responses at
	// or below it score 0.
	HarrisThreshold int32
	// LogBucketSize and BucketLimit configure region suppression
	// during extraction; LogBucketSize 0 disables it.
	LogBucketSize int
	BucketLimit   int
	// Words is the descriptor length in 32-bit words, 1..8.
	Words int
}

// DefaultConfig mirrors the parameters the reference demo uses for a
// VGA pyramid: FAST threshold 20, Harris floor 1<<15, no region
// suppression, full 256-bit descriptors.
func DefaultConfig() *PipelineConfig {
	return &PipelineConfig{
		Threshold:       20,
		HarrisThreshold: 1 << 15,
		LogBucketSize:   0,
		BucketLimit:     5,
		Words:           8,
	}
}
