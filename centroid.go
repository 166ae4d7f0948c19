package orb

import "image"

// centroidReach[dx+15] is how far the moment disk extends above and
// below the keypoint row at column offset dx. The disk is the 31x31
// patch clipped to a radius-15 circle, stored as per-column row
// limits so the accumulation loop never tests a circle equation.
var centroidReach = [31]int{
	5, 7, 9, 10, 11, 12, 13, 13, 14, 14,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	14, 14, 13, 13, 12, 11, 10, 9, 7, 5,
}

// OrbCentroids computes the intensity-weighted first moments
//
//	mx = sum over the disk of dx * I[y+dy][x+dx]
//	my = sum over the disk of dy * I[y+dy][x+dx]
//
// for each keypoint, with y growing downward. The moments are emitted
// interleaved in groups of eight words, four x moments followed by
// their four y moments, and the result length is rounded up to a
// multiple of eight with zero fill. That layout feeds Atan2Bins four
// pairs at a time.
//
// Every keypoint must have at least 15 pixels of margin on all sides.
func OrbCentroids(img *image.Gray, points []uint32) []int32 {
	pix := img.Pix
	stride := img.Stride

	centroids := make([]int32, (2*len(points)+7)&^7)

	out := 0
	for _, p := range points {
		x := int(KeypointX(p))
		y := int(KeypointY(p))
		base := y*stride + x

		var mx, my int32
		for dx := -15; dx <= 15; dx++ {
			reach := centroidReach[dx+15]
			idx := base + dx - reach*stride
			for dy := -reach; dy <= reach; dy++ {
				v := int32(pix[idx])
				mx += int32(dx) * v
				my += int32(dy) * v
				idx += stride
			}
		}

		centroids[out] = mx
		centroids[out+4] = my
		out++
		if out%4 == 0 {
			out += 4
		}
	}
	return centroids
}
