// Package orb implements a pure Go ORB feature-detection and
// description pipeline for real-time visual SLAM on small devices.
//
// Given a precomputed pyramid of single-channel 8-bit images, the
// package detects FAST-9 corners, scores them with a Harris response
// compressed to an 8-bit mini-float, suppresses non-maximal responses
// with optional spatial quota enforcement, computes per-keypoint
// orientation from an intensity centroid, and emits rotated
// BRIEF-style 256-bit binary descriptors.
//
// The usual per-level flow:
//
//	orb.FastDetect(w, h, border, threshold, img, marks)
//	orb.FastScoreHarris(w, h, border, harrisThreshold, img, marks)
//	points = orb.FastExtract(w, h, border, marks, points)
//	descriptors, err = orb.OrbCompute(img, 8, points, descriptors)
//
// Keypoints travel as packed 32-bit words (see EncodeKeypoint) so a
// full frame of features fits in a few kilobytes. Supporting kernels
// for pyramid construction are included: an in-place 5x5 Gaussian
// blur and bilinear 7/8 and 13/16 downscalers, all exact on byte
// rasters.
//
// All kernels are deterministic, allocation-light, and run to
// completion on the calling thread; buffers are caller-owned and
// borrowed for the duration of a call.
package orb
