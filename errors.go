package orb

import "errors"

var (
	ErrNilImage            = errors.New("orb: nil image")
	ErrImageTooSmall       = errors.New("orb: image too small")
	ErrInvalidWords        = errors.New("orb: descriptor word count out of range")
	ErrDescriptorLength    = errors.New("orb: descriptor stream length not a multiple of word count")
	ErrInvalidPyramidDepth = errors.New("orb: pyramid depth out of range")
)
