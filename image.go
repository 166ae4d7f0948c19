// Copyright 2025 go-orb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orb

import "image"

// The kernels in this package address a raster as rows of a fixed
// stride: row y starts at Pix[y*Stride]. Width and height are passed
// per call so the same allocation can back every pyramid level. The
// FAST right-edge guarantee and the block-structured downscalers
// require a little slack past the logical width, which NewPaddedGray
// provides.

// NewPaddedGray allocates a grayscale raster whose stride and row
// count are rounded up to a multiple of 16, with at least two spare
// bytes past the logical width. The logical bounds stay (0,0)-(w,h).
func NewPaddedGray(width, height int) *image.Gray {
	stride := (width + 2 + 15) &^ 15
	rows := (height + 15) &^ 15
	return &image.Gray{
		Pix:    make([]uint8, stride*rows),
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// grayFromRows copies a 2D slice into a freshly padded raster.
// The returned image shares no data with the input; it's a copy.
func grayFromRows(rows [][]uint8) *image.Gray {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	height := len(rows)
	width := len(rows[0])

	img := NewPaddedGray(width, height)
	for y := range height {
		copy(img.Pix[y*img.Stride:], rows[y])
	}
	return img
}

// rowsFromGray copies the logical region of a raster back to a 2D
// slice. The returned slices share no data with the image.
func rowsFromGray(img *image.Gray) [][]uint8 {
	if img == nil {
		return nil
	}
	width := img.Rect.Dx()
	height := img.Rect.Dy()

	rows := make([][]uint8, height)
	for y := range height {
		rows[y] = make([]uint8, width)
		copy(rows[y], img.Pix[y*img.Stride:y*img.Stride+width])
	}
	return rows
}

// copyGray copies the overlapping region of src into dst, row by row.
func copyGray(dst, src *image.Gray, width, height int) {
	for y := range height {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+width], src.Pix[y*src.Stride:y*src.Stride+width])
	}
}
