// Command orbdemo runs the ORB pipeline over an image pyramid and
// writes the input back out with every detected feature marked.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	orb "github.com/ajroetker/go-orb"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	source    = flag.String("in", "", "source image (any format imaging can decode)")
	dest      = flag.String("out", "out.png", "annotated output image")
	depth     = flag.Int("levels", 4, "pyramid depth (1..8)")
	threshold = flag.Int("threshold", 20, "FAST intensity threshold")
	harris    = flag.Int("harris", 1<<15, "Harris response floor")
	words     = flag.Int("words", 8, "descriptor length in 32-bit words (1..8)")
	label     = flag.Bool("label", true, "draw the feature count onto the output")
)

// border leaves room for FAST's ring, the Harris window, and the ORB
// patch at every level.
const border = 16

func main() {
	flag.Parse()
	if *source == "" {
		flag.Usage()
		log.Fatal("orbdemo: -in is required")
	}

	src, err := imaging.Open(*source)
	if err != nil {
		log.Fatalf("orbdemo: open %s: %v", *source, err)
	}

	gray := toGray(src)
	pyramid, err := orb.BuildPyramid(gray, *depth)
	if err != nil {
		log.Fatalf("orbdemo: build pyramid: %v", err)
	}

	cfg := orb.DefaultConfig()
	cfg.Threshold = uint8(*threshold)
	cfg.HarrisThreshold = int32(*harris)
	cfg.Words = *words

	var points []uint32
	var descriptors []uint32
	for level := range pyramid.Levels {
		w, h := pyramid.Widths[level], pyramid.Heights[level]
		marks := orb.NewPaddedGray(w, h)

		start := len(points)
		points, descriptors, err = orb.DetectAndCompute(w, h, border, cfg,
			pyramid.Levels[level], marks, points, descriptors)
		if err != nil {
			log.Fatalf("orbdemo: level %d: %v", level, err)
		}

		// map level coordinates back to the base image and stamp the
		// octave into the high byte
		for i := start; i < len(points); i++ {
			scaled := orb.ScaleKeypoint(points[i], pyramid.Scales[level])
			points[i] = orb.EncodeOriented(uint32(level), 0, scaled)
		}
	}

	for _, p := range points {
		paintPoint(gray, int(orb.KeypointX(p)), int(orb.KeypointY(p)))
	}
	if *label {
		drawLabel(gray, fmt.Sprintf("%d features", len(points)))
	}

	if err := imaging.Save(gray, *dest); err != nil {
		log.Fatalf("orbdemo: save %s: %v", *dest, err)
	}
	log.Printf("%d features, %d descriptor words", len(points), len(descriptors))
}

// toGray flattens any decoded image to an 8-bit grayscale raster with
// the padding the kernels expect.
func toGray(src image.Image) *image.Gray {
	flat := imaging.Grayscale(src)
	b := flat.Bounds()
	gray := orb.NewPaddedGray(b.Dx(), b.Dy())
	for y := range b.Dy() {
		row := flat.Pix[y*flat.Stride:]
		out := gray.Pix[y*gray.Stride:]
		for x := range b.Dx() {
			out[x] = row[4*x]
		}
	}
	return gray
}

// paintPoint draws the reference cross marker: two-pixel ticks above,
// below, left, and right of the feature.
func paintPoint(img *image.Gray, x, y int) {
	b := img.Rect
	set := func(px, py int) {
		if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
			img.Pix[py*img.Stride+px] = 0
		}
	}
	set(x, y-5)
	set(x, y-4)
	set(x, y+4)
	set(x, y+5)
	set(x-5, y)
	set(x-4, y)
	set(x+4, y)
	set(x+5, y)
}

// drawLabel stamps text into the top-left corner.
func drawLabel(img *image.Gray, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 16),
	}
	d.DrawString(text)
}
