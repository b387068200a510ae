package html2book

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// maxCoverSide caps the embedded cover. 3508px is A4's long side at 300dpi;
// larger sources are downscaled since the image is stretched to the page anyway.
const maxCoverSide = 3508

// coverImage is a cover decoded to packed 8-bit RGB rows.
type coverImage struct {
	Width  int
	Height int
	RGB    []byte
}

// decodeCover decodes a PNG (or JPEG) and flattens any transparency onto
// white: PDF image XObjects without an SMask are opaque.
func decodeCover(data []byte) (*coverImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverDecode, err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: image has no pixels", ErrCoverDecode)
	}
	if b.Dx() > maxCoverSide || b.Dy() > maxCoverSide {
		img = imaging.Fit(img, maxCoverSide, maxCoverSide, imaging.Lanczos)
		b = img.Bounds()
	}

	w, h := b.Dx(), b.Dy()
	flat := imaging.Overlay(imaging.New(w, h, color.White), img, image.Pt(0, 0), 1.0)

	rgb := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := flat.Pix[y*flat.Stride : y*flat.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			rgb = append(rgb, row[x], row[x+1], row[x+2])
		}
	}
	return &coverImage{Width: w, Height: h, RGB: rgb}, nil
}
