package planner

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultThumbnailSize is the edge length of texture thumbnails in pixels
const DefaultThumbnailSize = 96

// captionHeight is the strip reserved under the thumbnail for its label
const captionHeight = 16

// RenderThumbnail decodes a texture asset, scales it to a size×size square and
// writes it as PNG with an optional caption strip.
func RenderThumbnail(w io.Writer, a *Asset, size int, caption string) error {
	if a == nil || a.Kind != AssetTexture {
		return fmt.Errorf("thumbnail: asset is not a texture")
	}
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	src, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", a.URL, err)
	}

	height := size
	if caption != "" {
		height += captionHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, size, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(img, image.Rect(0, 0, size, size), src, src.Bounds(), draw.Over, nil)

	if caption != "" {
		drawCaption(img, 3, size+12, caption, color.RGBA{0, 0, 0, 255})
	}
	return png.Encode(w, img)
}

func drawCaption(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
