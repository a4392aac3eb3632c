package captcha

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/big"
	mrand "math/rand"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"telegram-captcha-gate/internal/domain/ports/adapter"
)

var _ adapter.CaptchaRenderer = (*ImageRenderer)(nil)

const (
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultLength = 6
	width         = 400
	height        = 120

	textX      = 50
	textY      = 35
	charStep   = 50
	jitter     = 5
	glyphScale = 4
	noiseDots  = 400
	noiseLines = 8
)

var noise = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// ImageRenderer draws the challenge as jittered upscaled bitmap glyphs over dot and line noise.
type ImageRenderer struct {
	length int
}

func NewImageRenderer(length int) *ImageRenderer {
	if length <= 0 {
		length = DefaultLength
	}
	// keep every glyph inside the canvas
	if fit := (width - textX) / charStep; length > fit {
		length = fit
	}
	return &ImageRenderer{length: length}
}

func (r *ImageRenderer) Render() (string, []byte, error) {
	text, err := randomText(r.length)
	if err != nil {
		return "", nil, fmt.Errorf("captcha text: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	x := textX
	for _, ch := range text {
		px := x + mrand.Intn(2*jitter+1) - jitter
		py := textY + mrand.Intn(2*jitter+1) - jitter
		drawGlyph(img, ch, px, py)
		x += charStep
	}

	for i := 0; i < noiseDots; i++ {
		img.Set(mrand.Intn(width), mrand.Intn(height), noise)
	}
	for i := 0; i < noiseLines; i++ {
		drawLine(img,
			float32(mrand.Intn(width+1)), float32(mrand.Intn(height+1)),
			float32(mrand.Intn(width+1)), float32(mrand.Intn(height+1)))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("captcha encode: %w", err)
	}
	return text, buf.Bytes(), nil
}

func randomText(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(Alphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = Alphabet[v.Int64()]
	}
	return string(b), nil
}

// drawGlyph renders ch with the 7x13 bitmap face and scales it onto dst at (x, y).
func drawGlyph(dst *image.RGBA, ch rune, x, y int) {
	face := basicfont.Face7x13
	glyph := image.NewRGBA(image.Rect(0, 0, face.Width+2, face.Height+1))
	d := &font.Drawer{
		Dst:  glyph,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(1, face.Ascent),
	}
	d.DrawString(string(ch))

	b := glyph.Bounds()
	target := image.Rect(x, y, x+b.Dx()*glyphScale, y+b.Dy()*glyphScale)
	draw.NearestNeighbor.Scale(dst, target, glyph, b, draw.Over, nil)
}

// drawLine rasterizes a one pixel wide segment.
func drawLine(dst *image.RGBA, x1, y1, x2, y2 float32) {
	z := vector.NewRasterizer(width, height)
	z.MoveTo(x1, y1)
	z.LineTo(x2, y2)
	z.LineTo(x2+1, y2+1)
	z.LineTo(x1+1, y1+1)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(noise), image.Point{})
}
