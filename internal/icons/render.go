package icons

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomonobold"
)

// TileSize is the edge of a rendered fallback icon, in pixels.
const TileSize = 32

var (
	background = color.RGBA{0x2b, 0x2d, 0x31, 255}
	foreground = color.RGBA{0xe8, 0xea, 0xed, 255}
)

// Renderer draws square text tiles used when no real icon is available.
type Renderer struct {
	font *truetype.Font
	mu   sync.Mutex // freetype contexts are not safe for concurrent use
}

// NewRenderer parses the embedded monospace font.
func NewRenderer() (*Renderer, error) {
	f, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// Render draws label centred on a TileSize tile and encodes it as PNG.
// Labels longer than three characters are cut.
func (r *Renderer) Render(label string) ([]byte, error) {
	img, err := r.draw(label)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(label string) (image.Image, error) {
	runes := []rune(label)
	if len(runes) > 3 {
		runes = runes[:3]
	}

	fontSize := 16.0
	if len(runes) == 3 {
		fontSize = 12.0
	}

	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := freetype.NewContext()
	ctx.SetFont(r.font)
	ctx.SetDPI(72)
	ctx.SetFontSize(fontSize)
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(foreground))
	ctx.SetClip(img.Bounds())

	// gomono advances are 0.6em
	width := int(float64(len(runes)) * fontSize * 0.6)
	x := (TileSize - width) / 2
	y := (TileSize + int(fontSize*0.7)) / 2

	if _, err := ctx.DrawString(string(runes), freetype.Pt(x, y)); err != nil {
		return nil, fmt.Errorf("failed to draw label: %w", err)
	}
	return img, nil
}
