package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// palette maps target colors to RGB for raster snapshots.
var palette = map[Color]color.RGBA{
	ColorDefault: {R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff},
	ColorRed:     {R: 0xe0, G: 0x40, B: 0x40, A: 0xff},
	ColorGreen:   {R: 0x40, G: 0xc0, B: 0x50, A: 0xff},
	ColorYellow:  {R: 0xe0, G: 0xc0, B: 0x30, A: 0xff},
	ColorBlue:    {R: 0x40, G: 0x70, B: 0xe0, A: 0xff},
	ColorMagenta: {R: 0xc0, G: 0x50, B: 0xc0, A: 0xff},
	ColorCyan:    {R: 0x40, G: 0xc0, B: 0xc0, A: 0xff},
	ColorWhite:   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	ColorGray:    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

// WriteText writes the target as plain text.
func WriteText(w io.Writer, t *Target) error {
	_, err := io.WriteString(w, t.String()+"\n")
	return err
}

// WritePNG rasterizes the target with a fixed 7x13 bitmap font and encodes it as PNG.
func WritePNG(w io.Writer, t *Target) error {
	face := basicfont.Face7x13
	cw, ch := face.Advance, face.Height

	img := image.NewRGBA(image.Rect(0, 0, t.Width()*cw, t.Height()*ch))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: face}
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			c := t.Cell(x, y)
			if c.Rune == ' ' || c.Rune == 0 {
				continue
			}
			rgba, ok := palette[c.Color]
			if !ok {
				rgba = palette[ColorDefault]
			}
			d.Src = image.NewUniform(rgba)
			d.Dot = fixed.P(x*cw, y*ch+face.Ascent)
			d.DrawString(string(c.Rune))
		}
	}

	return png.Encode(w, img)
}

// SaveSnapshot writes <name>.txt and <name>.png into dir and returns the PNG path.
func SaveSnapshot(dir, name string, t *Target) (string, error) {
	if t == nil {
		return "", fmt.Errorf("render: no frame to save")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: cannot create directory %s: %w", dir, err)
	}

	txtPath := filepath.Join(dir, name+".txt")
	if err := writeFile(txtPath, func(w io.Writer) error { return WriteText(w, t) }); err != nil {
		return "", err
	}

	pngPath := filepath.Join(dir, name+".png")
	if err := writeFile(pngPath, func(w io.Writer) error { return WritePNG(w, t) }); err != nil {
		return "", err
	}
	return pngPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("render: cannot create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("render: cannot write %s: %w", path, err)
	}
	return f.Close()
}
