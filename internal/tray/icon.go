package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// IconStyle describes the tray icon: one capital letter on a solid square.
type IconStyle struct {
	Letter   string
	BgColor  string
	FgColor  string
	Size     int
	FontSize float64
}

// DefaultIconStyle is a white "T" on Tarkov olive.
func DefaultIconStyle() IconStyle {
	return IconStyle{
		Letter:   "T",
		BgColor:  "#4B5320",
		FgColor:  "#FFFFFF",
		Size:     64,
		FontSize: 48,
	}
}

// RenderIcon draws the icon and returns PNG bytes.
func RenderIcon(style IconStyle) ([]byte, error) {
	if style.Size <= 0 {
		return nil, fmt.Errorf("icon size must be positive, got %d", style.Size)
	}
	letter := strings.ToUpper(strings.TrimSpace(style.Letter))
	if letter == "" {
		return nil, fmt.Errorf("icon letter is empty")
	}
	letter = letter[:1]

	bg, err := ParseHexColor(style.BgColor)
	if err != nil {
		return nil, fmt.Errorf("parse bg color: %w", err)
	}
	fg, err := ParseHexColor(style.FgColor)
	if err != nil {
		return nil, fmt.Errorf("parse fg color: %w", err)
	}

	otf, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    style.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, letter)
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()
	originX := (style.Size-glyphW)/2 - bounds.Min.X.Floor()
	originY := (style.Size-glyphH)/2 - bounds.Min.Y.Floor()

	img := image.NewNRGBA(image.Rect(0, 0, style.Size, style.Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(originX, originY),
	}
	d.DrawString(letter)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses a "#RRGGBB" string.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// ///////////////////////////////////////////////
// ICO container
// ///////////////////////////////////////////////

// WrapICO re-encodes a PNG image as a single-entry ICO, the only format
// Windows accepts for tray icons.
func WrapICO(pngData []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode ico: %w", err)
	}
	return buf.Bytes(), nil
}
