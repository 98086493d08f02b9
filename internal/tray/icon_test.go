package tray

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	ico "github.com/sergeymakinen/go-ico"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#4B5320", color.NRGBA{0x4B, 0x53, 0x20, 0xFF}, false},
		{"ffffff", color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, false},
		{"#000", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderIcon(t *testing.T) {
	style := DefaultIconStyle()
	data, err := RenderIcon(style)
	if err != nil {
		t.Fatalf("RenderIcon: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != style.Size || b.Dy() != style.Size {
		t.Errorf("size = %dx%d, want %d", b.Dx(), b.Dy(), style.Size)
	}

	bg, _ := ParseHexColor(style.BgColor)
	if got := color.NRGBAModel.Convert(img.At(0, 0)); got != bg {
		t.Errorf("corner pixel = %v, want background %v", got, bg)
	}

	// The glyph must put foreground ink somewhere on the canvas.
	fg, _ := ParseHexColor(style.FgColor)
	found := false
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) == fg {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no foreground pixels drawn")
	}
}

func TestRenderIcon_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IconStyle)
	}{
		{"zero size", func(s *IconStyle) { s.Size = 0 }},
		{"empty letter", func(s *IconStyle) { s.Letter = " " }},
		{"bad bg", func(s *IconStyle) { s.BgColor = "nope" }},
		{"bad fg", func(s *IconStyle) { s.FgColor = "#12345" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultIconStyle()
			tt.mutate(&s)
			if _, err := RenderIcon(s); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWrapICO(t *testing.T) {
	style := DefaultIconStyle()
	pngData, err := RenderIcon(style)
	if err != nil {
		t.Fatalf("RenderIcon: %v", err)
	}
	data, err := WrapICO(pngData)
	if err != nil {
		t.Fatalf("WrapICO: %v", err)
	}

	// ICONDIR: reserved 0, type 1 (icon), one image.
	if !bytes.Equal(data[:6], []byte{0, 0, 1, 0, 1, 0}) {
		t.Errorf("ICONDIR = % x", data[:6])
	}

	img, err := ico.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode ICO: %v", err)
	}
	if got := img.Bounds().Dx(); got != style.Size {
		t.Errorf("width = %d, want %d", got, style.Size)
	}
	bg, _ := ParseHexColor(style.BgColor)
	r, g, b, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != bg.R || uint8(g>>8) != bg.G || uint8(b>>8) != bg.B {
		t.Errorf("corner = %v, want background %v", img.At(0, 0), bg)
	}
}

func TestWrapICO_TooLarge(t *testing.T) {
	style := DefaultIconStyle()
	style.Size = 300
	pngData, err := RenderIcon(style)
	if err != nil {
		t.Fatalf("RenderIcon: %v", err)
	}
	if _, err := WrapICO(pngData); err == nil {
		t.Error("expected error for a 300px icon")
	}
}

func TestWrapICO_NotPNG(t *testing.T) {
	if _, err := WrapICO([]byte("not a png")); err == nil {
		t.Error("expected error")
	}
}
