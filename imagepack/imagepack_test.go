package imagepack

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestSheetPackCompositesDecodedImage(t *testing.T) {
	sheet, err := NewSheet(64, 64)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}

	data := encodePNG(t, 8, 8, color.RGBA{R: 255, A: 255})
	alloc, err := sheet.Pack(bytes.NewReader(data), 8, 8)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	got := sheet.Image().RGBAAt(alloc.Rectangle.Min.X, alloc.Rectangle.Min.Y)
	if got.R != 255 || got.A != 255 {
		t.Fatalf("composited pixel = %+v, want opaque red", got)
	}
}

func TestSheetPackRejectsOversizedCell(t *testing.T) {
	sheet, err := NewSheet(16, 16)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	data := encodePNG(t, 4, 4, color.RGBA{G: 255, A: 255})
	if _, err := sheet.Pack(bytes.NewReader(data), 32, 32); err == nil {
		t.Fatal("expected error packing a cell larger than the sheet")
	}
}

func TestSheetReleaseFreesSpaceForReuse(t *testing.T) {
	sheet, err := NewSheet(16, 16)
	if err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	data := encodePNG(t, 16, 16, color.RGBA{B: 255, A: 255})

	alloc, err := sheet.Pack(bytes.NewReader(data), 16, 16)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if _, err := sheet.Pack(bytes.NewReader(data), 16, 16); err == nil {
		t.Fatal("expected the sheet to be full before release")
	}
	if err := sheet.Release(alloc.ID); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := sheet.Pack(bytes.NewReader(data), 16, 16); err != nil {
		t.Fatalf("Pack after Release: %v", err)
	}
}
