package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(width, height)); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(width, height), nil); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestSniffMIMEType(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		expected  string
		expectErr bool
	}{
		{
			name:     "png",
			data:     []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
			expected: MimePNG,
		},
		{
			name:     "jpeg",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00},
			expected: MimeJPEG,
		},
		{
			name:      "gif is rejected",
			data:      []byte("GIF89a"),
			expectErr: true,
		},
		{
			name:      "plain text is rejected",
			data:      []byte("not an image"),
			expectErr: true,
		},
		{
			name:      "empty data is rejected",
			data:      nil,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, err := SniffMIMEType(tt.data)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mimeType != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, mimeType)
			}
		})
	}
}

func TestPrepare_KeepsSmallImagesUntouched(t *testing.T) {
	data := encodePNG(t, 10, 20)

	prepared, err := NewPreparer(100).Prepare(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared.MIMEType != MimePNG {
		t.Errorf("expected %q, got %q", MimePNG, prepared.MIMEType)
	}
	if !bytes.Equal(prepared.Data, data) {
		t.Error("expected original bytes for an image within bounds")
	}
	if prepared.Width != 10 || prepared.Height != 20 {
		t.Errorf("expected 10x20, got %dx%d", prepared.Width, prepared.Height)
	}
}

func TestPrepare_ZeroMaxDimensionDisablesScaling(t *testing.T) {
	data := encodePNG(t, 120, 80)

	prepared, err := NewPreparer(0).Prepare(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(prepared.Data, data) {
		t.Error("expected original bytes when scaling is disabled")
	}
}

func TestPrepare_DownscalesPreservingAspectRatio(t *testing.T) {
	tests := []struct {
		name           string
		data           []byte
		maxDimension   int
		expectedWidth  int
		expectedHeight int
		expectedFormat string
	}{
		{
			name:           "wide jpeg",
			data:           encodeJPEG(t, 200, 100),
			maxDimension:   50,
			expectedWidth:  50,
			expectedHeight: 25,
			expectedFormat: "jpeg",
		},
		{
			name:           "tall png",
			data:           encodePNG(t, 100, 200),
			maxDimension:   50,
			expectedWidth:  25,
			expectedHeight: 50,
			expectedFormat: "png",
		},
		{
			name:           "square png",
			data:           encodePNG(t, 80, 80),
			maxDimension:   40,
			expectedWidth:  40,
			expectedHeight: 40,
			expectedFormat: "png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prepared, err := NewPreparer(tt.maxDimension).Prepare(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prepared.Width != tt.expectedWidth || prepared.Height != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d",
					tt.expectedWidth, tt.expectedHeight, prepared.Width, prepared.Height)
			}

			img, format, err := image.Decode(bytes.NewReader(prepared.Data))
			if err != nil {
				t.Fatalf("failed to decode prepared image: %v", err)
			}
			if format != tt.expectedFormat {
				t.Errorf("expected format %q, got %q", tt.expectedFormat, format)
			}
			if img.Bounds().Dx() != tt.expectedWidth || img.Bounds().Dy() != tt.expectedHeight {
				t.Errorf("encoded image is %dx%d, expected %dx%d",
					img.Bounds().Dx(), img.Bounds().Dy(), tt.expectedWidth, tt.expectedHeight)
			}
		})
	}
}

func TestPrepare_RejectsUnsupportedFormat(t *testing.T) {
	if _, err := NewPreparer(100).Prepare([]byte("GIF89a trailer")); err == nil {
		t.Error("expected error for unsupported format, got none")
	}
}

func TestPrepare_RejectsCorruptImage(t *testing.T) {
	// Valid PNG signature followed by garbage
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, []byte("garbage")...)
	if _, err := NewPreparer(100).Prepare(data); err == nil {
		t.Error("expected error for corrupt image, got none")
	}
}
