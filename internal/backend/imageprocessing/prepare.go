// Package imageprocessing validates and normalizes uploaded advertisement
// images before they are sent to the vision model.
package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"

	"golang.org/x/image/draw"
)

// MIME types declared to the model API for prepared images.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// jpegQuality is used when a scaled JPEG is re-encoded.
const jpegQuality = 90

// Prepared is an upload that passed validation, optionally downscaled and
// carrying the MIME type to declare on the model call.
type Prepared struct {
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

// Preparer checks uploads and bounds their pixel dimensions. MaxDimension
// caps the longest image side; zero or negative disables scaling.
type Preparer struct {
	MaxDimension int
}

// NewPreparer creates a preparer that downscales images whose longest
// side exceeds maxDimension.
func NewPreparer(maxDimension int) *Preparer {
	return &Preparer{MaxDimension: maxDimension}
}

// hasCorrectPngSignature checks whether the provided data begins with a valid PNG signature
func hasCorrectPngSignature(data []byte) bool {
	// PNG signature: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) < 8 {
		return false
	}
	expected := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return bytes.Equal(data[:8], expected)
}

// hasJpegSignature checks whether the provided data begins with a JPEG SOI marker
func hasJpegSignature(data []byte) bool {
	// JPEG files start with 0xFF 0xD8 0xFF
	if len(data) < 3 {
		return false
	}
	return data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

// SniffMIMEType detects the upload format from its magic bytes. Only JPEG
// and PNG are accepted.
func SniffMIMEType(data []byte) (string, error) {
	switch {
	case hasJpegSignature(data):
		return MimeJPEG, nil
	case hasCorrectPngSignature(data):
		return MimePNG, nil
	default:
		return "", fmt.Errorf("unsupported image format, expected jpg, jpeg or png")
	}
}

// Prepare validates the upload and downscales it when its longest side
// exceeds MaxDimension. The returned bytes are the original upload unless
// scaling took place.
func (p *Preparer) Prepare(data []byte) (*Prepared, error) {
	mimeType, err := SniffMIMEType(data)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		slog.Error("ImagePreparer: failed to decode image", "error", err)
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	slog.Debug("ImagePreparer: decoded image",
		"format", format,
		"width", originalWidth,
		"height", originalHeight,
		"input_size_bytes", len(data))

	if p.MaxDimension <= 0 || (originalWidth <= p.MaxDimension && originalHeight <= p.MaxDimension) {
		return &Prepared{
			MIMEType: mimeType,
			Data:     data,
			Width:    originalWidth,
			Height:   originalHeight,
		}, nil
	}

	// Calculate target dimensions preserving the aspect ratio
	aspectRatio := float64(originalWidth) / float64(originalHeight)
	var targetWidth, targetHeight int
	if originalWidth >= originalHeight {
		targetWidth = p.MaxDimension
		targetHeight = int(float64(targetWidth) / aspectRatio)
	} else {
		targetHeight = p.MaxDimension
		targetWidth = int(float64(targetHeight) * aspectRatio)
	}
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	slog.Debug("ImagePreparer: downscaling image",
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight)

	scaled := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	// Re-encode in the original format so the declared MIME type stays true
	var buf bytes.Buffer
	switch mimeType {
	case MimePNG:
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		slog.Error("ImagePreparer: failed to encode scaled image", "error", err)
		return nil, fmt.Errorf("failed to encode scaled image: %w", err)
	}

	slog.Debug("ImagePreparer: scaling complete", "output_size_bytes", buf.Len())
	return &Prepared{
		MIMEType: mimeType,
		Data:     buf.Bytes(),
		Width:    targetWidth,
		Height:   targetHeight,
	}, nil
}
