package backend

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/adscan/internal/core"
)

// UploadFieldName is the multipart form field carrying the images.
const UploadFieldName = "images"

// ReadUploads collects all images of a multipart request in form order.
// Files larger than maxFileSize are rejected before anything is read.
func ReadUploads(ctx echo.Context, maxFileSize int64) ([]core.Upload, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	files := form.File[UploadFieldName]
	if len(files) == 0 {
		return nil, fmt.Errorf("no images uploaded, expected at least one file in the %q field", UploadFieldName)
	}

	uploads := make([]core.Upload, 0, len(files))
	for _, file := range files {
		if maxFileSize > 0 && file.Size > maxFileSize {
			return nil, fmt.Errorf("file %s exceeds the upload limit of %d bytes", file.Filename, maxFileSize)
		}

		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
		}
		data, err := io.ReadAll(src)
		if cerr := src.Close(); cerr != nil {
			slog.Error("ReadUploads: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file %s: %w", file.Filename, err)
		}

		uploads = append(uploads, core.Upload{Filename: file.Filename, Data: data})
	}
	return uploads, nil
}
