package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/adscan/internal/backend/export"
	"github.com/jo-hoe/adscan/internal/backend/extraction"
	"github.com/jo-hoe/adscan/internal/backend/imageprocessing"
	"github.com/jo-hoe/adscan/internal/backend/metrics"
	"github.com/jo-hoe/adscan/internal/backend/vision"
)

// ErrNoResults is returned when none of the uploaded images yielded an
// entry.
var ErrNoResults = errors.New("no valid data was extracted from the uploaded images")

// Upload is one advertisement image received from a request.
type Upload struct {
	Filename string
	Data     []byte
}

// CoreService runs the extraction pipeline and keeps finished results
// available for download.
type CoreService struct {
	config   *ServiceConfig
	model    vision.Model
	preparer *imageprocessing.Preparer
	results  *ResultStore
}

func NewCoreService(config *ServiceConfig) *CoreService {
	client := vision.NewClient(config.Model.Endpoint, config.APIKey, config.Model.Name, config.RequestTimeout())
	return NewCoreServiceWithModel(config, client)
}

// NewCoreServiceWithModel wires an explicit model implementation. Used by
// tests to avoid network calls.
func NewCoreServiceWithModel(config *ServiceConfig, model vision.Model) *CoreService {
	return &CoreService{
		config:   config,
		model:    model,
		preparer: imageprocessing.NewPreparer(config.Upload.MaxImageDimension),
		results:  NewResultStore(config.ResultTTL()),
	}
}

// Extract runs the pipeline over the uploads in order: prepare the image,
// call the model, parse the reply, flatten the entries. A failing image
// becomes a warning report and does not stop the remaining images. When at
// least one row was produced the combined workbook is rendered and the
// result is stored for download. When every image failed the reports are
// returned together with ErrNoResults and nothing is stored.
func (service *CoreService) Extract(ctx context.Context, uploads []Upload) (*ExtractResult, error) {
	start := time.Now()
	slog.Info("starting extraction", "image_count", len(uploads))

	result := &ExtractResult{}
	for _, upload := range uploads {
		entries, err := service.extractOne(ctx, upload)
		metrics.RecordImage(err == nil)
		if err != nil {
			slog.Warn("failed to process image", "filename", upload.Filename, "error", err)
			result.Reports = append(result.Reports, ImageReport{
				Filename: upload.Filename,
				Message:  fmt.Sprintf("Failed to process %s: %v", upload.Filename, err),
			})
			continue
		}

		metrics.RecordEntries(len(entries))
		result.Records = append(result.Records, extraction.FlattenAll(entries)...)
		result.Reports = append(result.Reports, ImageReport{
			Filename: upload.Filename,
			OK:       true,
			Entries:  len(entries),
			Message:  fmt.Sprintf("Extracted %d hostel(s) from: %s", len(entries), upload.Filename),
		})
	}

	if len(result.Records) == 0 {
		slog.Warn("extraction produced no rows", "image_count", len(uploads))
		return result, ErrNoResults
	}

	workbook, err := export.Workbook(result.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	result.Workbook = workbook

	service.results.Put(result)
	slog.Info("extraction finished",
		"image_count", len(uploads),
		"row_count", len(result.Records),
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// extractOne turns a single upload into parsed entries.
func (service *CoreService) extractOne(ctx context.Context, upload Upload) ([]extraction.Entry, error) {
	prepared, err := service.preparer.Prepare(upload.Data)
	if err != nil {
		return nil, err
	}

	callStart := time.Now()
	reply, err := service.model.Describe(ctx, vision.ExtractionPrompt, vision.Image{
		MIMEType: prepared.MIMEType,
		Data:     prepared.Data,
	})
	metrics.RecordModelCall(err == nil, time.Since(callStart))
	if err != nil {
		return nil, err
	}

	return extraction.Decode(reply)
}

// Result returns a stored extract result, or false when the id is unknown
// or the entry expired.
func (service *CoreService) Result(id string) (*ExtractResult, bool) {
	return service.results.Get(id)
}
