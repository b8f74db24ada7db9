package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jo-hoe/adscan/internal/backend/export"
	"github.com/jo-hoe/adscan/internal/backend/extraction"
	"github.com/jo-hoe/adscan/internal/core"
)

// APIService exposes the extraction pipeline as a JSON API.
type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

// extractResponse is the body returned by the extract and result routes.
type extractResponse struct {
	ID       string                  `json:"id,omitempty"`
	Rows     []extraction.FlatRecord `json:"rows"`
	Images   []core.ImageReport      `json:"images"`
	Download string                  `json:"download,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Probe route for liveness checks
	e.GET("/probe", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "adscan is running")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/extract", s.extractHandler)
	api.GET("/results/:id", s.resultHandler)
	api.GET("/results/:id/export", s.exportHandler)
}

func (s *APIService) extractHandler(ctx echo.Context) error {
	uploads, err := ReadUploads(ctx, s.config.Upload.MaxFileSizeBytes)
	if err != nil {
		slog.Warn("extractHandler: rejected request",
			"status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := s.coreService.Extract(ctx.Request().Context(), uploads)
	if errors.Is(err, core.ErrNoResults) {
		return ctx.JSON(http.StatusUnprocessableEntity, extractResponse{
			Rows:   []extraction.FlatRecord{},
			Images: result.Reports,
			Error:  err.Error(),
		})
	}
	if err != nil {
		slog.Error("extractHandler: extraction failed",
			"status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process uploaded images")
	}

	return ctx.JSON(http.StatusOK, extractResponse{
		ID:       result.ID,
		Rows:     result.Records,
		Images:   result.Reports,
		Download: downloadPath(result.ID),
	})
}

func (s *APIService) resultHandler(ctx echo.Context) error {
	result, ok := s.coreService.Result(ctx.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "result not found or expired")
	}

	return ctx.JSON(http.StatusOK, extractResponse{
		ID:       result.ID,
		Rows:     result.Records,
		Images:   result.Reports,
		Download: downloadPath(result.ID),
	})
}

func (s *APIService) exportHandler(ctx echo.Context) error {
	result, ok := s.coreService.Result(ctx.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "result not found or expired")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename))
	return ctx.Blob(http.StatusOK, export.ContentType, result.Workbook)
}

// downloadPath builds the export route for a stored result.
func downloadPath(id string) string {
	return fmt.Sprintf("/api/results/%s/export", id)
}
