package frontend

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/adscan/internal/backend"
	"github.com/jo-hoe/adscan/internal/backend/export"
	"github.com/jo-hoe/adscan/internal/backend/extraction"
	"github.com/jo-hoe/adscan/internal/core"
)

const MainPageName = "index.html"

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)
	e.POST("/htmx/extract", service.htmxExtractHandler)
	e.GET("/download/:id", service.downloadHandler)

	// Favicon (SVG) route
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, MainPageName, nil)
}

// htmxExtractHandler runs the pipeline over the uploaded images and
// returns the result fragment that htmx swaps into the page.
func (service *FrontendService) htmxExtractHandler(ctx echo.Context) error {
	uploads, err := backend.ReadUploads(ctx, service.config.Upload.MaxFileSizeBytes)
	if err != nil {
		slog.Warn("htmxExtractHandler: rejected upload",
			"status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "Failed to read uploaded images")
	}

	result, err := service.coreService.Extract(ctx.Request().Context(), uploads)
	if errors.Is(err, core.ErrNoResults) {
		// Still a rendered outcome: the page shows one warning per image
		service.setNoCache(ctx)
		return ctx.HTML(http.StatusOK, service.buildResultsHTML(result, "No valid data was extracted from the uploaded images."))
	}
	if err != nil {
		slog.Error("htmxExtractHandler: extraction failed",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to process uploaded images")
	}

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.buildResultsHTML(result, ""))
}

func (service *FrontendService) downloadHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	result, ok := service.coreService.Result(id)
	if !ok {
		slog.Warn("downloadHandler: result not available",
			"status", http.StatusNotFound, "result_id", id)
		return ctx.String(http.StatusNotFound, "Download not available")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename))
	return ctx.Blob(http.StatusOK, export.ContentType, result.Workbook)
}

// buildResultsHTML renders the per-image reports, the combined data table
// and the download link. Model output is untrusted and gets escaped.
func (service *FrontendService) buildResultsHTML(result *core.ExtractResult, errorMessage string) string {
	var b strings.Builder

	b.WriteString(`<ul class="report-list">`)
	for _, report := range result.Reports {
		class := "report-ok"
		if !report.OK {
			class = "report-failed"
		}
		b.WriteString(fmt.Sprintf(`<li class="%s">%s</li>`, class, template.HTMLEscapeString(report.Message)))
	}
	b.WriteString(`</ul>`)

	if errorMessage != "" {
		b.WriteString(fmt.Sprintf(`<p class="error">%s</p>`, template.HTMLEscapeString(errorMessage)))
		return b.String()
	}

	b.WriteString(`<h2>Combined Extracted Data</h2>`)
	b.WriteString(`<div class="table-wrap"><table><thead><tr>`)
	for _, column := range extraction.Columns {
		b.WriteString(fmt.Sprintf(`<th>%s</th>`, column))
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, record := range result.Records {
		b.WriteString(`<tr>`)
		for _, value := range record.Values() {
			b.WriteString(fmt.Sprintf(`<td>%s</td>`, template.HTMLEscapeString(value)))
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)

	b.WriteString(fmt.Sprintf(`<p><a href="/download/%s" download="%s" class="download-link">Download All Extracted Data as Excel</a></p>`,
		result.ID, export.Filename))
	return b.String()
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
