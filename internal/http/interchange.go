package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmakela/scubalog/internal/audit"
	"github.com/tmakela/scubalog/internal/interchange"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
	"github.com/tmakela/scubalog/internal/units"
)

// AuditLogger records interchange operations for the audit trail.
type AuditLogger interface {
	LogImport(format, description string, imported, renamed int, err error)
	LogExport(format, description string, err error)
}

type InterchangeController struct {
	service  *services.InterchangeService
	settings *settingsstore.SettingsStore
	audit    AuditLogger
	auditor  *audit.Auditor
}

func NewInterchangeController(service *services.InterchangeService, settings *settingsstore.SettingsStore, auditLog AuditLogger, auditor *audit.Auditor) *InterchangeController {
	return &InterchangeController{
		service:  service,
		settings: settings,
		audit:    auditLog,
		auditor:  auditor,
	}
}

func (ctrl *InterchangeController) auditImport(format, description string, imported, renamed int, err error) {
	if ctrl.audit != nil {
		ctrl.audit.LogImport(format, description, imported, renamed, err)
	}
}

func (ctrl *InterchangeController) auditExport(format, description string, err error) {
	if ctrl.audit != nil {
		ctrl.audit.LogExport(format, description, err)
	}
}

type ImportPreviewResponse struct {
	Candidates       int      `json:"candidates"`
	Titles           []string `json:"titles"`
	Conflicts        []string `json:"conflicts,omitempty"`
	PressureWarnings []string `json:"pressure_warnings,omitempty"`
	Committed        bool     `json:"committed"`
}

type ImportCommitResponse struct {
	Imported         int      `json:"imported"`
	Renamed          int      `json:"renamed"`
	Titles           []string `json:"titles,omitempty"`
	PressureWarnings []string `json:"pressure_warnings,omitempty"`
	Committed        bool     `json:"committed"`
}

// Import accepts a multipart upload and previews it. Passing confirm=true
// commits the preview in the same request; otherwise nothing is persisted
// and the client is expected to re-post with confirmation.
func (ctrl *InterchangeController) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file upload: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, "failed to read upload: "+err.Error())
		return
	}

	format := string(services.DetectFormat(header.Filename))

	preview, err := ctrl.service.Preview(header.Filename, data)
	if err != nil {
		ctrl.auditImport(format, fmt.Sprintf("import of %q failed", header.Filename), 0, 0, err)
		respondImportError(c, err)
		return
	}

	if c.Query("confirm") != "true" {
		titles := make([]string, 0, len(preview.Candidates))
		for i := range preview.Candidates {
			titles = append(titles, preview.Candidates[i].Title)
		}
		c.JSON(http.StatusOK, ImportPreviewResponse{
			Candidates:       len(preview.Candidates),
			Titles:           titles,
			Conflicts:        preview.Conflicts,
			PressureWarnings: preview.PressureWarnings,
			Committed:        false,
		})
		return
	}

	result, err := ctrl.service.Commit(preview)
	if err != nil {
		ctrl.auditImport(format, fmt.Sprintf("import of %q failed mid-commit", header.Filename), result.Imported, result.Renamed, err)
		respondInternalError(c, err, "commit import")
		return
	}

	ctrl.auditImport(format, fmt.Sprintf("imported %q", header.Filename), result.Imported, result.Renamed, nil)

	if ctrl.auditor != nil {
		dump := map[string]any{
			"filename": header.Filename,
			"format":   format,
			"imported": result.Imported,
			"renamed":  result.Renamed,
			"titles":   result.Titles,
		}
		if _, err := ctrl.auditor.SaveJSON(dump); err != nil {
			log.Printf("Failed to save import audit dump: %v", err)
		}
	}

	c.JSON(http.StatusOK, ImportCommitResponse{
		Imported:         result.Imported,
		Renamed:          result.Renamed,
		Titles:           result.Titles,
		PressureWarnings: preview.PressureWarnings,
		Committed:        true,
	})
}

// Export renders the collection as a file download. Format defaults to CSV
// and the unit system falls back to the stored preference.
func (ctrl *InterchangeController) Export(c *gin.Context) {
	format := services.ParseFormat(c.Query("format"))

	sys := ctrl.settings.GetUnitSystem()
	if q := c.Query("units"); q != "" {
		sys = units.ParseSystem(q)
	}

	file, err := ctrl.service.Export(format, sys)
	if err != nil {
		ctrl.auditExport(string(format), "export failed", err)
		respondInternalError(c, err, "export")
		return
	}

	ctrl.auditExport(string(format), fmt.Sprintf("exported %s", file.Filename), nil)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// respondImportError maps the parse error taxonomy onto HTTP codes so a
// client can tell malformed content apart from transport problems.
func respondImportError(c *gin.Context, err error) {
	var (
		schemaErr *interchange.SchemaMismatchError
		rowErr    *interchange.RowShapeError
		dateErr   *interchange.DateFormatError
		xmlErr    *interchange.XMLStructureError
	)
	switch {
	case errors.Is(err, interchange.ErrEmptyInput):
		respondUnprocessable(c, "empty_input", err)
	case errors.As(err, &schemaErr):
		respondUnprocessable(c, "schema_mismatch", err)
	case errors.As(err, &rowErr):
		respondUnprocessable(c, "row_shape", err)
	case errors.As(err, &dateErr):
		respondUnprocessable(c, "date_format", err)
	case errors.As(err, &xmlErr):
		respondUnprocessable(c, "xml_structure", err)
	default:
		respondInternalError(c, err, "import")
	}
}
