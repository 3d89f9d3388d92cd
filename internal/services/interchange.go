package services

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/interchange"
	"github.com/tmakela/scubalog/internal/units"
)

// Format identifies an interchange file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatUDDF Format = "uddf"
)

// DetectFormat chooses a codec from the file extension. UDDF is recognized
// by .uddf or .xml; anything else is attempted as CSV text.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".uddf", ".xml":
		return FormatUDDF
	default:
		return FormatCSV
	}
}

// ParseFormat maps user input to a Format, defaulting to CSV.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatUDDF)) {
		return FormatUDDF
	}
	return FormatCSV
}

// InterchangeService orchestrates imports and exports: it picks the codec,
// runs the duplicate-title check, and commits only on explicit confirmation.
// Operations are synchronous; one import or export runs to completion before
// another starts.
type InterchangeService struct {
	store DiveStore
	now   func() time.Time
}

// NewInterchangeService creates the service around a persistence store.
func NewInterchangeService(store DiveStore) *InterchangeService {
	return &InterchangeService{store: store, now: time.Now}
}

// Preview parses an uploaded file and reports what committing it would do.
// Nothing is persisted. Parse errors are fatal to the operation; a file
// either previews completely or not at all.
func (s *InterchangeService) Preview(filename string, data []byte) (*ImportPreview, error) {
	candidates, err := s.parse(filename, data)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListTitles()
	if err != nil {
		return nil, fmt.Errorf("failed to list existing titles: %w", err)
	}

	preview := &ImportPreview{
		Candidates: candidates,
		Conflicts:  interchange.FindConflicts(candidates, existing),
	}
	for i := range candidates {
		if candidates[i].PressureWarning() {
			preview.PressureWarnings = append(preview.PressureWarnings, candidates[i].Title)
		}
	}
	return preview, nil
}

// Commit applies the confirmed preview: collisions are renamed against the
// store's current titles and every candidate is inserted. Records are
// committed in input order so the rename scheme stays deterministic.
func (s *InterchangeService) Commit(preview *ImportPreview) (ImportResult, error) {
	existing, err := s.store.ListTitles()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to list existing titles: %w", err)
	}

	committed, renamed := interchange.ApplyWithRename(preview.Candidates, existing)

	result := ImportResult{Renamed: renamed}
	for i := range committed {
		if err := s.store.Insert(&committed[i]); err != nil {
			return result, fmt.Errorf("failed to insert %q: %w", committed[i].Title, err)
		}
		result.Imported++
		result.Titles = append(result.Titles, committed[i].Title)
	}
	return result, nil
}

func (s *InterchangeService) parse(filename string, data []byte) ([]entities.Dive, error) {
	switch DetectFormat(filename) {
	case FormatUDDF:
		return interchange.ImportUDDF(data, s.now())
	default:
		return interchange.ImportCSV(string(data))
	}
}

// Export renders the whole collection in the requested format. The CSV
// codec applies the unit preference; UDDF is always metric.
func (s *InterchangeService) Export(format Format, sys units.System) (*ExportFile, error) {
	dives, err := s.store.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list dives: %w", err)
	}

	now := s.now()
	switch format {
	case FormatUDDF:
		data, err := interchange.ExportUDDF(dives, now)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Filename:    exportFilename(now, "uddf"),
			ContentType: "application/xml",
			Data:        data,
		}, nil
	default:
		return &ExportFile{
			Filename:    exportFilename(now, "csv"),
			ContentType: "text/csv",
			Data:        []byte(interchange.ExportCSV(dives, sys)),
		}, nil
	}
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("ScubaLog_Export_%s.%s", now.Format("2006-01-02"), ext)
}
