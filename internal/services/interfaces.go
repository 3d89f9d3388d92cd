package services

import "github.com/tmakela/scubalog/internal/entities"

// DiveStore is the persistence collaborator the interchange engine needs.
// The engine only ever lists existing records and proposes additions; it
// never updates or deletes.
type DiveStore interface {
	ListAll() ([]entities.Dive, error)
	ListTitles() ([]string, error)
	Insert(dive *entities.Dive) error
}

// ImportPreview is the result of the first phase of an import: the parsed
// candidates plus everything a UI needs to ask the user for confirmation.
type ImportPreview struct {
	Candidates       []entities.Dive
	Conflicts        []string
	PressureWarnings []string // titles whose end pressure exceeds start pressure
}

// HasConflicts reports whether committing would rename any title.
func (p *ImportPreview) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// ImportResult contains the outcome of a committed import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Renamed  int      `json:"renamed"`
	Titles   []string `json:"titles,omitempty"`
}

// ExportFile is a rendered export ready to hand to the sharing collaborator.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
