// Package interchange converts between the in-memory dive collection and
// the two on-disk interchange formats: the ScubaLog CSV dialect and the
// UDDF XML dive-log standard.
//
// # Architecture
//
// The engine is built from small, independently testable pieces:
//
//	File bytes → ParseRows / xml.Decoder → codec → []entities.Dive
//	           → FindConflicts (pure pre-check)
//	           → ApplyWithRename (after the caller confirms)
//
//   - csvgrammar.go: character-level CSV row splitter (total; never fails)
//   - csvcodec.go:   the fixed-column CSV schema, current and legacy layouts
//   - uddf.go:       UDDF 3.2.0 export and stream-parsing import
//   - merge.go:      duplicate-title detection and deterministic renaming
//   - errors.go:     the error taxonomy shared by both codecs
//
// All records are metric in memory. The CSV codec converts at the format
// boundary based on the unit system; UDDF is always metric (Kelvin, pascal).
//
// # Strictness
//
// Parsing is strict-by-shape, lenient-by-field: a malformed header or row
// shape aborts the whole import with a typed error, while a bad value in an
// optional column degrades to "value absent". Duplicate titles are never an
// error; they are a recoverable condition reported by FindConflicts.
package interchange
