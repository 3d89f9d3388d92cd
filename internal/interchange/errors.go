package interchange

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an import file has no data rows after the
// header (or no content at all).
var ErrEmptyInput = errors.New("no data rows to import")

// SchemaMismatchError reports a header whose column count matches no known
// CSV layout. Recognized layouts are listed so the message is actionable.
type SchemaMismatchError struct {
	Got      int
	Expected []int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("unrecognized CSV header: expected %v columns, got %d", e.Expected, e.Got)
}

// RowShapeError reports a data row whose field count does not match the
// header. Row is the 1-based data row number (the header is not counted).
type RowShapeError struct {
	Row      int
	Expected int
	Got      int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d: expected %d columns, got %d", e.Row, e.Expected, e.Got)
}

// DateFormatError reports an unusable value in a required date column.
type DateFormatError struct {
	Row   int
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("row %d: cannot parse date %q", e.Row, e.Value)
}

// XMLStructureError wraps the underlying decoder diagnostic for a malformed
// UDDF document.
type XMLStructureError struct {
	Err error
}

func (e *XMLStructureError) Error() string {
	return fmt.Sprintf("malformed UDDF document: %v", e.Err)
}

func (e *XMLStructureError) Unwrap() error {
	return e.Err
}
