package interchange

import "strings"

// ParseRows splits raw CSV text into rows of fields at the character level.
//
// A field begins unquoted; if its first character is a double quote, the
// field is read in quoted mode until the closing quote, with "" standing for
// a literal quote. A comma ends a field only outside quoted mode; \n, \r\n,
// or a bare \r ends a row only outside quoted mode. A trailing row holding a
// single empty field (the usual final newline) is discarded; any other
// trailing partial content is flushed as a final row.
//
// The function is total: every input produces a row sequence. No header
// interpretation happens here.
func ParseRows(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false
	atFieldStart := true

	endField := func() {
		row = append(row, field.String())
		field.Reset()
		atFieldStart = true
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			if atFieldStart {
				inQuotes = true
				atFieldStart = false
			} else {
				field.WriteByte(c)
			}
		case ',':
			endField()
		case '\n':
			endRow()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
			atFieldStart = false
		}
	}

	// Flush the trailing partial row unless it is the single empty field
	// left behind by a final row terminator.
	if len(row) > 0 || field.Len() > 0 || inQuotes {
		endField()
		rows = append(rows, row)
	}

	return rows
}

// EscapeField wraps a CSV field in quotes when it contains a comma, quote,
// or newline, doubling any embedded quotes.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
