package dbf

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/filecopy"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/iransystem"
)

// now is overridable in tests so the file-header date stamp is
// deterministic; it is not exposed outside the package.
var now = time.Now

// WriteFile renders records against schema and writes them to path
// using the atomic write-temp-then-rename guarantee from pkg/filecopy:
// either the whole file appears at path, or path is left untouched.
func WriteFile(path string, schema Schema, records []map[string]Cell) error {
	data, err := Render(schema, records)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := filecopy.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Render builds the complete byte image of a dBase III file for schema
// and records: file header, field descriptors, terminator, one
// fixed-width record per row, and a trailing EOF byte.
func Render(schema Schema, records []map[string]Cell) ([]byte, error) {
	buf := make([]byte, 0, schema.HeaderWidth()+len(records)*schema.RecordWidth()+1)

	buf = append(buf, renderFileHeader(schema, len(records))...)
	for _, f := range schema.Fields {
		buf = append(buf, renderFieldDescriptor(f)...)
	}
	buf = append(buf, 0x0D) // header terminator

	for _, record := range records {
		row, err := renderRecord(schema, record)
		if err != nil {
			return nil, err
		}
		buf = append(buf, row...)
	}

	buf = append(buf, 0x1A) // EOF
	return buf, nil
}

// renderFileHeader builds the 32-byte dBase III file header (§4.3).
func renderFileHeader(schema Schema, numRecords int) []byte {
	header := make([]byte, 32)

	header[0] = 0x03 // dBase III, no memo

	t := now()
	header[1] = byte(t.Year() % 100)
	header[2] = byte(t.Month())
	header[3] = byte(t.Day())

	binary.LittleEndian.PutUint32(header[4:8], uint32(numRecords))
	binary.LittleEndian.PutUint16(header[8:10], uint16(schema.HeaderWidth()))
	binary.LittleEndian.PutUint16(header[10:12], uint16(schema.RecordWidth()))
	// bytes 12-27 reserved, left zero
	header[28] = 0x00 // MDX flag
	header[29] = 0x7E // language-driver ID (Iran System)
	// bytes 30-31 reserved, left zero

	return header
}

// renderFieldDescriptor builds one 32-byte field descriptor (§4.3).
func renderFieldDescriptor(f Field) []byte {
	desc := make([]byte, 32)

	name := f.Name
	if len(name) > 11 {
		name = name[:11]
	}
	copy(desc[0:11], name)

	desc[11] = byte(f.Kind)
	// bytes 12-15 reserved, left zero
	desc[16] = byte(f.Width)
	desc[17] = byte(f.Decimals)
	// bytes 18-31 reserved, left zero

	return desc
}

// renderRecord builds one fixed-width record: a not-deleted flag byte
// followed by each field's payload at its declared width, in schema
// order. Keys in record not present in the schema are ignored; fields
// missing from record are treated as absent.
func renderRecord(schema Schema, record map[string]Cell) ([]byte, error) {
	row := make([]byte, 0, schema.RecordWidth())
	row = append(row, 0x20) // not deleted

	for _, f := range schema.Fields {
		cell := record[f.Name] // zero value is the absent Cell

		var payload []byte
		switch f.Kind {
		case Character:
			payload = renderCharacter(schema, f, cell)
		case Numeric:
			payload = renderNumeric(f, cell)
		default:
			return nil, fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind)
		}
		row = append(row, payload...)
	}

	return row, nil
}

// renderCharacter formats a CHARACTER field: Persian-flagged fields are
// shaped through the Iran System encoder, everything else is treated as
// ASCII; both are left-justified and space-padded on the right, with
// tail-cut truncation if over-wide.
func renderCharacter(schema Schema, f Field, cell Cell) []byte {
	out := make([]byte, f.Width)
	for i := range out {
		out[i] = 0x20
	}

	if cell.IsAbsent() {
		return out
	}

	text := cell.text
	if cell.kind != cellText {
		text = cellToText(cell)
	}

	if schema.ZeroAsEmpty[f.Name] && isZeroish(text) {
		return out
	}

	var raw []byte
	if schema.PersianField[f.Name] {
		raw = iransystem.Encode(text)
	} else {
		raw = []byte(text)
	}

	n := len(raw)
	if n > f.Width {
		n = f.Width
	}
	copy(out, raw[:n])
	return out
}

// renderNumeric formats a NUMERIC field: right-justified ASCII digit
// text, space-padded on the left, left-truncated if over-wide. Absent or
// unparseable values emit all spaces (a non-fatal ProjectionError).
func renderNumeric(f Field, cell Cell) []byte {
	out := make([]byte, f.Width)
	for i := range out {
		out[i] = 0x20
	}

	if cell.IsAbsent() {
		return out
	}

	text, ok := numericText(cell, f.Decimals)
	if !ok {
		return out
	}

	if len(text) > f.Width {
		text = text[len(text)-f.Width:]
	}

	copy(out[f.Width-len(text):], text)
	return out
}

func cellToText(cell Cell) string {
	switch cell.kind {
	case cellInteger:
		return strconv.FormatInt(cell.integer, 10)
	case cellDecimal:
		return strconv.FormatFloat(cell.decimal, 'f', -1, 64)
	default:
		return ""
	}
}

// numericText renders a cell's value as the ASCII digit text a NUMERIC
// field holds, honoring the field's decimal count for fixed-point values.
func numericText(cell Cell, decimals int) (string, bool) {
	switch cell.kind {
	case cellInteger:
		return strconv.FormatInt(cell.integer, 10), true
	case cellDecimal:
		return strconv.FormatFloat(cell.decimal, 'f', decimals, 64), true
	case cellText:
		trimmed := strings.TrimSpace(cell.text)
		if trimmed == "" {
			return "", false
		}
		if decimals > 0 {
			if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return strconv.FormatFloat(v, 'f', decimals, 64), true
			}
			return "", false
		}
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return strconv.FormatInt(v, 10), true
		}
		return "", false
	default:
		return "", false
	}
}

// isZeroish implements the MON_PYM empty-coercion test: empty, "0", or
// numerically zero.
func isZeroish(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed == "0" {
		return true
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v == 0
	}
	return false
}
