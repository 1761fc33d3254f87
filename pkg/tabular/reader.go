// Package tabular reads the SAP tab-delimited exports ("XLS" files that
// are tab-delimited text, not real XLSX) and turns them into the
// map-of-cell rows the Projector consumes, handling the encoding
// guesswork and `=REPT(...)` formula pre-evaluation the upstream export
// process leaves behind.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/dbf"
	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/payroll"
)

// ReadRows reads a tab-delimited export at path and returns one map per
// data row, keyed by the header row's column names. Columns blank in a
// given row are omitted (the Projector and Writer treat a missing key
// as absent); ragged rows are tolerated (§4.5).
func ReadRows(path string) ([]map[string]payroll.Cell, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrInputNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := decodeBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	columns := records[0]
	rows := make([]map[string]payroll.Cell, 0, len(records)-1)
	for _, fields := range records[1:] {
		row := make(map[string]payroll.Cell, len(columns))
		for i, col := range columns {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			var field string
			if i < len(fields) {
				field = fields[i]
			}
			if field == "" {
				continue
			}
			row[col] = dbf.Text(payroll.ResolveFormula(field))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadHeaderRow reads the single-row header export at path and returns
// its one row, or an empty map if the file has no data row.
func ReadHeaderRow(path string) (map[string]payroll.Cell, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]payroll.Cell{}, nil
	}
	return rows[0], nil
}

// decodeBytes applies the encoding fallback chain of §4.5: strict UTF-8,
// then BOM-sniffed UTF-16, then Windows-1252, then ISO-8859-1. The first
// candidate that decodes without error wins.
func decodeBytes(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	if hasUTF16BOM(raw) {
		if decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(raw); err == nil {
			return string(decoded), nil
		}
	}

	for _, cm := range []encoding.Encoding{charmap.Windows1252, charmap.ISO8859_1} {
		if decoded, err := cm.NewDecoder().Bytes(raw); err == nil {
			return string(decoded), nil
		}
	}

	return "", ErrDecoding
}

func hasUTF16BOM(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	return (raw[0] == 0xFF && raw[1] == 0xFE) || (raw[0] == 0xFE && raw[1] == 0xFF)
}
