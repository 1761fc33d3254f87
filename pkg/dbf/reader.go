package dbf

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/iransystem"
)

// FileInfo describes the file header and field layout parsed back out of
// a dBase III file this package wrote. It is a diagnostic convenience
// for the CLI's `info` command and the preview server, not a
// general-purpose dBase reader: it trusts the byte layout this package's
// own Writer produces (§4.6).
type FileInfo struct {
	Year, Month, Day int
	NumRecords       int
	HeaderWidth      int
	RecordWidth      int
	LanguageDriver   byte
	Fields           []Field
}

// persianFieldNames is the union of both compiled schemas' Persian field
// sets, used to decide which CHARACTER columns to run back through the
// Iran System decoder when reading a file back for preview.
var persianFieldNames = func() map[string]bool {
	set := make(map[string]bool)
	for name := range HeaderSchema.PersianField {
		set[name] = true
	}
	for name := range WorkersSchema.PersianField {
		set[name] = true
	}
	return set
}()

// ReadFile parses a dBase III file this package's Writer produced and
// returns its header metadata, field descriptors, and records rendered
// as display text: Persian-flagged CHARACTER fields are decoded back to
// Unicode (visual order reversed to logical order), everything else is
// trimmed of its fixed-width padding.
func ReadFile(path string) (FileInfo, []map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileInfo{}, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) < 32 {
		return FileInfo{}, nil, fmt.Errorf("%s: too short to be a dBase III file", path)
	}

	info := FileInfo{
		Year:           int(data[1]),
		Month:          int(data[2]),
		Day:            int(data[3]),
		NumRecords:     int(binary.LittleEndian.Uint32(data[4:8])),
		HeaderWidth:    int(binary.LittleEndian.Uint16(data[8:10])),
		RecordWidth:    int(binary.LittleEndian.Uint16(data[10:12])),
		LanguageDriver: data[29],
	}

	numFields := (info.HeaderWidth - 32 - 1) / 32
	if numFields < 0 || 32+32*numFields >= len(data) {
		return FileInfo{}, nil, fmt.Errorf("%s: inconsistent header width %d", path, info.HeaderWidth)
	}

	info.Fields = make([]Field, numFields)
	for i := 0; i < numFields; i++ {
		desc := data[32+32*i : 32+32*(i+1)]
		name := strings.TrimRight(string(desc[0:11]), "\x00")
		info.Fields[i] = Field{
			Name:     name,
			Kind:     Kind(desc[11]),
			Width:    int(desc[16]),
			Decimals: int(desc[17]),
		}
	}

	records := make([]map[string]string, 0, info.NumRecords)
	offset := info.HeaderWidth
	for r := 0; r < info.NumRecords; r++ {
		if offset+info.RecordWidth > len(data) {
			break
		}
		row := data[offset : offset+info.RecordWidth]
		offset += info.RecordWidth

		record := make(map[string]string, len(info.Fields))
		col := 1 // skip the deletion flag byte
		for _, f := range info.Fields {
			raw := row[col : col+f.Width]
			col += f.Width

			if f.Kind == Character && persianFieldNames[f.Name] {
				record[f.Name] = iransystem.DecodeField(raw)
			} else {
				record[f.Name] = strings.TrimSpace(string(raw))
			}
		}
		records = append(records, record)
	}

	return info, records, nil
}
