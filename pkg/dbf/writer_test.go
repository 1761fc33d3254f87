package dbf

import (
	"bytes"
	"os"
	"testing"
	"time"
)

func withFixedNow(t *testing.T, when time.Time) {
	t.Helper()
	original := now
	now = func() time.Time { return when }
	t.Cleanup(func() { now = original })
}

func TestRenderFileHeaderBasics(t *testing.T) {
	withFixedNow(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))

	data, err := Render(HeaderSchema, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if data[0] != 0x03 {
		t.Errorf("byte 0 = %#x, want 0x03", data[0])
	}
	if data[29] != 0x7E {
		t.Errorf("byte 29 = %#x, want 0x7E", data[29])
	}
}

func TestRenderLength(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{"DSW_DD": Integer(30)},
		{"DSW_DD": Integer(31)},
	}

	data, err := Render(WorkersSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := WorkersSchema.HeaderWidth() + len(records)*WorkersSchema.RecordWidth() + 1
	if len(data) != want {
		t.Errorf("output length = %d, want %d", len(data), want)
	}
}

func TestRenderRecordCount(t *testing.T) {
	withFixedNow(t, time.Now())

	records := make([]map[string]Cell, 7)
	for i := range records {
		records[i] = map[string]Cell{}
	}

	data, err := Render(WorkersSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := []byte{0x07, 0x00, 0x00, 0x00}
	if !bytes.Equal(data[4:8], want) {
		t.Errorf("record count bytes = % X, want % X", data[4:8], want)
	}
}

func TestRenderCharacterPersianField(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{"DSW_FNAME": Text("علی")},
	}

	data, err := Render(WorkersSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	offset := WorkersSchema.HeaderWidth()
	offset++ // deletion flag
	for _, f := range WorkersSchema.Fields {
		if f.Name == "DSW_FNAME" {
			break
		}
		offset += f.Width
	}

	field := data[offset : offset+30]
	want := []byte{0xFC, 0xF3, 0xE4}
	if !bytes.Equal(field[:3], want) {
		t.Errorf("DSW_FNAME first 3 bytes = % X, want % X", field[:3], want)
	}
	for _, b := range field[3:] {
		if b != 0x20 {
			t.Errorf("expected trailing padding of 0x20, got %#x", b)
			break
		}
	}
}

func TestRenderNumericTotals(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{
			"DSK_YY":    Integer(3),
			"DSK_MM":    Integer(9),
			"DSK_TDD":   Integer(30),
			"DSK_TROOZ": Integer(1000000),
		},
	}

	data, err := Render(HeaderSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	offset := HeaderSchema.HeaderWidth() + 1
	for _, f := range HeaderSchema.Fields {
		if f.Name == "DSK_TDD" {
			break
		}
		offset += f.Width
	}
	got := string(data[offset : offset+6])
	if got != "    30" {
		t.Errorf("DSK_TDD = %q, want %q", got, "    30")
	}
}

func TestRenderMonPymEmptyCoerce(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{"MON_PYM": Text("0")},
	}

	data, err := Render(HeaderSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	offset := HeaderSchema.HeaderWidth() + 1
	for _, f := range HeaderSchema.Fields {
		if f.Name == "MON_PYM" {
			break
		}
		offset += f.Width
	}
	field := data[offset : offset+3]
	want := []byte{0x20, 0x20, 0x20}
	if !bytes.Equal(field, want) {
		t.Errorf("MON_PYM = % X, want % X", field, want)
	}
}

func TestRenderNonPersianCharacterInRange(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{"DSK_ID": Text("WORKSHOP01")},
	}

	data, err := Render(HeaderSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	offset := HeaderSchema.HeaderWidth() + 1
	field := data[offset : offset+10]
	for _, b := range field {
		if b < 0x20 || b > 0x7E {
			t.Errorf("byte %#x outside 0x20..0x7E", b)
		}
	}
}

func TestRenderNumericBytesInRange(t *testing.T) {
	withFixedNow(t, time.Now())

	records := []map[string]Cell{
		{"DSK_NUM": Integer(42), "DSK_TDD": Integer(-5)},
	}

	data, err := Render(HeaderSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	offset := HeaderSchema.HeaderWidth() + 1
	for _, f := range HeaderSchema.Fields {
		if f.Kind != Numeric {
			offset += f.Width
			continue
		}
		field := data[offset : offset+f.Width]
		for _, b := range field {
			switch b {
			case 0x20, 0x2B, 0x2D, 0x2E, 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39:
			default:
				t.Errorf("field %s byte %#x outside numeric alphabet", f.Name, b)
			}
		}
		offset += f.Width
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/DSKWOR00.DBF"

	records := []map[string]Cell{{"DSW_DD": Integer(1)}}
	if err := WriteFile(path, WorkersSchema, records); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	rendered, err := Render(WorkersSchema, records)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if !bytes.Equal(got, rendered) {
		t.Errorf("written file does not match Render output")
	}
}
