package dbf

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadFileRoundTripsWrittenRecords(t *testing.T) {
	withFixedNow(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC))

	records := []map[string]Cell{
		{"DSW_FNAME": Text("علی"), "DSW_DD": Integer(30)},
		{"DSW_FNAME": Text("حسن"), "DSW_DD": Integer(31)},
	}

	path := filepath.Join(t.TempDir(), "DSKWOR00.DBF")
	if err := WriteFile(path, WorkersSchema, records); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if info.NumRecords != 2 {
		t.Errorf("NumRecords = %d, want 2", info.NumRecords)
	}
	if len(info.Fields) != len(WorkersSchema.Fields) {
		t.Errorf("got %d fields, want %d", len(info.Fields), len(WorkersSchema.Fields))
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0]["DSW_FNAME"] != "علی" {
		t.Errorf("DSW_FNAME = %q, want %q", got[0]["DSW_FNAME"], "علی")
	}
	if got[1]["DSW_FNAME"] != "حسن" {
		t.Errorf("DSW_FNAME = %q, want %q", got[1]["DSW_FNAME"], "حسن")
	}
	if got[0]["DSW_DD"] != "30" {
		t.Errorf("DSW_DD = %q, want %q", got[0]["DSW_DD"], "30")
	}
}

func TestReadFileHeaderMetadata(t *testing.T) {
	fixed := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	withFixedNow(t, fixed)

	path := filepath.Join(t.TempDir(), "DSKKAR00.DBF")
	if err := WriteFile(path, HeaderSchema, []map[string]Cell{{}}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, _, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if info.LanguageDriver != 0x7E {
		t.Errorf("LanguageDriver = %#x, want 0x7E", info.LanguageDriver)
	}
	if info.Day != fixed.Day() {
		t.Errorf("Day = %d, want %d", info.Day, fixed.Day())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.dbf")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestReadFileRejectsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.dbf")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, _, err := ReadFile(path); err == nil {
		t.Errorf("expected error for too-short file")
	}
}
