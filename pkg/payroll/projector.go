package payroll

import (
	"fmt"
	"strings"

	"github.com/jalaliamirreza/sso-payroll-dbf/pkg/dbf"
)

// Cell is the tagged cell value the Projector reads and produces; an
// alias for dbf.Cell so callers need not import both packages (§3's
// "Cell type used throughout pkg/payroll").
type Cell = dbf.Cell

// Config is the immutable per-run configuration threaded once into the
// Projector, replacing the source's scattered workshop_id/year/month/
// list_no globals (§9 "Global state").
type Config struct {
	WorkshopID string
	Year       int
	Month      int
	ListNo     string
}

// fieldAliases renames input columns carrying the source's legacy names
// to the schema names the Writer expects (§4.4 "Schema alias").
var fieldAliases = map[string]string{
	"DSK_TINC":   "DSK_INC",
	"DSK_TSPOUS": "DSK_SPOUSE",
}

// defaultInsuranceRate is DSK_PRATE's fallback when the input omits it.
const defaultInsuranceRate = 7

// applyAliases copies row into a fresh map, renaming any aliased keys.
func applyAliases(row map[string]Cell) map[string]Cell {
	out := make(map[string]Cell, len(row))
	for k, v := range row {
		if renamed, ok := fieldAliases[k]; ok {
			k = renamed
		}
		out[k] = v
	}
	return out
}

// ProjectWorkers builds one output record per input workers row: fields
// are copied by name (after alias resolution), and the per-row constants
// DSW_ID, DSW_YY, DSW_MM, DSW_LISTNO are filled from cfg, overriding
// anything the input supplied for those columns. Row order is preserved
// (§5's ordering guarantee).
func ProjectWorkers(rows []map[string]Cell, cfg Config) []map[string]Cell {
	out := make([]map[string]Cell, len(rows))
	for i, row := range rows {
		record := applyAliases(row)
		record["DSW_ID"] = dbf.Text(zeroPad(cfg.WorkshopID, 10))
		record["DSW_YY"] = dbf.Text(fmt.Sprintf("%02d", cfg.Year))
		record["DSW_MM"] = dbf.Text(fmt.Sprintf("%02d", cfg.Month))
		record["DSW_LISTNO"] = dbf.Text(cfg.ListNo)
		out[i] = record
	}
	return out
}

// ProjectHeader builds the single DSKKAR00 record from the input header
// row plus the aggregate totals over the already-projected workers
// records (§4.4 "Header record projection").
func ProjectHeader(headerRow map[string]Cell, workers []map[string]Cell, cfg Config) map[string]Cell {
	record := applyAliases(headerRow)

	record["DSK_NUM"] = dbf.Integer(int64(len(workers)))
	record["DSK_YY"] = dbf.Integer(int64(cfg.Year))
	record["DSK_MM"] = dbf.Integer(int64(cfg.Month))

	for headerField, workerField := range dbf.TotalsFields {
		record[headerField] = dbf.Integer(sumField(workers, workerField))
	}

	if _, present := record["DSK_PRATE"]; !present {
		record["DSK_PRATE"] = dbf.Integer(defaultInsuranceRate)
	}

	return record
}

// zeroPad left-pads s with '0' to width, truncating nothing (a
// shorter-than-width workshop ID is the expected case).
func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// sumField returns the integer sum of field across rows, treating a
// missing or unparseable value as zero (a non-fatal ProjectionError at
// the field level, per §7).
func sumField(rows []map[string]Cell, field string) int64 {
	var total int64
	for _, row := range rows {
		if v, ok := row[field].Int64(); ok {
			total += v
		}
	}
	return total
}
