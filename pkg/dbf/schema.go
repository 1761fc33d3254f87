// Package dbf writes dBase III files byte-compatible with the Social
// Security Organization's legacy Iran System DBF consumer: a 32-byte
// file header, 32-byte field descriptors, a header terminator, fixed
// width records, and a trailing EOF byte.
package dbf

// Kind is a field's DBF type letter.
type Kind byte

const (
	// Character fields hold ASCII or Iran System bytes, left-justified,
	// space-padded on the right.
	Character Kind = 'C'
	// Numeric fields hold ASCII digit text, right-justified, space-padded
	// on the left.
	Numeric Kind = 'N'
)

// Field describes one column: its on-disk name, kind, byte width, and
// (for NUMERIC fields) decimal count.
type Field struct {
	Name     string
	Kind     Kind
	Width    int
	Decimals int
}

// Schema is an ordered sequence of fields plus the subset whose
// CHARACTER content must be shaped through the Iran System codec before
// being written.
type Schema struct {
	Fields       []Field
	PersianField map[string]bool
	// ZeroAsEmpty names CHARACTER fields that must be written as all
	// spaces when the source value is empty, "0", or numerically zero —
	// the field-specific empty-coercion exception of §4.3 (MON_PYM is
	// the only such field; everything else emits its literal text).
	ZeroAsEmpty map[string]bool
}

// RecordWidth is 1 (deletion flag) plus the sum of every field's width.
func (s Schema) RecordWidth() int {
	total := 1
	for _, f := range s.Fields {
		total += f.Width
	}
	return total
}

// HeaderWidth is 32 + 32*|fields| + 1 (the terminator byte).
func (s Schema) HeaderWidth() int {
	return 32 + 32*len(s.Fields) + 1
}

func persianSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// HeaderSchema is the DSKKAR00 one-row header table.
var HeaderSchema = Schema{
	PersianField: persianSet("DSK_NAME", "DSK_FARM", "DSK_ADRS", "DSK_DISC"),
	ZeroAsEmpty:  persianSet("MON_PYM"),
	Fields: []Field{
		{"DSK_ID", Character, 10, 0},
		{"DSK_NAME", Character, 30, 0},
		{"DSK_FARM", Character, 30, 0},
		{"DSK_ADRS", Character, 40, 0},
		{"DSK_KIND", Numeric, 1, 0},
		{"DSK_YY", Numeric, 2, 0},
		{"DSK_MM", Numeric, 2, 0},
		{"DSK_LISTNO", Character, 12, 0},
		{"DSK_DISC", Character, 30, 0},
		{"DSK_NUM", Numeric, 5, 0},
		{"DSK_TDD", Numeric, 6, 0},
		{"DSK_TROOZ", Numeric, 12, 0},
		{"DSK_TMAH", Numeric, 12, 0},
		{"DSK_TMAZ", Numeric, 12, 0},
		{"DSK_TMASH", Numeric, 12, 0},
		{"DSK_TTOTL", Numeric, 12, 0},
		{"DSK_TBIME", Numeric, 12, 0},
		{"DSK_TKOSO", Numeric, 12, 0},
		{"DSK_BIC", Numeric, 12, 0},
		{"DSK_RATE", Numeric, 5, 0},
		{"DSK_PRATE", Numeric, 2, 0},
		{"DSK_BIMH", Numeric, 12, 0},
		{"MON_PYM", Character, 3, 0},
		{"DSK_INC", Numeric, 12, 0},
		{"DSK_SPOUSE", Numeric, 12, 0},
	},
}

// WorkersSchema is the DSKWOR00 multi-row workers table.
var WorkersSchema = Schema{
	PersianField: persianSet(
		"DSW_FNAME", "DSW_LNAME", "DSW_DNAME",
		"DSW_IDPLC", "DSW_SEX", "DSW_NAT", "DSW_OCP",
	),
	Fields: []Field{
		{"DSW_ID", Character, 10, 0},
		{"DSW_YY", Character, 2, 0},
		{"DSW_MM", Character, 2, 0},
		{"DSW_LISTNO", Character, 11, 0},
		{"DSW_ID1", Character, 10, 0},
		{"DSW_FNAME", Character, 30, 0},
		{"DSW_LNAME", Character, 40, 0},
		{"DSW_DNAME", Character, 30, 0},
		{"DSW_IDNO", Character, 20, 0},
		{"DSW_IDPLC", Character, 30, 0},
		{"DSW_IDATE", Character, 8, 0},
		{"DSW_BDATE", Character, 8, 0},
		{"DSW_SEX", Character, 6, 0},
		{"DSW_NAT", Character, 12, 0},
		{"DSW_OCP", Character, 40, 0},
		{"DSW_SDATE", Character, 8, 0},
		{"DSW_EDATE", Character, 8, 0},
		{"DSW_DD", Numeric, 2, 0},
		{"DSW_ROOZ", Numeric, 13, 0},
		{"DSW_MAH", Numeric, 13, 0},
		{"DSW_MAZ", Numeric, 13, 0},
		{"DSW_MASH", Numeric, 13, 0},
		{"DSW_TOTL", Numeric, 13, 0},
		{"DSW_BIME", Numeric, 13, 0},
		{"DSW_PRATE", Character, 2, 0},
		{"DSW_JOB", Character, 6, 0},
		{"PER_NATCOD", Character, 10, 0},
		{"DSW_INC", Numeric, 13, 0},
		{"DSW_SPOUSE", Numeric, 13, 0},
	},
}

// TotalsFields maps each header aggregate field to the workers field it
// sums over, per §4.4.
var TotalsFields = map[string]string{
	"DSK_TDD":   "DSW_DD",
	"DSK_TROOZ": "DSW_ROOZ",
	"DSK_TMAH":  "DSW_MAH",
	"DSK_TMAZ":  "DSW_MAZ",
	"DSK_TMASH": "DSW_MASH",
	"DSK_TTOTL": "DSW_TOTL",
	"DSK_TBIME": "DSW_BIME",
	"DSK_TKOSO": "DSW_KOSO",
}
