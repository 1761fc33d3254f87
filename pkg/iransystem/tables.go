package iransystem

// Four positional mapping tables, each keyed by the CP-1256 byte of a
// letter and valued by the Iran System byte the shaper emits for that
// letter in the given position. A letter missing from a table passes
// through its CP-1256 byte unchanged (see encoder.go).
//
// Sourced from the Iran System consumer's own shaping tables; every
// entry here is a byte-for-byte port, not a design choice.

// isolatedMap: both neighbors break the connection (whitespace, ASCII,
// '؟', or a right-joining final letter before it in logical order).
var isolatedMap = map[byte]byte{
	48: 128, 49: 129, 50: 130, 51: 131, 52: 132,
	53: 133, 54: 134, 55: 135, 56: 136, 57: 137,
	161: 138, 191: 140, 193: 143, 194: 141, 195: 144,
	196: 248, 197: 144, 200: 146, 201: 249, 202: 150,
	203: 152, 204: 154, 205: 158, 206: 160, 207: 162,
	208: 163, 209: 164, 210: 165, 211: 167, 212: 169,
	213: 171, 214: 173, 216: 175, 217: 224, 218: 225,
	219: 229, 220: 139, 221: 233, 222: 235, 223: 237,
	225: 241, 227: 244, 228: 246, 229: 249, 230: 248,
	236: 253, 237: 253, 129: 148, 141: 156, 142: 166,
	152: 237, 144: 239,
}

// finalMap: the letter before it breaks the connection and the letter
// after it connects (right neighbor breaks, left neighbor connects), i.e.
// the letter begins a joined run in logical order.
var finalMap = map[byte]byte{
	48: 128, 49: 129, 50: 130, 51: 131, 52: 132,
	53: 133, 54: 134, 55: 135, 56: 136, 57: 137,
	161: 138, 191: 140, 193: 143, 194: 141, 195: 144,
	196: 248, 197: 144, 198: 254, 199: 144, 200: 147,
	201: 251, 202: 151, 203: 153, 204: 155, 205: 159,
	206: 161, 207: 162, 208: 163, 209: 164, 210: 165,
	211: 168, 212: 170, 213: 172, 214: 174, 216: 175,
	217: 224, 218: 228, 219: 232, 220: 139, 221: 234,
	222: 236, 223: 238, 225: 243, 227: 245, 228: 247,
	229: 251, 230: 248, 236: 254, 237: 254, 129: 149,
	141: 157, 142: 166, 152: 238, 144: 240,
}

// initialMap: the letter before it connects and the letter after it
// breaks the connection (left neighbor breaks, right neighbor connects),
// i.e. the letter ends a joined run in logical order.
var initialMap = map[byte]byte{
	48: 128, 49: 129, 50: 130, 51: 131, 52: 132,
	53: 133, 54: 134, 55: 135, 56: 136, 57: 137,
	161: 138, 191: 140, 193: 143, 194: 141, 195: 145,
	196: 248, 197: 145, 198: 252, 199: 145, 200: 146,
	201: 249, 202: 150, 203: 152, 204: 154, 205: 158,
	206: 160, 207: 162, 208: 163, 209: 164, 210: 165,
	211: 167, 212: 169, 213: 171, 214: 173, 216: 175,
	217: 224, 218: 226, 219: 230, 220: 139, 221: 233,
	222: 235, 223: 237, 225: 241, 227: 244, 228: 246,
	229: 249, 230: 248, 236: 252, 237: 252, 129: 148,
	141: 156, 142: 166, 152: 237, 144: 239,
}

// medialMap: both neighbors connect.
var medialMap = map[byte]byte{
	48: 128, 49: 129, 50: 130, 51: 131, 52: 132,
	53: 133, 54: 134, 55: 135, 56: 136, 57: 137,
	161: 138, 191: 140, 193: 143, 194: 141, 195: 145,
	196: 248, 197: 145, 198: 142, 199: 145, 200: 147,
	201: 250, 202: 151, 203: 153, 204: 155, 205: 159,
	206: 161, 207: 162, 208: 163, 209: 164, 210: 165,
	211: 168, 212: 170, 213: 172, 214: 174, 216: 175,
	217: 224, 218: 227, 219: 231, 220: 139, 221: 234,
	222: 236, 223: 238, 225: 243, 227: 245, 228: 247,
	229: 250, 230: 248, 236: 254, 237: 254, 129: 149,
	141: 157, 142: 166, 152: 238, 144: 240,
}

// rightJoiningFinalLetters: the set named RIGHT_JOINING_FINAL_LETTERS in
// §4.1 — letters that never connect to the letter following them (to
// their left in logical order), expressed as CP-1256 bytes:
// ء آ أ ؤ إ ا د ذ ر ز ژ و
var rightJoiningFinalLetters = map[byte]bool{
	193: true, // ء
	194: true, // آ
	195: true, // أ
	196: true, // ؤ
	197: true, // إ
	199: true, // ا
	207: true, // د
	208: true, // ذ
	209: true, // ر
	210: true, // ز
	142: true, // ژ
	230: true, // و
}

// decodeTable is the 256-entry Iran System byte -> Unicode mapping used
// by the decoder. Entry 0xF2 (lam-alef ligature) is the only multi-rune
// entry. Values left at "" below are filled in by init() for the ASCII
// range, which is identity.
var decodeTable [256]string

func init() {
	for i := 0; i < 0x80; i++ {
		decodeTable[i] = string(rune(i))
	}

	digits := "۰۱۲۳۴۵۶۷۸۹"
	digitRunes := []rune(digits)
	for i, r := range digitRunes {
		decodeTable[0x80+i] = string(r)
	}

	decodeTable[0x8A] = "،" // ،
	decodeTable[0x8B] = "ـ" // ـ
	decodeTable[0x8C] = "؟" // ؟

	decodeTable[0x8D] = "آ" // آ isolated
	decodeTable[0x8E] = "ئ" // ئ initial-medial
	decodeTable[0x8F] = "ء" // ء
	decodeTable[0x90] = "ا" // ا isolated
	decodeTable[0x91] = "ا" // ا final

	decodeTable[0x92] = "ب" // ب final-isolated
	decodeTable[0x93] = "ب" // ب initial-medial
	decodeTable[0x94] = "پ" // پ final-isolated
	decodeTable[0x95] = "پ" // پ initial-medial
	decodeTable[0x96] = "ت" // ت final-isolated
	decodeTable[0x97] = "ت" // ت initial-medial
	decodeTable[0x98] = "ث" // ث final-isolated
	decodeTable[0x99] = "ث" // ث initial-medial
	decodeTable[0x9A] = "ج" // ج final-isolated
	decodeTable[0x9B] = "ج" // ج initial-medial
	decodeTable[0x9C] = "چ" // چ final-isolated
	decodeTable[0x9D] = "چ" // چ initial-medial
	decodeTable[0x9E] = "ح" // ح final-isolated
	decodeTable[0x9F] = "ح" // ح initial-medial
	decodeTable[0xA0] = "خ" // خ final-isolated
	decodeTable[0xA1] = "خ" // خ initial-medial

	decodeTable[0xA2] = "د" // د
	decodeTable[0xA3] = "ذ" // ذ
	decodeTable[0xA4] = "ر" // ر
	decodeTable[0xA5] = "ز" // ز
	decodeTable[0xA6] = "ژ" // ژ

	decodeTable[0xA7] = "س" // س final-isolated
	decodeTable[0xA8] = "س" // س initial-medial
	decodeTable[0xA9] = "ش" // ش final-isolated
	decodeTable[0xAA] = "ش" // ش initial-medial
	decodeTable[0xAB] = "ص" // ص final-isolated
	decodeTable[0xAC] = "ص" // ص initial-medial
	decodeTable[0xAD] = "ض" // ض final-isolated
	decodeTable[0xAE] = "ض" // ض initial-medial
	decodeTable[0xAF] = "ط" // ط

	// Box-drawing range, carried unmodified for inspection completeness.
	boxDrawing := []string{
		"░", "▒", "▓", "│", "┤", "╡", "╢", "╖",
		"╕", "╣", "║", "╗", "╝", "╜", "╛", "┐",
		"└", "┴", "┬", "├", "─", "┼", "╞", "╟",
		"╚", "╔", "╩", "╦", "╠", "═", "╬", "╧",
		"╨", "╤", "╥", "╙", "╘", "╒", "╓", "╫",
		"╪", "┘", "┌", "█", "▄", "▌", "▐", "▀",
	}
	for i, s := range boxDrawing {
		decodeTable[0xB0+i] = s
	}

	decodeTable[0xE0] = "ظ" // ظ
	decodeTable[0xE1] = "ع" // ع isolated
	decodeTable[0xE2] = "ع" // ع final
	decodeTable[0xE3] = "ع" // ع medial
	decodeTable[0xE4] = "ع" // ع initial
	decodeTable[0xE5] = "غ" // غ isolated
	decodeTable[0xE6] = "غ" // غ final
	decodeTable[0xE7] = "غ" // غ medial
	decodeTable[0xE8] = "غ" // غ initial

	decodeTable[0xE9] = "ف" // ف final-isolated
	decodeTable[0xEA] = "ف" // ف initial-medial
	decodeTable[0xEB] = "ق" // ق final-isolated
	decodeTable[0xEC] = "ق" // ق initial-medial
	decodeTable[0xED] = "ک" // ک final-isolated
	decodeTable[0xEE] = "ک" // ک initial-medial
	decodeTable[0xEF] = "گ" // گ final-isolated
	decodeTable[0xF0] = "گ" // گ initial-medial

	decodeTable[0xF1] = "ل"     // ل final-isolated
	decodeTable[0xF2] = "لا" // لا ligature
	decodeTable[0xF3] = "ل"     // ل initial-medial

	decodeTable[0xF4] = "م" // م final-isolated
	decodeTable[0xF5] = "م" // م initial-medial
	decodeTable[0xF6] = "ن" // ن final-isolated
	decodeTable[0xF7] = "ن" // ن initial-medial
	decodeTable[0xF8] = "و" // و

	decodeTable[0xF9] = "ه" // ه final-isolated
	decodeTable[0xFA] = "ه" // ه medial
	decodeTable[0xFB] = "ه" // ه initial

	decodeTable[0xFC] = "ی" // ی final
	decodeTable[0xFD] = "ی" // ی isolated
	decodeTable[0xFE] = "ی" // ی initial-medial

	decodeTable[0xFF] = " "
}
