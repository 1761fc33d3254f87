package iransystem

import "strings"

// Decode converts Iran System bytes back to a Unicode string. Iran
// System stores text in visual order, so by default the decoded runes
// are reversed to recover logical reading order; pass reverse=false to
// see the bytes exactly as they would be displayed (useful for
// debugging a raw field dump).
//
// Decoding is lossy: positional variants of a letter collapse to its
// base form and the lam-alef ligature at byte 0xF2 expands to two
// runes. Decoded text must not be re-encoded and compared byte-for-byte
// against the original input.
func Decode(b []byte, reverse bool) string {
	var sb strings.Builder
	for _, by := range b {
		sb.WriteString(decodeTable[by])
	}
	text := sb.String()

	if !reverse {
		return text
	}

	runes := []rune(text)
	for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
		runes[l], runes[r] = runes[r], runes[l]
	}
	return string(runes)
}

// DecodeField trims the trailing padding a DBF CHARACTER field carries
// (spaces, and any stray NUL left over from a short write) before
// decoding, matching how the Iran System bytes sit inside a fixed-width
// record.
func DecodeField(field []byte) string {
	trimmed := strings.TrimRight(string(field), " \x00")
	return Decode([]byte(trimmed), true)
}
