// Package iransystem implements the Iran System single-byte Persian text
// encoding used by the Social Security Organization's legacy DBF consumer:
// a context-sensitive shaping codec (isolated/final/initial/medial glyph
// selection, a lam-alef ligature rule) plus the visual-order storage
// convention that distinguishes it from ordinary logical-order Unicode.
package iransystem

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// normalizePersian maps Persian-specific letters onto the Arabic
// repertoire the shaper's mapping tables are defined over. گ, پ, چ, ژ
// are left as-is; the tables carry dedicated entries for them.
func normalizePersian(s string) string {
	replacer := strings.NewReplacer(
		"ی", "ي", // ی -> ي
		"ک", "ك", // ک -> ك
	)
	return replacer.Replace(s)
}

// isNumeric reports whether s contains only ASCII digits once whitespace
// is stripped, matching the "is-numeric-string" input flag of §4.1.
func isNumeric(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isWhitespaceByte(b byte) bool {
	switch b {
	case 8, 9, 10, 13, 27, 32, 0:
		return true
	}
	return false
}

func isASCIILetterRange(b byte) bool {
	return b > 31 && b < 128
}

// charBreaks implements char_cond: whitespace, ASCII-range byte, or the
// CP-1256 byte for '؟'.
func charBreaks(b byte) bool {
	return isWhitespaceByte(b) || isASCIILetterRange(b) || b == 191
}

// mirrorPair swaps ASCII bracket pairs so their visual meaning survives
// the final reversal step.
var mirrorPair = map[byte]byte{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

// asciiRewrite implements the ASCII passthrough rule: digits shift by 80
// into the shaper's digit range, bracket pairs mirror, everything else
// in 32..<128 passes through unchanged.
func asciiRewrite(b byte) byte {
	if b >= '0' && b <= '9' {
		return b + 80
	}
	if swapped, ok := mirrorPair[b]; ok {
		return swapped
	}
	return b
}

// shapedByte resolves the Iran System byte for cur given its
// neighbors, selecting one of the four positional mapping tables per the
// §4.1 selection rule.
func shapedByte(prev, cur, next byte) byte {
	prevBreaks := charBreaks(prev) || rightJoiningFinalLetters[prev]
	nextBreaks := charBreaks(next)

	var table map[byte]byte
	switch {
	case prevBreaks && nextBreaks:
		table = isolatedMap
	case prevBreaks:
		table = finalMap
	case nextBreaks:
		table = initialMap
	default:
		table = medialMap
	}

	if mapped, ok := table[cur]; ok {
		return mapped
	}
	return cur
}

// Encode converts a Unicode Persian/Arabic string into the Iran System
// byte sequence the legacy consumer expects. The caller is responsible
// for width padding/truncation (the DBF writer does this per field).
func Encode(text string) []byte {
	normalized := normalizePersian(text)
	padded := " " + normalized + " "

	enc := encoding.ReplaceUnsupported(charmap.Windows1256.NewEncoder())
	cp1256, err := enc.String(padded)
	if err != nil {
		// Runes CP-1256 cannot encode are replaced by the codepage's
		// replacement byte above; should String still fail, the padded
		// text is shaped byte by byte as it is.
		cp1256 = padded
	}
	raw := []byte(cp1256)

	result := make([]byte, 0, len(raw))
	var prevEmitted byte

	for i := 0; i < len(raw); i++ {
		b := raw[i]

		var cur byte
		switch {
		case isASCIILetterRange(b):
			cur = asciiRewrite(b)
		case i > 0 && i < len(raw)-1:
			cur = shapedByte(raw[i-1], b, raw[i+1])
		default:
			continue
		}

		// Lam-Alef ligature: shaped Alef "initial" (145) immediately
		// after a shaped Lam "final" (243) collapses into a single
		// precomposed ligature byte (242), discarding the Alef.
		if cur == 145 && prevEmitted == 243 {
			result[len(result)-1] = 242
			prevEmitted = 242
			continue
		}

		result = append(result, cur)
		prevEmitted = cur
	}

	// Strip the leading/trailing padding space that was added before
	// shaping (each survives as one emitted byte via the ASCII branch).
	if len(result) > 2 {
		result = result[1 : len(result)-1]
	}

	if !isNumeric(text) {
		for l, r := 0, len(result)-1; l < r; l, r = l+1, r-1 {
			result[l], result[r] = result[r], result[l]
		}
	}

	return result
}
