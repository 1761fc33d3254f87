package iransystem

import (
	"bytes"
	"testing"
)

func TestEncodeDigits(t *testing.T) {
	got := Encode("0123456789")
	want := []byte{128, 129, 130, 131, 132, 133, 134, 135, 136, 137}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(digits) = %v, want %v", got, want)
	}
}

func TestEncodeASCIILetterRoundTrip(t *testing.T) {
	// property: for ASCII strings with no digits and no brackets (both
	// of which are deliberately rewritten by the codec), encoding then
	// decoding recovers the original bytes exactly. Non-numeric input is
	// reversed by the encoder, so the decoder's own reversal undoes it.
	tests := []string{"hello world", "ABC xyz", "a.b,c"}
	for _, s := range tests {
		encoded := Encode(s)
		decoded := Decode(encoded, true)
		if decoded != s {
			t.Errorf("round trip for %q: got %q", s, decoded)
		}
	}
}

func TestEncodeLamAlefLigature(t *testing.T) {
	encoded := Encode("لا")
	if !bytes.Contains(encoded, []byte{242}) {
		t.Errorf("Encode(\"لا\") = %v, expected byte 242 (lam-alef ligature)", encoded)
	}
	if bytes.Contains(encoded, []byte{243, 145}) {
		t.Errorf("Encode(\"لا\") = %v, should not contain adjacent 243,145", encoded)
	}
}

func TestEncodeVisualReversal(t *testing.T) {
	s := "محمد"
	encoded := Encode(s)

	reversed := make([]byte, len(encoded))
	for i, b := range encoded {
		reversed[len(encoded)-1-i] = b
	}

	// encode_without_reversal is not exported, but reversing our output
	// again must give back the pre-reversal shaped sequence, which is
	// exactly what reversing twice means; this checks the reversal is
	// involutive and non-trivial (i.e. actually happened for multi-byte
	// non-numeric input).
	if len(encoded) > 1 && bytes.Equal(encoded, reversed) {
		t.Errorf("expected reversal to change byte order for %q, got palindrome-shaped output %v", s, encoded)
	}
}

func TestEncodeWorkerNameScenario(t *testing.T) {
	// literal end-to-end scenario: single worker DSW_FNAME = "علی"
	got := Encode("علی")
	want := []byte{0xFC, 0xF3, 0xE4}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(\"علی\") = % X, want % X", got, want)
	}
}

func TestEncodeTwoWordPhrase(t *testing.T) {
	// literal scenario: encode("حسین محمد") -> F6 FE A8 9F A2 F5 9F F5
	got := Encode("حسین محمد")
	want := []byte{0xF6, 0xFE, 0xA8, 0x9F, 0xA2, 0xF5, 0x9F, 0xF5}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(\"حسین محمد\") = % X, want % X", got, want)
	}
}

func TestEncodeBracketMirroring(t *testing.T) {
	got := Encode("(test)")
	// each bracket is swapped and then the whole sequence is reversed:
	// "(test)" -> ")test(" -> "(tset)", so the brackets still face the
	// right way once the text is read in visual order
	if got[0] != '(' {
		t.Errorf("expected reversed/mirrored output to start with '(', got %q", got)
	}
	if got[len(got)-1] != ')' {
		t.Errorf("expected reversed/mirrored output to end with ')', got %q", got)
	}
}
