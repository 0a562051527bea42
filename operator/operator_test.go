package operator

import "testing"

// ============================================================
// Precedence table
// ============================================================

func TestPrecedenceOrdering(t *testing.T) {
	// Each operator must bind tighter than the one before it.
	weakest := []string{"when", "::", "|", "=", "or", "and", "==", "<", "|>", "in", "..", "+", "*", "**", "."}
	for i := 1; i < len(weakest); i++ {
		lo, hi := weakest[i-1], weakest[i]
		if Precedence(lo) >= Precedence(hi) {
			t.Errorf("%s (%d) should bind looser than %s (%d)",
				lo, Precedence(lo), hi, Precedence(hi))
		}
	}
}

func TestAssociativity(t *testing.T) {
	rights := []string{"=", "++", "<>", "..", "when", "::", "|", "->"}
	for _, op := range rights {
		if Associativity(op) != Right {
			t.Errorf("%s should be right-associative", op)
		}
	}
	lefts := []string{"+", "*", "|>", "==", "in", "."}
	for _, op := range lefts {
		if Associativity(op) != Left {
			t.Errorf("%s should be left-associative", op)
		}
	}
}

func TestUnaryBinaryClassification(t *testing.T) {
	if !IsUnary("-") || !IsBinary("-") {
		t.Error("- is both unary and binary")
	}
	if IsBinary("!") {
		t.Error("! has no binary form")
	}
	if IsUnary("*") {
		t.Error("* has no unary form")
	}
	if !IsUnary("@") {
		t.Error("@ is unary")
	}
	if !Known("not in") || !IsBinary("not in") {
		t.Error("not in is a binary operator")
	}
	if Known(":-") {
		t.Error(":- is not an operator")
	}
}

func TestPatternLegality(t *testing.T) {
	legal := []string{"=", "|", "::", "<>", "++", "^", "when", "..", "-", "\\\\"}
	for _, op := range legal {
		if !ValidInPattern(op) {
			t.Errorf("%s should be legal in patterns", op)
		}
	}
	illegal := []string{"|>", "&&", "||", "==", "!", "--", "in", "**", "<~>"}
	for _, op := range illegal {
		if ValidInPattern(op) {
			t.Errorf("%s should be illegal in patterns", op)
		}
	}
}

// ============================================================
// Numeric literals
// ============================================================

func TestParseInteger(t *testing.T) {
	cases := []struct {
		text string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"1_000_000", 1000000},
		{"0x1F", 31},
		{"0xff", 255},
		{"0o777", 511},
		{"0b1010", 10},
		{"0b1010_1010", 170},
	}
	for _, c := range cases {
		got, err := ParseInteger(c.text)
		if err != nil {
			t.Errorf("ParseInteger(%q): %v", c.text, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseInteger(%q) = %d, want %d", c.text, got, c.want)
		}
	}
	if _, err := ParseInteger("0x"); err == nil {
		t.Error("ParseInteger(0x) should fail")
	}
	if _, err := ParseInteger("12abc"); err == nil {
		t.Error("ParseInteger(12abc) should fail")
	}
}

func TestParseFloat(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"1.0", 1.0},
		{"3.14", 3.14},
		{"1_000.5", 1000.5},
		{"1.0e10", 1.0e10},
		{"2.5e-3", 2.5e-3},
	}
	for _, c := range cases {
		got, err := ParseFloat(c.text)
		if err != nil {
			t.Errorf("ParseFloat(%q): %v", c.text, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseFloat(%q) = %g, want %g", c.text, got, c.want)
		}
	}
}

func TestParseChar(t *testing.T) {
	cases := []struct {
		text string
		want rune
	}{
		{"?a", 'a'},
		{"?Z", 'Z'},
		{"? ", ' '},
		{"?\\n", '\n'},
		{"?\\s", ' '},
		{"?\\\\", '\\'},
		{"?\\x41", 'A'},
		{"?\\u{1F600}", 0x1F600},
		{"?é", 'é'},
	}
	for _, c := range cases {
		got, err := ParseChar(c.text)
		if err != nil {
			t.Errorf("ParseChar(%q): %v", c.text, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseChar(%q) = %U, want %U", c.text, got, c.want)
		}
	}
	if _, err := ParseChar("?ab"); err == nil {
		t.Error("ParseChar(?ab) should fail")
	}
}

// ============================================================
// Escape sequences
// ============================================================

func TestDecodeEscapeNamed(t *testing.T) {
	cases := []struct {
		raw  string
		want rune
	}{
		{`\n`, '\n'},
		{`\t`, '\t'},
		{`\r`, '\r'},
		{`\s`, ' '},
		{`\0`, 0},
		{`\a`, 7},
		{`\e`, 27},
		{`\\`, '\\'},
		{`\"`, '"'},
		{`\#`, '#'},
	}
	for _, c := range cases {
		got, bytewise, ok := DecodeEscape(c.raw)
		if !ok || bytewise {
			t.Errorf("DecodeEscape(%q) ok=%v bytewise=%v", c.raw, ok, bytewise)
			continue
		}
		if got != c.want {
			t.Errorf("DecodeEscape(%q) = %U, want %U", c.raw, got, c.want)
		}
	}
}

func TestDecodeEscapeHexIsBytewise(t *testing.T) {
	got, bytewise, ok := DecodeEscape(`\xFF`)
	if !ok || !bytewise || got != 0xFF {
		t.Errorf("DecodeEscape(\\xFF) = %U bytewise=%v ok=%v", got, bytewise, ok)
	}
	got, _, ok = DecodeEscape(`\x7`)
	if !ok || got != 7 {
		t.Errorf("single hex digit: got %U ok=%v", got, ok)
	}
}

func TestDecodeEscapeUnicode(t *testing.T) {
	got, _, ok := DecodeEscape(`A`)
	if !ok || got != 'A' {
		t.Errorf("\\u0041 = %U ok=%v", got, ok)
	}
	got, _, ok = DecodeEscape(`\u{1F600}`)
	if !ok || got != 0x1F600 {
		t.Errorf("\\u{1F600} = %U ok=%v", got, ok)
	}
	if _, _, ok := DecodeEscape(`\u{110000}`); ok {
		t.Error("code point above U+10FFFF should be rejected")
	}
	if _, _, ok := DecodeEscape(`\u12`); ok {
		t.Error("\\u needs four digits outside braces")
	}
}

func TestDecodeEscapeDelimiters(t *testing.T) {
	for _, raw := range []string{`\)`, `\/`, `\(`, `\]`} {
		got, _, ok := DecodeEscape(raw)
		if !ok || got != rune(raw[1]) {
			t.Errorf("DecodeEscape(%q) = %U ok=%v", raw, got, ok)
		}
	}
}

func TestDecodeEscapeInvalid(t *testing.T) {
	for _, raw := range []string{`\q`, `\8`, `\xZZ`, `\u{}`, `\`, `x`} {
		if _, _, ok := DecodeEscape(raw); ok {
			t.Errorf("DecodeEscape(%q) should fail", raw)
		}
	}
}
