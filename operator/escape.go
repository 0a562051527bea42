package operator

import "strconv"

// Named escape sequences and the code points they denote.
var namedEscapes = map[byte]rune{
	'0':  0,
	'a':  7,
	'b':  8,
	'd':  127,
	'e':  27,
	'f':  12,
	'n':  10,
	'r':  13,
	's':  32,
	't':  9,
	'v':  11,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'#':  '#',
}

// DecodeEscape decodes one escape sequence as written in source, backslash
// included. bytewise reports a \xHH escape, which denotes a raw byte and may
// form invalid UTF-8 when appended; the caller must append it as a byte, not
// a rune. Escaped punctuation (delimiters, \/ in sigils) decodes to the
// character itself. ok is false for unknown or malformed sequences; the
// caller substitutes the replacement character and reports a diagnostic.
func DecodeEscape(raw string) (cp rune, bytewise bool, ok bool) {
	if len(raw) < 2 || raw[0] != '\\' {
		return 0, false, false
	}
	c := raw[1]
	if r, found := namedEscapes[c]; found && len(raw) == 2 {
		return r, false, true
	}
	switch c {
	case 'x':
		return decodeHex(raw[2:])
	case 'u':
		return decodeUnicode(raw[2:])
	}
	// Escaped punctuation passes through. Alphanumerics would have to be
	// named escapes, so anything left here is unknown.
	if len(raw) == 2 && !isAlnumByte(c) {
		return rune(c), false, true
	}
	return 0, false, false
}

// decodeHex handles the \xHH body: one or two hex digits, value is a byte.
func decodeHex(body string) (rune, bool, bool) {
	if len(body) == 0 || len(body) > 2 || !allHex(body) {
		return 0, false, false
	}
	n, err := strconv.ParseUint(body, 16, 16)
	if err != nil {
		return 0, false, false
	}
	return rune(n), true, true
}

// decodeUnicode handles the \u bodies: exactly four hex digits, or one to
// six digits in braces.
func decodeUnicode(body string) (rune, bool, bool) {
	if len(body) >= 2 && body[0] == '{' && body[len(body)-1] == '}' {
		digits := body[1 : len(body)-1]
		if len(digits) == 0 || len(digits) > 6 || !allHex(digits) {
			return 0, false, false
		}
		n, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || n > 0x10FFFF {
			return 0, false, false
		}
		return rune(n), false, true
	}
	if len(body) != 4 || !allHex(body) {
		return 0, false, false
	}
	n, err := strconv.ParseUint(body, 16, 32)
	if err != nil {
		return 0, false, false
	}
	return rune(n), false, true
}

func allHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return len(s) > 0
}

func isAlnumByte(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
