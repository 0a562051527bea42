package operator

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInteger decodes an integer literal as it appears in source: optional
// 0x/0o/0b base prefix, underscores as digit group separators. The sign is
// never part of the literal; unary minus is its own node.
func ParseInteger(text string) (int64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "0X"):
		base, clean = 16, clean[2:]
	case strings.HasPrefix(clean, "0o"), strings.HasPrefix(clean, "0O"):
		base, clean = 8, clean[2:]
	case strings.HasPrefix(clean, "0b"), strings.HasPrefix(clean, "0B"):
		base, clean = 2, clean[2:]
	}
	if clean == "" {
		return 0, fmt.Errorf("empty integer literal %q", text)
	}
	n, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return 0, fmt.Errorf("integer literal %q: %w", text, err)
	}
	return n, nil
}

// ParseFloat decodes a float literal, allowing underscores and scientific
// notation.
func ParseFloat(text string) (float64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("float literal %q: %w", text, err)
	}
	return f, nil
}

// ParseChar decodes a ?c character literal to its code point. The text
// includes the leading question mark; the body may be a plain rune or any
// escape sequence (?\n, ?\x41, ?\u{1F600}).
func ParseChar(text string) (rune, error) {
	body, ok := strings.CutPrefix(text, "?")
	if !ok || body == "" {
		return 0, fmt.Errorf("char literal %q: missing body", text)
	}
	if body[0] == '\\' {
		cp, _, ok := DecodeEscape(body)
		if !ok {
			return 0, fmt.Errorf("char literal %q: invalid escape", text)
		}
		return cp, nil
	}
	runes := []rune(body)
	if len(runes) != 1 {
		return 0, fmt.Errorf("char literal %q: more than one code point", text)
	}
	return runes[0], nil
}
