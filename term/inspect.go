package term

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Inspect renders a term in Elixir literal syntax. It is the rendering the
// CLI prints and golden tests compare against, so it favors the stable
// classic forms: keyword lists print sugared, charlists print as integer
// lists, module atoms print bare.
func Inspect(t Term) string {
	return string(appendTerm(nil, t))
}

func appendTerm(dst []byte, t Term) []byte {
	switch v := t.(type) {
	case Atom:
		return appendAtom(dst, v)
	case Integer:
		return strconv.AppendInt(dst, int64(v), 10)
	case Float:
		return appendFloat(dst, float64(v))
	case Binary:
		return appendBinary(dst, string(v))
	case List:
		return appendList(dst, v)
	case Tuple:
		dst = append(dst, '{')
		for i, e := range v {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = appendTerm(dst, e)
		}
		return append(dst, '}')
	case nil:
		return append(dst, "nil"...)
	}
	return append(dst, "<unknown>"...)
}

func appendAtom(dst []byte, a Atom) []byte {
	s := string(a)
	switch s {
	case "nil", "true", "false":
		return append(dst, s...)
	}
	if rest, ok := strings.CutPrefix(s, "Elixir."); ok && isAliasPath(rest) {
		return append(dst, rest...)
	}
	dst = append(dst, ':')
	if isPlainAtomName(s) || isOperatorName(s) {
		return append(dst, s...)
	}
	dst = append(dst, '"')
	dst = appendEscaped(dst, s)
	return append(dst, '"')
}

func appendFloat(dst []byte, f float64) []byte {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	// Elixir renders exponents with an explicit mantissa dot: 1.0e10.
	if i := strings.IndexAny(s, "eE"); i > 0 && !strings.Contains(s[:i], ".") {
		s = s[:i] + ".0" + s[i:]
	}
	return append(dst, s...)
}

func appendBinary(dst []byte, s string) []byte {
	if !printableString(s) {
		// Raw bytes render as a bitstring, the way Elixir inspects them.
		dst = append(dst, "<<"...)
		for i := 0; i < len(s); i++ {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			dst = strconv.AppendUint(dst, uint64(s[i]), 10)
		}
		return append(dst, ">>"...)
	}
	dst = append(dst, '"')
	dst = appendEscaped(dst, s)
	return append(dst, '"')
}

func appendEscaped(dst []byte, s string) []byte {
	for _, r := range s {
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return dst
}

func appendList(dst []byte, l List) []byte {
	if len(l) > 0 && isKeywordList(l) {
		dst = append(dst, '[')
		for i, e := range l {
			if i > 0 {
				dst = append(dst, ", "...)
			}
			pair := e.(Tuple)
			key := string(pair[0].(Atom))
			if isPlainAtomName(key) || isOperatorName(key) {
				dst = append(dst, key...)
			} else {
				dst = append(dst, '"')
				dst = appendEscaped(dst, key)
				dst = append(dst, '"')
			}
			dst = append(dst, ": "...)
			dst = appendTerm(dst, pair[1])
		}
		return append(dst, ']')
	}
	dst = append(dst, '[')
	for i, e := range l {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendTerm(dst, e)
	}
	return append(dst, ']')
}

// isKeywordList reports whether every element is a {atom, value} pair.
func isKeywordList(l List) bool {
	for _, e := range l {
		tup, ok := e.(Tuple)
		if !ok || len(tup) != 2 {
			return false
		}
		if _, ok := tup[0].(Atom); !ok {
			return false
		}
	}
	return true
}

func isPlainAtomName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLower(r) {
				return false
			}
			continue
		}
		if r == '?' || r == '!' {
			return i == len(s)-len(string(r))
		}
		if r != '_' && r != '@' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var operatorAtomNames = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "++": true, "--": true,
	"+++": true, "---": true, "==": true, "!=": true, "===": true, "!==": true,
	"=~": true, "<": true, ">": true, "<=": true, ">=": true, "&&": true,
	"||": true, "&&&": true, "|||": true, "!": true, "^": true, "~~~": true,
	"^^^": true, "<>": true, "|>": true, "<<<": true, ">>>": true, "<<~": true,
	"~>>": true, "<~": true, "~>": true, "<~>": true, "<|>": true, "=": true,
	"=>": true, "|": true, "::": true, "->": true, "<-": true, "\\\\": true,
	"..": true, "..//": true, "...": true, ".": true, "@": true, "&": true,
	"%": true, "%{}": true, "{}": true, "<<>>": true, "not": true, "and": true,
	"or": true, "in": true, "when": true, "fn": true, "__block__": true,
	"__aliases__": true,
}

func isOperatorName(s string) bool { return operatorAtomNames[s] }

func isAliasPath(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		first, _ := utf8.DecodeRuneInString(seg)
		if !unicode.IsUpper(first) {
			return false
		}
		for _, r := range seg {
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

func printableString(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch r {
		case '\n', '\t', '\r', '\v', '\b', '\f', '\a', 0x1b:
			continue
		}
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
