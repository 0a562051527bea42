package etf

import (
	"fmt"

	"github.com/exalt-dev/exalt/term"
)

// Encode serializes t with the leading version byte.
func Encode(t term.Term) ([]byte, error) {
	return AppendEncode(nil, t)
}

// AppendEncode appends the full encoding of t onto dst, version byte
// included.
func AppendEncode(dst []byte, t term.Term) ([]byte, error) {
	dst = append(dst, versionByte)
	return appendTerm(dst, t)
}

func appendTerm(dst []byte, t term.Term) ([]byte, error) {
	switch v := t.(type) {
	case term.Atom:
		return appendAtom(dst, string(v))
	case term.Integer:
		return appendInteger(dst, int64(v)), nil
	case term.Float:
		return appendFloat(dst, float64(v)), nil
	case term.Binary:
		return appendBinary(dst, []byte(v)), nil
	case term.List:
		return appendList(dst, v)
	case term.Tuple:
		var err error
		dst, err = appendTupleHeader(dst, len(v))
		if err != nil {
			return nil, err
		}
		for _, e := range v {
			dst, err = appendTerm(dst, e)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	case nil:
		return appendAtom(dst, "nil")
	}
	return nil, fmt.Errorf("etf: cannot encode %T", t)
}

func appendList(dst []byte, l term.List) ([]byte, error) {
	if len(l) == 0 {
		return appendEmptyList(dst), nil
	}
	if bytes, ok := byteList(l); ok {
		return appendString(dst, bytes), nil
	}
	dst = appendListHeader(dst, len(l))
	var err error
	for _, e := range l {
		dst, err = appendTerm(dst, e)
		if err != nil {
			return nil, err
		}
	}
	return appendEmptyList(dst), nil
}

// byteList reports whether l is a charlist-shaped list of byte-range
// integers short enough for STRING_EXT, and returns its bytes.
func byteList(l term.List) ([]byte, bool) {
	if len(l) > maxStringLen {
		return nil, false
	}
	out := make([]byte, len(l))
	for i, e := range l {
		n, ok := e.(term.Integer)
		if !ok || n < 0 || n > 255 {
			return nil, false
		}
		out[i] = byte(n)
	}
	return out, true
}
