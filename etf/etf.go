// Package etf serializes quoted terms to the Erlang External Term Format,
// the byte shape :erlang.term_to_binary/1 produces. Downstream tools compare
// exported quoted terms against the reference AST at this level, so the
// encoder mirrors the distribution format's representation choices exactly:
// small integer lists ride the compact STRING_EXT encoding and two-byte
// atoms use the UTF-8 tags.
package etf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Format tag bytes.
const (
	versionByte = 131

	tagSmallInteger  = 97
	tagInteger       = 98
	tagNewFloat      = 70
	tagSmallTuple    = 104
	tagLargeTuple    = 105
	tagNil           = 106
	tagString        = 107
	tagList          = 108
	tagBinary        = 109
	tagSmallBig      = 110
	tagAtomUTF8      = 118
	tagSmallAtomUTF8 = 119
)

// maxStringLen is the element limit of STRING_EXT, a 2-byte length field.
const maxStringLen = 65535

// appendAtom appends an atom. Short names use the one-byte-length tag.
func appendAtom(dst []byte, name string) ([]byte, error) {
	if len(name) < 256 {
		dst = append(dst, tagSmallAtomUTF8, byte(len(name)))
		return append(dst, name...), nil
	}
	if len(name) > maxStringLen {
		return nil, fmt.Errorf("etf: atom of %d bytes exceeds the format limit", len(name))
	}
	dst = append(dst, tagAtomUTF8)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(name)))
	return append(dst, name...), nil
}

// appendInteger appends an integer using the smallest applicable encoding.
func appendInteger(dst []byte, n int64) []byte {
	if n >= 0 && n < 256 {
		return append(dst, tagSmallInteger, byte(n))
	}
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		dst = append(dst, tagInteger)
		return binary.BigEndian.AppendUint32(dst, uint32(int32(n)))
	}
	return appendSmallBig(dst, n)
}

// appendSmallBig encodes 64-bit values outside the INTEGER_EXT range:
// little-endian magnitude bytes after a sign byte.
func appendSmallBig(dst []byte, n int64) []byte {
	sign := byte(0)
	mag := uint64(n)
	if n < 0 {
		sign = 1
		mag = uint64(-n)
	}
	var digits [8]byte
	binary.LittleEndian.PutUint64(digits[:], mag)
	used := 8
	for used > 1 && digits[used-1] == 0 {
		used--
	}
	dst = append(dst, tagSmallBig, byte(used), sign)
	return append(dst, digits[:used]...)
}

// appendFloat appends the IEEE-754 NEW_FLOAT encoding.
func appendFloat(dst []byte, f float64) []byte {
	dst = append(dst, tagNewFloat)
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(f))
}

// appendBinary appends a binary: 4-byte length plus raw bytes.
func appendBinary(dst []byte, data []byte) []byte {
	dst = append(dst, tagBinary)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}

// appendEmptyList appends NIL_EXT, the empty list.
func appendEmptyList(dst []byte) []byte {
	return append(dst, tagNil)
}

// appendString appends STRING_EXT: the compact form of a list whose
// elements are all integers in 0..255. Callers must have checked both the
// element range and the length limit.
func appendString(dst []byte, bytes []byte) []byte {
	dst = append(dst, tagString)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(bytes)))
	return append(dst, bytes...)
}

// appendListHeader appends the LIST_EXT header for n elements. The caller
// appends the elements and finishes with AppendEmptyList for the proper
// tail.
func appendListHeader(dst []byte, n int) []byte {
	dst = append(dst, tagList)
	return binary.BigEndian.AppendUint32(dst, uint32(n))
}

// appendTupleHeader appends the tuple header for the given arity.
func appendTupleHeader(dst []byte, arity int) ([]byte, error) {
	if arity < 256 {
		return append(dst, tagSmallTuple, byte(arity)), nil
	}
	if arity > math.MaxInt32 {
		return nil, fmt.Errorf("etf: tuple arity %d exceeds the format limit", arity)
	}
	dst = append(dst, tagLargeTuple)
	return binary.BigEndian.AppendUint32(dst, uint32(arity)), nil
}
