// Package call matches call sites against definition clauses by arity.
// A clause head with default parameters accepts a closed range of argument
// counts rather than one number, and a site piped through |> carries one
// argument more than it spells out; both adjustments live here so the
// resolver and tool consumers compare plain integers.
package call

import (
	"fmt"
	"strconv"
)

// ArityInterval is the inclusive range of argument counts a definition
// clause accepts. Primary counts the required parameters; parameters with a
// \\ default raise Secondary only. Primary <= Secondary always holds for
// intervals produced by ClauseAt.
type ArityInterval struct {
	Primary   uint32
	Secondary uint32
}

// NewArityInterval returns the single-point interval at n.
func NewArityInterval(n uint32) ArityInterval {
	return ArityInterval{Primary: n, Secondary: n}
}

// Contains reports whether arity falls inside the interval.
func (iv ArityInterval) Contains(arity int) bool {
	return arity >= 0 && uint32(arity) >= iv.Primary && uint32(arity) <= iv.Secondary
}

func (iv ArityInterval) String() string {
	if iv.Primary == iv.Secondary {
		return strconv.FormatUint(uint64(iv.Primary), 10)
	}
	return fmt.Sprintf("%d..%d", iv.Primary, iv.Secondary)
}
