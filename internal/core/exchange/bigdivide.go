package exchange

import (
	"math/bits"

	"github.com/LeJamon/goStellard/internal/core/ledger"
)

// Rounding selects how bigDivide treats a non-zero remainder.
type Rounding int

const (
	RoundDown Rounding = iota
	RoundUp
)

// u128 is an unsigned 128-bit intermediate for products of two int64 amounts.
// Amounts and price terms are non-negative everywhere in this package, so the
// unsigned representation loses nothing.
type u128 struct {
	hi, lo uint64
}

func mulU128(a, b int64) u128 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return u128{hi: hi, lo: lo}
}

func (x u128) cmp(y u128) int {
	if x.hi != y.hi {
		if x.hi < y.hi {
			return -1
		}
		return 1
	}
	if x.lo != y.lo {
		if x.lo < y.lo {
			return -1
		}
		return 1
	}
	return 0
}

// sub requires x >= y.
func (x u128) sub(y u128) u128 {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	hi, _ := bits.Sub64(x.hi, y.hi, borrow)
	return u128{hi: hi, lo: lo}
}

// divSmall divides x by d, d > 0 and small enough that the per-limb quotients
// fit (always true for the divisors used here).
func (x u128) divSmall(d uint64) u128 {
	hi := x.hi / d
	rem := x.hi % d
	lo, _ := bits.Div64(rem, x.lo, d)
	return u128{hi: hi, lo: lo}
}

// bigDivide computes (a*b)/c with 128-bit intermediates and the requested
// rounding. It reports ok=false when the quotient does not fit in an int64.
// a and b must be non-negative, c strictly positive.
func bigDivide(a, b, c int64, round Rounding) (int64, bool) {
	num := mulU128(a, b)
	den := uint64(c)

	if round == RoundUp {
		lo, carry := bits.Add64(num.lo, den-1, 0)
		num = u128{hi: num.hi + carry, lo: lo}
	}
	if num.hi >= den {
		return 0, false
	}
	q, _ := bits.Div64(num.hi, num.lo, den)
	if q > uint64(ledger.MaxInt64) {
		return 0, false
	}
	return int64(q), true
}

// bigDivideClamp is bigDivide saturating at MaxInt64 instead of reporting
// overflow, for call sites where the result is immediately capped anyway.
func bigDivideClamp(a, b, c int64, round Rounding) int64 {
	q, ok := bigDivide(a, b, c, round)
	if !ok {
		return ledger.MaxInt64
	}
	return q
}
