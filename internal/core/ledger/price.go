package ledger

import "fmt"

// Price is an exact rational exchange rate: N units of the asset being
// bought per D units of the asset being sold. Both terms are positive;
// constructing a price with a non-positive term is a programmer error, not a
// recoverable failure, so NewPrice panics.
//
// Prices are immutable and compared by cross-multiplication so no precision
// is ever lost. The terms are int32 so that every cross product fits in an
// int64 without overflow.
type Price struct {
	N int32
	D int32
}

// NewPrice builds a price from positive numerator and denominator.
func NewPrice(n, d int32) Price {
	if n <= 0 || d <= 0 {
		panic(fmt.Sprintf("ledger: invalid price %d/%d", n, d))
	}
	return Price{N: n, D: d}
}

// Cmp compares p against q, returning -1, 0 or +1 as p is cheaper than,
// equal to, or more expensive than q.
func (p Price) Cmp(q Price) int {
	p.mustBeValid()
	q.mustBeValid()
	lhs := int64(p.N) * int64(q.D)
	rhs := int64(q.N) * int64(p.D)
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return +1
	default:
		return 0
	}
}

// CrossesLimit reports whether an offer priced at p may be taken by an order
// whose worst acceptable price is limit: p must not be more expensive than
// the limit.
func (p Price) CrossesLimit(limit Price) bool {
	return p.Cmp(limit) <= 0
}

// Invert returns the price seen from the other side of the pair.
func (p Price) Invert() Price {
	p.mustBeValid()
	return Price{N: p.D, D: p.N}
}

func (p Price) String() string {
	return fmt.Sprintf("%d/%d", p.N, p.D)
}

func (p Price) mustBeValid() {
	if p.N <= 0 || p.D <= 0 {
		panic(fmt.Sprintf("ledger: invalid price %d/%d", p.N, p.D))
	}
}
