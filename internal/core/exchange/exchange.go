package exchange

import "github.com/LeJamon/goStellard/internal/core/ledger"

// ExchangeResultType classifies a legacy exchange outcome.
type ExchangeResultType int

const (
	// ExchangeNormal: both legs are positive, the trade happens.
	ExchangeNormal ExchangeResultType = iota
	// ExchangeReducedToZero: the caps cut the trade down to nothing; the
	// crossing still counts against the offer.
	ExchangeReducedToZero
	// ExchangeBogus: the trade was empty before any cap applied.
	ExchangeBogus
)

// ExchangeResult is the outcome of the legacy (v2/v3) exchange calculation.
// Amounts follow the wheat/sheep convention: wheat is what the resting offer
// sells, sheep is what it buys.
type ExchangeResult struct {
	NumWheatReceived int64
	NumSheepSend     int64
	Reduced          bool
}

// Type reports how the result should be interpreted.
func (r ExchangeResult) Type() ExchangeResultType {
	switch {
	case r.NumWheatReceived != 0 && r.NumSheepSend != 0:
		return ExchangeNormal
	case r.Reduced:
		return ExchangeReducedToZero
	default:
		return ExchangeBogus
	}
}

// ExchangeResultV10 is the outcome of the current exchange calculation.
// WheatStays reports which side was the limiting one: true means the resting
// offer was not exhausted and survives the crossing.
type ExchangeResultV10 struct {
	NumWheatReceived int64
	NumSheepSend     int64
	WheatStays       bool
}

// ExchangeV2 computes a crossing at the legacy v2 semantics: sheep rounds
// down, which can short-change the wheat seller by up to one base unit.
// Kept only to replay ledgers produced under those rules.
func ExchangeV2(wheatReceived int64, price ledger.Price, maxWheatReceive, maxSheepSend int64) ExchangeResult {
	return exchangeLegacy(wheatReceived, price, maxWheatReceive, maxSheepSend, RoundDown)
}

// ExchangeV3 is ExchangeV2 with the sheep leg rounded up, so rounding never
// favors the sheep side at the wheat seller's expense.
func ExchangeV3(wheatReceived int64, price ledger.Price, maxWheatReceive, maxSheepSend int64) ExchangeResult {
	return exchangeLegacy(wheatReceived, price, maxWheatReceive, maxSheepSend, RoundUp)
}

func exchangeLegacy(wheatReceived int64, price ledger.Price, maxWheatReceive, maxSheepSend int64, sheepRound Rounding) ExchangeResult {
	var result ExchangeResult
	result.Reduced = wheatReceived > maxWheatReceive
	if wheatReceived > maxWheatReceive {
		wheatReceived = maxWheatReceive
	}

	// Sheep owed for the wheat at the offer's price. Saturates on overflow;
	// the cap below brings it back into range.
	result.NumSheepSend = bigDivideClamp(wheatReceived, int64(price.N), int64(price.D), sheepRound)
	if result.NumSheepSend > maxSheepSend {
		result.Reduced = true
		result.NumSheepSend = maxSheepSend
	}

	// Recompute the wheat the capped sheep actually pays for.
	result.NumWheatReceived = bigDivideClamp(result.NumSheepSend, int64(price.D), int64(price.N), RoundDown)
	if result.NumWheatReceived > wheatReceived {
		result.NumWheatReceived = wheatReceived
	}
	return result
}

// ExchangeV10 computes a crossing at the current semantics: exact rational
// pricing, rounding always in favor of the wheat seller, and a relative error
// bound that zeroes out trades too small to price fairly.
//
// maxWheatSend and maxSheepReceive cap the resting (wheat) side, maxWheatReceive
// and maxSheepSend cap the taking (sheep) side. isPathPayment tightens the
// sheep leg to the minimum that still buys the wheat.
func ExchangeV10(price ledger.Price, maxWheatSend, maxWheatReceive, maxSheepSend, maxSheepReceive int64, isPathPayment bool) ExchangeResultV10 {
	beforeThresholds := ExchangeV10WithoutPriceErrorThresholds(
		price, maxWheatSend, maxWheatReceive, maxSheepSend, maxSheepReceive, isPathPayment)
	return applyPriceErrorThresholds(
		price, beforeThresholds.NumWheatReceived, beforeThresholds.NumSheepSend,
		beforeThresholds.WheatStays, isPathPayment)
}

// ExchangeV10WithoutPriceErrorThresholds is the raw v10 calculation, before
// the error-bound pass. Exposed because offer adjustment needs the unguarded
// amounts.
func ExchangeV10WithoutPriceErrorThresholds(price ledger.Price, maxWheatSend, maxWheatReceive, maxSheepSend, maxSheepReceive int64, isPathPayment bool) ExchangeResultV10 {
	wheatCap := min64(maxWheatSend, maxWheatReceive)
	sheepCap := min64(maxSheepSend, maxSheepReceive)

	var res ExchangeResultV10
	// Compare the value of both caps at the offer's price: wheatCap * N
	// against sheepCap * D. The wheat stays when the sheep side runs out
	// first.
	res.WheatStays = mulU128(wheatCap, int64(price.N)).cmp(mulU128(sheepCap, int64(price.D))) > 0

	if res.WheatStays {
		res.NumSheepSend = sheepCap
		// sheepCap*D < wheatCap*N here, so the quotient fits.
		res.NumWheatReceived = bigDivideClamp(sheepCap, int64(price.D), int64(price.N), RoundDown)
		if isPathPayment {
			// Charge only what the wheat actually delivered is worth.
			res.NumSheepSend = bigDivideClamp(res.NumWheatReceived, int64(price.N), int64(price.D), RoundUp)
		}
	} else {
		res.NumWheatReceived = wheatCap
		// wheatCap*N <= sheepCap*D here, so rounding up stays within sheepCap.
		res.NumSheepSend = bigDivideClamp(wheatCap, int64(price.N), int64(price.D), RoundUp)
	}
	return res
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
