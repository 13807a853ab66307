package exchange

import "github.com/LeJamon/goStellard/internal/core/ledger"

// maxPriceErrorPercent bounds how far an executed trade's effective price may
// drift from the offer's exact rational price.
const maxPriceErrorPercent = 1

// CheckPriceErrorBound reports whether trading sheepSend for wheatReceive is
// an acceptable approximation of price. The exact sheep value of the wheat is
// wheatReceive*N/D; the comparison is done cross-multiplied so it is exact.
// With canFavorWheat set, any shortfall against the wheat seller fails
// outright, no matter how small.
func CheckPriceErrorBound(price ledger.Price, wheatReceive, sheepSend int64, canFavorWheat bool) bool {
	exact := mulU128(wheatReceive, int64(price.N))
	actual := mulU128(sheepSend, int64(price.D))

	if actual.cmp(exact) < 0 {
		if canFavorWheat {
			return false
		}
		diff := exact.sub(actual)
		return diff.cmp(exact.divSmall(100 / maxPriceErrorPercent)) <= 0
	}
	diff := actual.sub(exact)
	return diff.cmp(exact.divSmall(100/maxPriceErrorPercent)) <= 0
}

// applyPriceErrorThresholds takes the raw v10 amounts and either accepts
// them, renegotiates the rounded leg, or zeroes the trade when no acceptable
// amounts exist. A zeroed trade is still a valid crossing; the offer it hit
// is handled by the caller.
func applyPriceErrorThresholds(price ledger.Price, wheatReceive, sheepSend int64, wheatStays, isPathPayment bool) ExchangeResultV10 {
	res := ExchangeResultV10{
		NumWheatReceived: wheatReceive,
		NumSheepSend:     sheepSend,
		WheatStays:       wheatStays,
	}
	if wheatReceive == 0 || sheepSend == 0 {
		res.NumWheatReceived = 0
		res.NumSheepSend = 0
		return res
	}

	if CheckPriceErrorBound(price, res.NumWheatReceived, res.NumSheepSend, true) {
		return res
	}

	if !isPathPayment {
		// Renegotiate the leg that was derived by rounding, then check again.
		// A renegotiated amount may only shrink the trade: when the sheep leg
		// was rounded up, floor(sheepSend*D/N) can name more wheat than the
		// caps ever allowed.
		if wheatStays {
			res.NumSheepSend = bigDivideClamp(res.NumWheatReceived, int64(price.N), int64(price.D), RoundUp)
		} else {
			wheat := bigDivideClamp(res.NumSheepSend, int64(price.D), int64(price.N), RoundDown)
			if wheat > res.NumWheatReceived {
				wheat = 0
			}
			res.NumWheatReceived = wheat
		}
		if res.NumWheatReceived > 0 && res.NumSheepSend > 0 &&
			CheckPriceErrorBound(price, res.NumWheatReceived, res.NumSheepSend, true) {
			return res
		}
	}

	// Path payments never renegotiate: the amounts are contractual, so a
	// trade outside the bound simply does not execute.
	res.NumWheatReceived = 0
	res.NumSheepSend = 0
	return res
}
