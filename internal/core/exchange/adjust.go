package exchange

import "github.com/LeJamon/goStellard/internal/core/ledger"

// AdjustOffer returns the amount an offer should be written with so that it
// can never promise more than it could actually execute: the wheat it would
// deliver if someone crossed it with unbounded funds right now. The result
// respects both the seller's spendable wheat and the room left to receive
// sheep, and is 0 for an offer that could not execute at all.
func AdjustOffer(price ledger.Price, maxWheatSend, maxSheepReceive int64) int64 {
	res := ExchangeV10WithoutPriceErrorThresholds(
		price, maxWheatSend, ledger.MaxInt64, ledger.MaxInt64, maxSheepReceive, false)
	return res.NumWheatReceived
}
