package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goStellard/internal/core/ledger"
)

func TestBigDivide(t *testing.T) {
	cases := []struct {
		a, b, c int64
		round   Rounding
		want    int64
		ok      bool
	}{
		{10, 3, 4, RoundDown, 7, true},
		{10, 3, 4, RoundUp, 8, true},
		{10, 2, 4, RoundUp, 5, true}, // exact, no bump
		{0, 5, 3, RoundUp, 0, true},
		{ledger.MaxInt64, 2, 2, RoundDown, ledger.MaxInt64, true},
		{ledger.MaxInt64, 2, 1, RoundDown, 0, false}, // quotient > MaxInt64
	}
	for _, c := range cases {
		got, ok := bigDivide(c.a, c.b, c.c, c.round)
		require.Equal(t, c.ok, ok, "bigDivide(%d,%d,%d)", c.a, c.b, c.c)
		if ok {
			require.Equal(t, c.want, got, "bigDivide(%d,%d,%d)", c.a, c.b, c.c)
		}
	}

	require.Equal(t, ledger.MaxInt64, bigDivideClamp(ledger.MaxInt64, 3, 1, RoundDown))
}

func TestExchangeV2RoundsSheepDown(t *testing.T) {
	// 3 wheat at 3/2 sheep per wheat is worth 4.5 sheep; v2 truncates the
	// sheep leg, and the wheat is then recomputed from the truncated sheep.
	res := ExchangeV2(3, ledger.NewPrice(3, 2), ledger.MaxInt64, ledger.MaxInt64)
	require.Equal(t, int64(4), res.NumSheepSend)
	require.Equal(t, int64(2), res.NumWheatReceived)
	require.False(t, res.Reduced)
	require.Equal(t, ExchangeNormal, res.Type())
}

func TestExchangeV3RoundsSheepUp(t *testing.T) {
	res := ExchangeV3(3, ledger.NewPrice(3, 2), ledger.MaxInt64, ledger.MaxInt64)
	require.Equal(t, int64(5), res.NumSheepSend)
	require.Equal(t, int64(3), res.NumWheatReceived)
	require.Equal(t, ExchangeNormal, res.Type())
}

func TestExchangeLegacyCaps(t *testing.T) {
	// maxWheatReceive cuts the trade down before pricing.
	res := ExchangeV3(100, ledger.NewPrice(1, 1), 40, ledger.MaxInt64)
	require.True(t, res.Reduced)
	require.Equal(t, int64(40), res.NumWheatReceived)
	require.Equal(t, int64(40), res.NumSheepSend)

	// maxSheepSend caps the sheep leg and the wheat follows.
	res = ExchangeV3(100, ledger.NewPrice(1, 1), ledger.MaxInt64, 30)
	require.True(t, res.Reduced)
	require.Equal(t, int64(30), res.NumSheepSend)
	require.Equal(t, int64(30), res.NumWheatReceived)
}

func TestExchangeLegacyResultTypes(t *testing.T) {
	// Nothing offered at all: bogus.
	res := ExchangeV3(0, ledger.NewPrice(1, 1), ledger.MaxInt64, ledger.MaxInt64)
	require.Equal(t, ExchangeBogus, res.Type())

	// A cap wiped the trade out: reduced to zero, which still counts as a
	// crossing against the offer.
	res = ExchangeV3(10, ledger.NewPrice(1, 1), 0, ledger.MaxInt64)
	require.Equal(t, ExchangeReducedToZero, res.Type())
}

func TestExchangeV10SheepLimited(t *testing.T) {
	// Offer: 25 units of wheat at 1/20 sheep per wheat. Converter can spend
	// 2 units of sheep, which buys the whole offer for 1.25 units.
	res := ExchangeV10(ledger.NewPrice(1, 20),
		25*ledger.OneUnit, ledger.MaxInt64, 2*ledger.OneUnit, ledger.MaxInt64, false)
	require.False(t, res.WheatStays)
	require.Equal(t, 25*ledger.OneUnit, res.NumWheatReceived)
	require.Equal(t, 12_500_000, int(res.NumSheepSend))
}

func TestExchangeV10WheatStays(t *testing.T) {
	// Same offer, converter spends only 0.6 units of sheep: the offer
	// survives and the converter gets exactly 12 units of wheat.
	res := ExchangeV10(ledger.NewPrice(1, 20),
		25*ledger.OneUnit, ledger.MaxInt64, 6_000_000, ledger.MaxInt64, false)
	require.True(t, res.WheatStays)
	require.Equal(t, 12*ledger.OneUnit, res.NumWheatReceived)
	require.Equal(t, int64(6_000_000), res.NumSheepSend)
}

func TestExchangeV10NeverDisfavorsWheat(t *testing.T) {
	// Across a spread of awkward prices and caps the sheep paid must always
	// cover the exact value of the wheat received: sheepSend*D >= wheatReceive*N.
	prices := []ledger.Price{
		ledger.NewPrice(1, 20), ledger.NewPrice(3, 7), ledger.NewPrice(7, 3),
		ledger.NewPrice(1, 1), ledger.NewPrice(1000000, 1), ledger.NewPrice(1, 1000000),
	}
	caps := []int64{1, 99, 100, 10_000, ledger.OneUnit, 25 * ledger.OneUnit, ledger.MaxInt64}
	for _, price := range prices {
		for _, wheatCap := range caps {
			for _, sheepCap := range caps {
				res := ExchangeV10(price, wheatCap, ledger.MaxInt64, sheepCap, ledger.MaxInt64, false)
				exact := mulU128(res.NumWheatReceived, int64(price.N))
				actual := mulU128(res.NumSheepSend, int64(price.D))
				require.GreaterOrEqual(t, actual.cmp(exact), 0,
					"price %v wheatCap %d sheepCap %d", price, wheatCap, sheepCap)
			}
		}
	}
}

func TestExchangeV10ZeroesUnpriceableTrades(t *testing.T) {
	// 2 base units of wheat at 3/7: the sheep leg rounds from 6/7 up to 1,
	// a 16% overshoot. The bound is 1%, renegotiation cannot help, so the
	// trade zeroes out.
	res := ExchangeV10(ledger.NewPrice(3, 7), 2, ledger.MaxInt64, ledger.MaxInt64, ledger.MaxInt64, false)
	require.Zero(t, res.NumWheatReceived)
	require.Zero(t, res.NumSheepSend)

	// At a multiple of the denominator the price is exact and the trade goes
	// through untouched.
	res = ExchangeV10(ledger.NewPrice(3, 7), 7_000_000, ledger.MaxInt64, ledger.MaxInt64, ledger.MaxInt64, false)
	require.Equal(t, int64(7_000_000), res.NumWheatReceived)
	require.Equal(t, int64(3_000_000), res.NumSheepSend)
}

func TestExchangeV10NeverInflatesWheat(t *testing.T) {
	// 5 base units of wheat at 1/10: the sheep leg rounds from 0.5 up to a
	// whole unit, which at the exact price would name 10 wheat. The guard
	// must not grow the trade to match the overpayment; it zeroes out.
	res := ExchangeV10(ledger.NewPrice(1, 10), 5, ledger.MaxInt64, ledger.MaxInt64, ledger.MaxInt64, false)
	require.Zero(t, res.NumWheatReceived)
	require.Zero(t, res.NumSheepSend)

	// Dust amounts at lopsided prices never exchange more wheat than offered.
	prices := []ledger.Price{
		ledger.NewPrice(1, 10), ledger.NewPrice(1, 1000), ledger.NewPrice(3, 1000),
	}
	for _, price := range prices {
		for wheatCap := int64(1); wheatCap <= 50; wheatCap++ {
			res := ExchangeV10(price, wheatCap, ledger.MaxInt64, ledger.MaxInt64, ledger.MaxInt64, false)
			require.LessOrEqual(t, res.NumWheatReceived, wheatCap,
				"price %v wheatCap %d", price, wheatCap)
		}
	}
}

func TestExchangeV10PathPaymentChargesMinimum(t *testing.T) {
	// Wheat stays: the converter's sheep cap fixes the wheat received, and a
	// path payment then only pays what that wheat is worth, not the full cap.
	res := ExchangeV10WithoutPriceErrorThresholds(ledger.NewPrice(20, 1),
		ledger.MaxInt64, ledger.MaxInt64, 30, ledger.MaxInt64, true)
	require.True(t, res.WheatStays)
	require.Equal(t, int64(1), res.NumWheatReceived) // floor(30/20)
	require.Equal(t, int64(20), res.NumSheepSend)    // what 1 wheat is worth

	nonPath := ExchangeV10WithoutPriceErrorThresholds(ledger.NewPrice(20, 1),
		ledger.MaxInt64, ledger.MaxInt64, 30, ledger.MaxInt64, false)
	require.Equal(t, int64(30), nonPath.NumSheepSend)
}

func TestCheckPriceErrorBound(t *testing.T) {
	price := ledger.NewPrice(1, 1)

	// Exact trade always passes.
	require.True(t, CheckPriceErrorBound(price, 100, 100, true))

	// Overpaying the wheat side within 1% passes; beyond fails.
	require.True(t, CheckPriceErrorBound(price, 100, 101, true))
	require.False(t, CheckPriceErrorBound(price, 100, 102, true))

	// Shortchanging the wheat side fails outright when the wheat owner must
	// not be disfavored, and is bound-checked otherwise.
	require.False(t, CheckPriceErrorBound(price, 100, 99, true))
	require.True(t, CheckPriceErrorBound(price, 100, 99, false))
	require.False(t, CheckPriceErrorBound(price, 100, 98, false))
}

func TestAdjustOffer(t *testing.T) {
	price := ledger.NewPrice(1, 20)

	// Fully funded and room to receive: the amount stands.
	require.Equal(t, 25*ledger.OneUnit, AdjustOffer(price, 25*ledger.OneUnit, ledger.MaxInt64))

	// Receiving room binds: the offer shrinks to the wheat that room pays for.
	require.Equal(t, 120*ledger.OneUnit, AdjustOffer(price, 500*ledger.OneUnit, 6*ledger.OneUnit))

	// No room at all: the offer is worthless.
	require.Zero(t, AdjustOffer(price, 25*ledger.OneUnit, 0))
	require.Zero(t, AdjustOffer(price, 0, ledger.MaxInt64))
}
