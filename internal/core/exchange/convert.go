package exchange

import (
	"fmt"

	"github.com/LeJamon/goStellard/internal/core/ledger"
)

// OfferFilterResult is a filter's verdict on the next offer the walker wants
// to cross.
type OfferFilterResult int

const (
	// FilterKeep lets the walker cross the offer.
	FilterKeep OfferFilterResult = iota
	// FilterStop aborts the conversion before touching the offer.
	FilterStop
)

// OfferFilter inspects each candidate offer before it is crossed. Used for
// self-trade detection and work limits; the walker itself imposes no policy.
type OfferFilter func(offer *ledger.OfferEntry) OfferFilterResult

// ConvertResult classifies the outcome of a conversion walk.
type ConvertResult int

const (
	// ConvertOK: one of the caller's caps was reached.
	ConvertOK ConvertResult = iota
	// ConvertPartial: the book ran out, or the remaining offers are priced
	// beyond the caller's limit.
	ConvertPartial
	// ConvertFilterStop: the filter aborted the walk.
	ConvertFilterStop
)

// CrossOfferResult classifies what crossing a single offer did to it.
type CrossOfferResult int

const (
	// CrossedPartial: the offer survives with a reduced amount.
	CrossedPartial CrossOfferResult = iota
	// CrossedTaken: the offer was consumed or became worthless and was
	// removed from the book.
	CrossedTaken
	// CrossedBeyondLimit: the offer's price does not cross the converter's
	// limit. Nothing traded, and no better-priced offer remains.
	CrossedBeyondLimit
)

// ClaimOfferAtom records one crossing for the transaction's result and the
// trade history feed. Sold and bought are from the resting seller's point of
// view.
type ClaimOfferAtom struct {
	SellerID     string
	OfferID      int64
	AssetSold    ledger.Asset
	AmountSold   int64
	AssetBought  ledger.Asset
	AmountBought int64
}

// ConvertParams describes one conversion: the converter wants wheat and pays
// sheep, walking the book that sells wheat for sheep.
type ConvertParams struct {
	// Sheep is what the converter sends; Wheat is what it wants.
	Sheep ledger.Asset
	Wheat ledger.Asset

	// MaxSheepSend and MaxWheatReceive cap the converter's two legs. The
	// walk stops as soon as either cap is met.
	MaxSheepSend    int64
	MaxWheatReceive int64

	// LimitPrice, when set, is the worst wheat price the converter accepts,
	// in sheep per wheat. Offers above it end the walk with ConvertPartial.
	LimitPrice *ledger.Price

	// IsPathPayment selects the tighter sheep leg in the exchange.
	IsPathPayment bool

	// Filter, when set, is consulted before each crossing.
	Filter OfferFilter
}

// ConvertOutcome is what a conversion walk produced. SheepSent and
// WheatReceived are valid for every result, including aborted walks.
type ConvertOutcome struct {
	Result        ConvertResult
	SheepSent     int64
	WheatReceived int64
	Trail         []ClaimOfferAtom
}

// ConvertWithOffers walks the order book selling p.Wheat for p.Sheep, best
// price first, crossing offers until one of the converter's caps is met, the
// book runs out of acceptable prices, or the filter stops the walk.
//
// Each crossed offer trades at its own price, never at the converter's. The
// walker settles only the resting sellers through the view; the converter's
// own balances are the caller's to settle from the outcome.
func ConvertWithOffers(view LedgerView, p ConvertParams) (*ConvertOutcome, error) {
	out := &ConvertOutcome{}

	needMore := func() bool {
		return out.WheatReceived < p.MaxWheatReceive && out.SheepSent < p.MaxSheepSend
	}

	for needMore() {
		offer, err := view.BestOffer(p.Wheat, p.Sheep, nil)
		if err != nil {
			return nil, err
		}
		if offer == nil {
			break
		}
		if p.Filter != nil && p.Filter(offer) == FilterStop {
			out.Result = ConvertFilterStop
			return out, nil
		}

		crossed, atom, err := crossOffer(view, offer, p,
			p.MaxWheatReceive-out.WheatReceived, p.MaxSheepSend-out.SheepSent)
		if err != nil {
			return nil, err
		}
		if crossed == CrossedBeyondLimit {
			// Offers are scanned best price first, so everything behind this
			// one is worse.
			break
		}
		// A crossing zeroed by the price error bound leaves no atom to record.
		if atom != nil && (atom.AmountSold > 0 || atom.AmountBought > 0) {
			out.WheatReceived += atom.AmountSold
			out.SheepSent += atom.AmountBought
			out.Trail = append(out.Trail, *atom)
		}
		if crossed == CrossedPartial {
			// The offer outlasted the converter; nothing left to do.
			break
		}
	}

	if needMore() {
		out.Result = ConvertPartial
	} else {
		out.Result = ConvertOK
	}
	return out, nil
}

// crossOffer executes one crossing against offer and settles the resting
// seller through the view, after checking the offer against the converter's
// limit price. The returned atom is nil when the crossing moved nothing and
// left no trace beyond the offer's removal.
func crossOffer(view LedgerView, offer *ledger.OfferEntry, p ConvertParams, maxWheatReceive, maxSheepSend int64) (CrossOfferResult, *ClaimOfferAtom, error) {
	if p.LimitPrice != nil && !offer.Price.CrossesLimit(*p.LimitPrice) {
		return CrossedBeyondLimit, nil, nil
	}

	sellerWheat, err := CanSellAtMost(view, offer.SellerID, offer.Selling)
	if err != nil {
		return 0, nil, err
	}
	maxWheatSend := min64(offer.Amount, sellerWheat)
	maxSheepReceive, err := CanBuyAtMost(view, offer.SellerID, offer.Buying)
	if err != nil {
		return 0, nil, err
	}

	if maxWheatSend == 0 || maxSheepReceive == 0 {
		// Unfunded or unable to receive: the offer is garbage, remove it and
		// let the walk continue.
		if err := eraseOffer(view, offer); err != nil {
			return 0, nil, err
		}
		return CrossedTaken, nil, nil
	}

	res := ExchangeV10(offer.Price, maxWheatSend, maxWheatReceive, maxSheepSend, maxSheepReceive, p.IsPathPayment)

	if res.NumWheatReceived > 0 || res.NumSheepSend > 0 {
		if err := settleSeller(view, offer, res.NumWheatReceived, res.NumSheepSend); err != nil {
			return 0, nil, err
		}
	}

	atom := &ClaimOfferAtom{
		SellerID:     offer.SellerID,
		OfferID:      offer.OfferID,
		AssetSold:    offer.Selling,
		AmountSold:   res.NumWheatReceived,
		AssetBought:  offer.Buying,
		AmountBought: res.NumSheepSend,
	}

	if !res.WheatStays {
		if err := eraseOffer(view, offer); err != nil {
			return 0, nil, err
		}
		return CrossedTaken, atom, nil
	}

	// The offer survives; re-shrink it to what the seller can still honor.
	remaining := offer.Amount - res.NumWheatReceived
	sellerWheat, err = CanSellAtMost(view, offer.SellerID, offer.Selling)
	if err != nil {
		return 0, nil, err
	}
	sheepRoom, err := CanBuyAtMost(view, offer.SellerID, offer.Buying)
	if err != nil {
		return 0, nil, err
	}
	adjusted := AdjustOffer(offer.Price, min64(remaining, sellerWheat), sheepRoom)
	if adjusted == 0 {
		if err := eraseOffer(view, offer); err != nil {
			return 0, nil, err
		}
		return CrossedTaken, atom, nil
	}
	offer.Amount = adjusted
	if err := view.PutOffer(offer); err != nil {
		return 0, nil, err
	}
	return CrossedPartial, atom, nil
}

// settleSeller moves the traded amounts on the resting seller's side: wheat
// out, sheep in. Issuer legs of a credit asset burn or mint instead of
// touching a trustline.
func settleSeller(view LedgerView, offer *ledger.OfferEntry, wheatOut, sheepIn int64) error {
	if err := AddBalance(view, offer.SellerID, offer.Selling, -wheatOut); err != nil {
		return err
	}
	return AddBalance(view, offer.SellerID, offer.Buying, sheepIn)
}

// AddBalance moves delta of asset on the account: the native balance for the
// native asset, the trustline balance otherwise. Issuer legs of a credit
// asset mint or burn and touch nothing.
func AddBalance(view LedgerView, accountID string, asset ledger.Asset, delta int64) error {
	if delta == 0 {
		return nil
	}
	if asset.IsNative() {
		acc, err := view.Account(accountID)
		if err != nil {
			return err
		}
		if acc == nil {
			return fmt.Errorf("exchange: account %s does not exist", accountID)
		}
		acc.Balance += delta
		return view.PutAccount(acc)
	}
	if asset.Issuer == accountID {
		// Issuers mint and burn their own asset; there is no line to move.
		return nil
	}
	line, err := view.TrustLine(accountID, asset)
	if err != nil {
		return err
	}
	if line == nil {
		return fmt.Errorf("exchange: account %s has no trustline for %s", accountID, asset)
	}
	line.Balance += delta
	return view.PutTrustLine(line)
}

// eraseOffer removes the offer from the book and releases the seller's
// subentry for it.
func eraseOffer(view LedgerView, offer *ledger.OfferEntry) error {
	if err := view.EraseOffer(offer.OfferID); err != nil {
		return err
	}
	acc, err := view.Account(offer.SellerID)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("exchange: account %s does not exist", offer.SellerID)
	}
	if acc.NumSubEntries > 0 {
		acc.NumSubEntries--
	}
	return view.PutAccount(acc)
}
