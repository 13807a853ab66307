package tx

import (
	"fmt"

	"github.com/LeJamon/goStellard/internal/core/exchange"
	"github.com/LeJamon/goStellard/internal/core/ledger"
)

// OfferView is what ManageOffer needs from the ledger: the exchange view plus
// offer ID allocation. An ltx.LedgerTxn satisfies it.
type OfferView interface {
	exchange.LedgerView
	GenerateOfferID() (int64, error)
}

// ManageOffer creates, updates, or cancels an offer to sell Amount of Selling
// at Price (Buying units per Selling unit). OfferID zero means a new offer;
// a non-zero OfferID addresses an existing offer of the source account, and
// Amount zero cancels it.
type ManageOffer struct {
	SourceID string
	Selling  ledger.Asset
	Buying   ledger.Asset
	Amount   int64
	Price    ledger.Price
	OfferID  int64
}

// ManageOfferResult is the operation outcome. OffersClaimed lists every
// crossing that executed, in book order; Offer is the entry left in the book,
// nil when the effect is OfferDeleted.
type ManageOfferResult struct {
	Code          ManageOfferResultCode
	Effect        OfferEffect
	Offer         *ledger.OfferEntry
	OffersClaimed []exchange.ClaimOfferAtom
}

func opFailed(code ManageOfferResultCode) *ManageOfferResult {
	return &ManageOfferResult{Code: code}
}

// Apply runs the operation against view. The caller provides atomicity: on a
// non-success code or an error the view must be rolled back, since crossing
// may already have moved balances. maxOffersToCross bounds the number of
// offers one operation may take off the book, zero meaning unbounded.
func (m *ManageOffer) Apply(view OfferView, maxOffersToCross int) (*ManageOfferResult, error) {
	if !m.isWellFormed() {
		return opFailed(ManageOfferMALFORMED), nil
	}

	// An existing offer is pulled off the book before anything else: its old
	// terms must not participate in the crossing below.
	modifying := m.OfferID != 0
	if modifying {
		existing, err := view.Offer(m.OfferID)
		if err != nil {
			return nil, err
		}
		if existing == nil || existing.SellerID != m.SourceID {
			return opFailed(ManageOfferNOT_FOUND), nil
		}
		if err := view.EraseOffer(m.OfferID); err != nil {
			return nil, err
		}
		if m.Amount == 0 {
			if err := m.releaseSubEntry(view); err != nil {
				return nil, err
			}
			return &ManageOfferResult{Code: ManageOfferSUCCESS, Effect: OfferDeleted}, nil
		}
	}

	code, err := m.checkLegs(view)
	if err != nil {
		return nil, err
	}
	if code != ManageOfferSUCCESS {
		return opFailed(code), nil
	}

	sellable, err := exchange.CanSellAtMost(view, m.SourceID, m.Selling)
	if err != nil {
		return nil, err
	}
	if sellable == 0 {
		return opFailed(ManageOfferUNDERFUNDED), nil
	}
	buyRoom, err := exchange.CanBuyAtMost(view, m.SourceID, m.Buying)
	if err != nil {
		return nil, err
	}
	if buyRoom == 0 {
		return opFailed(ManageOfferLINE_FULL), nil
	}

	if !modifying {
		acc, err := view.Account(m.SourceID)
		if err != nil {
			return nil, err
		}
		h, err := view.Header()
		if err != nil {
			return nil, err
		}
		if acc.Balance < h.MinBalance(acc.NumSubEntries+1) {
			return opFailed(ManageOfferLOW_RESERVE), nil
		}
	}

	// Cross the opposing book. The source sells sheep (Selling) for wheat
	// (Buying), and accepts no resting price above the inverse of its own.
	limit := m.Price.Invert()
	crossed := 0
	crossSelf := false
	out, err := exchange.ConvertWithOffers(view, exchange.ConvertParams{
		Sheep:           m.Selling,
		Wheat:           m.Buying,
		MaxSheepSend:    min64(m.Amount, sellable),
		MaxWheatReceive: buyRoom,
		LimitPrice:      &limit,
		Filter: func(o *ledger.OfferEntry) exchange.OfferFilterResult {
			if o.SellerID == m.SourceID {
				crossSelf = true
				return exchange.FilterStop
			}
			if maxOffersToCross > 0 && crossed >= maxOffersToCross {
				return exchange.FilterStop
			}
			crossed++
			return exchange.FilterKeep
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Result == exchange.ConvertFilterStop {
		if crossSelf {
			return opFailed(ManageOfferCROSS_SELF), nil
		}
		return opFailed(ManageOfferEXCEEDED_WORK_LIMIT), nil
	}

	// Settle the taker's two legs.
	if err := exchange.AddBalance(view, m.SourceID, m.Selling, -out.SheepSent); err != nil {
		return nil, err
	}
	if err := exchange.AddBalance(view, m.SourceID, m.Buying, out.WheatReceived); err != nil {
		return nil, err
	}

	result := &ManageOfferResult{Code: ManageOfferSUCCESS, OffersClaimed: out.Trail}

	remaining := m.Amount - out.SheepSent
	if remaining > 0 {
		// Shrink the residual to what the source could actually honor now
		// that the crossing has settled.
		sellable, err = exchange.CanSellAtMost(view, m.SourceID, m.Selling)
		if err != nil {
			return nil, err
		}
		buyRoom, err = exchange.CanBuyAtMost(view, m.SourceID, m.Buying)
		if err != nil {
			return nil, err
		}
		remaining = exchange.AdjustOffer(m.Price, min64(remaining, sellable), buyRoom)
	}

	if remaining <= 0 {
		if modifying {
			if err := m.releaseSubEntry(view); err != nil {
				return nil, err
			}
		}
		result.Effect = OfferDeleted
		return result, nil
	}

	entry := &ledger.OfferEntry{
		OfferID:  m.OfferID,
		SellerID: m.SourceID,
		Selling:  m.Selling,
		Buying:   m.Buying,
		Amount:   remaining,
		Price:    m.Price,
	}
	if modifying {
		result.Effect = OfferUpdated
	} else {
		entry.OfferID, err = view.GenerateOfferID()
		if err != nil {
			return nil, err
		}
		acc, err := view.Account(m.SourceID)
		if err != nil {
			return nil, err
		}
		acc.NumSubEntries++
		if err := view.PutAccount(acc); err != nil {
			return nil, err
		}
		result.Effect = OfferCreated
	}
	if err := view.PutOffer(entry); err != nil {
		return nil, err
	}
	result.Offer = entry
	return result, nil
}

func (m *ManageOffer) isWellFormed() bool {
	switch {
	case m.Price.N <= 0 || m.Price.D <= 0:
		return false
	case m.Amount < 0 || m.OfferID < 0:
		return false
	case m.OfferID == 0 && m.Amount == 0:
		return false
	case m.Selling.Equals(m.Buying):
		return false
	case !assetWellFormed(m.Selling) || !assetWellFormed(m.Buying):
		return false
	}
	return true
}

func assetWellFormed(a ledger.Asset) bool {
	if a.IsNative() {
		return a.Code == "" && a.Issuer == ""
	}
	return a.Code != "" && a.Issuer != ""
}

// checkLegs verifies trust, authorization, and issuer existence for both
// sides of the offer. Issuers skip the checks for their own asset.
func (m *ManageOffer) checkLegs(view OfferView) (ManageOfferResultCode, error) {
	if !m.Selling.IsNative() && m.Selling.Issuer != m.SourceID {
		issuer, err := view.Account(m.Selling.Issuer)
		if err != nil {
			return 0, err
		}
		if issuer == nil {
			return ManageOfferSELL_NO_ISSUER, nil
		}
		line, err := view.TrustLine(m.SourceID, m.Selling)
		if err != nil {
			return 0, err
		}
		if line == nil {
			return ManageOfferSELL_NO_TRUST, nil
		}
		if !line.Authorized {
			return ManageOfferSELL_NOT_AUTHORIZED, nil
		}
		if line.Balance == 0 {
			return ManageOfferUNDERFUNDED, nil
		}
	}
	if !m.Buying.IsNative() && m.Buying.Issuer != m.SourceID {
		issuer, err := view.Account(m.Buying.Issuer)
		if err != nil {
			return 0, err
		}
		if issuer == nil {
			return ManageOfferBUY_NO_ISSUER, nil
		}
		line, err := view.TrustLine(m.SourceID, m.Buying)
		if err != nil {
			return 0, err
		}
		if line == nil {
			return ManageOfferBUY_NO_TRUST, nil
		}
		if !line.Authorized {
			return ManageOfferBUY_NOT_AUTHORIZED, nil
		}
		if line.Limit <= line.Balance {
			return ManageOfferLINE_FULL, nil
		}
	}
	return ManageOfferSUCCESS, nil
}

func (m *ManageOffer) releaseSubEntry(view OfferView) error {
	acc, err := view.Account(m.SourceID)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("tx: account %s does not exist", m.SourceID)
	}
	if acc.NumSubEntries > 0 {
		acc.NumSubEntries--
	}
	return view.PutAccount(acc)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
