package exchange

import "github.com/LeJamon/goStellard/internal/core/ledger"

// CanSellAtMost returns how much of asset the account can actually part with
// right now, independent of what any offer says. For the native asset that is
// the balance above the reserve floor; for a credit asset it is the trustline
// balance, with the issuer treated as an infinite source.
func CanSellAtMost(view LedgerView, accountID string, asset ledger.Asset) (int64, error) {
	if asset.IsNative() {
		acc, err := view.Account(accountID)
		if err != nil {
			return 0, err
		}
		if acc == nil {
			return 0, nil
		}
		h, err := view.Header()
		if err != nil {
			return 0, err
		}
		available := acc.Balance - h.MinBalance(acc.NumSubEntries)
		if available < 0 {
			return 0, nil
		}
		return available, nil
	}

	if asset.Issuer == accountID {
		return ledger.MaxInt64, nil
	}
	line, err := view.TrustLine(accountID, asset)
	if err != nil {
		return 0, err
	}
	if line == nil || !line.Authorized {
		return 0, nil
	}
	return line.Balance, nil
}

// CanBuyAtMost returns how much of asset the account can still absorb: the
// headroom to MaxInt64 for the native asset, the headroom to the trustline
// limit for a credit asset. Issuers absorb their own asset without limit.
func CanBuyAtMost(view LedgerView, accountID string, asset ledger.Asset) (int64, error) {
	if asset.IsNative() {
		acc, err := view.Account(accountID)
		if err != nil {
			return 0, err
		}
		if acc == nil {
			return 0, nil
		}
		return ledger.MaxInt64 - acc.Balance, nil
	}

	if asset.Issuer == accountID {
		return ledger.MaxInt64, nil
	}
	line, err := view.TrustLine(accountID, asset)
	if err != nil {
		return 0, err
	}
	if line == nil || !line.Authorized {
		return 0, nil
	}
	headroom := line.Limit - line.Balance
	if headroom < 0 {
		return 0, nil
	}
	return headroom, nil
}
