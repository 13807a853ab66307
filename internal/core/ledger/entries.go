package ledger

import "math"

// Amounts are int64 base units with seven implied decimal places, so one
// whole unit of any asset is 10_000_000 base units.
const (
	OneUnit  int64 = 10_000_000
	MaxInt64 int64 = math.MaxInt64
)

// Header carries the per-ledger facts the core needs: the sequence number of
// the ledger being built and the reserve schedule used to derive minimum
// balances.
type Header struct {
	LedgerSeq   uint32
	BaseFee     int64
	BaseReserve int64

	// IDPool is the last offer ID handed out; offer IDs are ledger-global
	// and strictly increasing.
	IDPool int64
}

// MinBalance returns the native balance an account with the given number of
// subentries must keep. Two base reserves cover the account itself; each
// subentry (trustline, offer) adds one more.
func (h *Header) MinBalance(numSubEntries uint32) int64 {
	return (2 + int64(numSubEntries)) * h.BaseReserve
}

// AccountEntry is the account state the exchange core reads and the
// transaction layer mutates. Balance is the native asset balance.
type AccountEntry struct {
	AccountID     string
	Balance       int64
	SeqNum        int64
	NumSubEntries uint32
}

// TrustLineEntry records an account's holding of one credit asset: the
// current balance, the maximum the account is willing to hold, and whether
// the issuer has authorized the line. An unauthorized line can neither send
// nor receive.
type TrustLineEntry struct {
	AccountID  string
	Asset      Asset
	Balance    int64
	Limit      int64
	Authorized bool
}

// OfferEntry is a resting sell order: SellerID offers Amount units of
// Selling at Price (units of Buying per unit of Selling). Offers in the book
// are exact: they trade at the price written on them, never at the taker's
// price. Amount only ever decreases; an offer whose amount reaches zero is
// deleted from the book.
type OfferEntry struct {
	OfferID  int64
	SellerID string
	Selling  Asset
	Buying   Asset
	Amount   int64
	Price    Price
}
