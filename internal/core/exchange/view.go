package exchange

import "github.com/LeJamon/goStellard/internal/core/ledger"

// LedgerView is what the exchange core needs from the ledger: entry reads,
// the best-offer book query, and staged writes to the resting side. A
// ltx.LedgerTxn satisfies it; tests may substitute their own.
type LedgerView interface {
	Header() (*ledger.Header, error)
	Account(id string) (*ledger.AccountEntry, error)
	TrustLine(id string, asset ledger.Asset) (*ledger.TrustLineEntry, error)
	Offer(offerID int64) (*ledger.OfferEntry, error)
	BestOffer(selling, buying ledger.Asset, exclude func(offerID int64) bool) (*ledger.OfferEntry, error)

	PutAccount(entry *ledger.AccountEntry) error
	PutTrustLine(entry *ledger.TrustLineEntry) error
	PutOffer(entry *ledger.OfferEntry) error
	EraseOffer(offerID int64) error
}
