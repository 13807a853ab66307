package ltx

import (
	"errors"

	"github.com/LeJamon/goStellard/internal/core/ledger"
)

// ErrTxnDone is returned when a committed or rolled back transaction is used.
var ErrTxnDone = errors.New("ltx: transaction already committed or rolled back")

// parentView is what a LedgerTxn stacks on: either a Store or an enclosing
// LedgerTxn.
type parentView interface {
	header() (*ledger.Header, error)
	account(id string) (*ledger.AccountEntry, error)
	trustLine(id string, asset ledger.Asset) (*ledger.TrustLineEntry, error)
	offer(offerID int64) (*ledger.OfferEntry, error)
	forEachOffer(fn func(*ledger.OfferEntry) error) error
}

// changeSet holds a transaction's staged writes. A nil entry value marks a
// deletion. Trustline keys are the store's encoded keys so merging into the
// parent needs no re-derivation.
type changeSet struct {
	header   *ledger.Header
	accounts map[string]*ledger.AccountEntry
	lines    map[string]*ledger.TrustLineEntry
	offers   map[int64]*ledger.OfferEntry
}

func newChangeSet() changeSet {
	return changeSet{
		accounts: make(map[string]*ledger.AccountEntry),
		lines:    make(map[string]*ledger.TrustLineEntry),
		offers:   make(map[int64]*ledger.OfferEntry),
	}
}

// LedgerTxn is a read/write overlay over a parent view. Reads fall through to
// the parent for anything not staged locally; writes stay staged until Commit
// moves them one level down. Reads and writes are isolated from the parent
// until Commit, and Rollback discards everything, so a whole walk over the
// order book lands atomically or not at all.
//
// A LedgerTxn is not safe for concurrent use; transaction application is
// single-threaded by design.
type LedgerTxn struct {
	store  *Store     // set when the parent is the store itself
	outer  *LedgerTxn // set when nested
	parent parentView
	c      changeSet
	done   bool
}

// Begin opens a transaction directly over the store.
func Begin(s *Store) *LedgerTxn {
	return &LedgerTxn{store: s, parent: s, c: newChangeSet()}
}

// BeginNested opens a child transaction whose Commit stages into tx rather
// than the store. Used for speculative work that may be discarded.
func (tx *LedgerTxn) BeginNested() *LedgerTxn {
	return &LedgerTxn{outer: tx, parent: tx, c: newChangeSet()}
}

// Commit applies the staged changes to the parent. The transaction is done
// afterwards regardless of outcome.
func (tx *LedgerTxn) Commit() error {
	if tx.done {
		return ErrTxnDone
	}
	tx.done = true

	if tx.store != nil {
		return tx.store.applyChanges(&tx.c)
	}

	out := tx.outer
	if out.done {
		return ErrTxnDone
	}
	if tx.c.header != nil {
		out.c.header = cloneHeader(tx.c.header)
	}
	for id, entry := range tx.c.accounts {
		out.c.accounts[id] = entry
	}
	for key, entry := range tx.c.lines {
		out.c.lines[key] = entry
	}
	for offerID, entry := range tx.c.offers {
		out.c.offers[offerID] = entry
	}
	return nil
}

// Rollback discards the staged changes.
func (tx *LedgerTxn) Rollback() {
	tx.done = true
}

// Header returns the current ledger header, staged or inherited.
func (tx *LedgerTxn) Header() (*ledger.Header, error) {
	if tx.done {
		return nil, ErrTxnDone
	}
	return tx.header()
}

// PutHeader stages a header update.
func (tx *LedgerTxn) PutHeader(h *ledger.Header) error {
	if tx.done {
		return ErrTxnDone
	}
	tx.c.header = cloneHeader(h)
	return nil
}

// GenerateOfferID hands out the next ledger-global offer ID and stages the
// header update that records it.
func (tx *LedgerTxn) GenerateOfferID() (int64, error) {
	h, err := tx.Header()
	if err != nil {
		return 0, err
	}
	h.IDPool++
	if err := tx.PutHeader(h); err != nil {
		return 0, err
	}
	return h.IDPool, nil
}

// Account returns the account entry for id, or (nil, nil) if it does not
// exist. The returned entry is the caller's copy; staging a change requires
// PutAccount.
func (tx *LedgerTxn) Account(id string) (*ledger.AccountEntry, error) {
	if tx.done {
		return nil, ErrTxnDone
	}
	return tx.account(id)
}

// PutAccount stages an account write (create or update).
func (tx *LedgerTxn) PutAccount(entry *ledger.AccountEntry) error {
	if tx.done {
		return ErrTxnDone
	}
	tx.c.accounts[entry.AccountID] = cloneAccount(entry)
	return nil
}

// TrustLine returns the trustline of (id, asset), or (nil, nil) if absent.
func (tx *LedgerTxn) TrustLine(id string, asset ledger.Asset) (*ledger.TrustLineEntry, error) {
	if tx.done {
		return nil, ErrTxnDone
	}
	return tx.trustLine(id, asset)
}

// PutTrustLine stages a trustline write (create or update).
func (tx *LedgerTxn) PutTrustLine(entry *ledger.TrustLineEntry) error {
	if tx.done {
		return ErrTxnDone
	}
	tx.c.lines[string(trustLineKey(entry.AccountID, entry.Asset))] = cloneTrustLine(entry)
	return nil
}

// Offer returns the offer with the given ID, or (nil, nil) if absent.
func (tx *LedgerTxn) Offer(offerID int64) (*ledger.OfferEntry, error) {
	if tx.done {
		return nil, ErrTxnDone
	}
	return tx.offer(offerID)
}

// PutOffer stages an offer write (create or update).
func (tx *LedgerTxn) PutOffer(entry *ledger.OfferEntry) error {
	if tx.done {
		return ErrTxnDone
	}
	tx.c.offers[entry.OfferID] = cloneOffer(entry)
	return nil
}

// EraseOffer stages an offer deletion.
func (tx *LedgerTxn) EraseOffer(offerID int64) error {
	if tx.done {
		return ErrTxnDone
	}
	tx.c.offers[offerID] = nil
	return nil
}

// BestOffer returns the cheapest resting offer selling `selling` for
// `buying`, skipping offers for which exclude returns true. Price ties break
// toward the oldest offer (lowest ID). Returns (nil, nil) when the book side
// is empty.
func (tx *LedgerTxn) BestOffer(selling, buying ledger.Asset, exclude func(offerID int64) bool) (*ledger.OfferEntry, error) {
	if tx.done {
		return nil, ErrTxnDone
	}

	var best *ledger.OfferEntry
	err := tx.forEachOffer(func(o *ledger.OfferEntry) error {
		if !o.Selling.Equals(selling) || !o.Buying.Equals(buying) {
			return nil
		}
		if exclude != nil && exclude(o.OfferID) {
			return nil
		}
		if best == nil {
			best = cloneOffer(o)
			return nil
		}
		switch o.Price.Cmp(best.Price) {
		case -1:
			best = cloneOffer(o)
		case 0:
			if o.OfferID < best.OfferID {
				best = cloneOffer(o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return best, nil
}

// parentView implementation (lets transactions nest).

func (tx *LedgerTxn) header() (*ledger.Header, error) {
	if tx.c.header != nil {
		return cloneHeader(tx.c.header), nil
	}
	return tx.parent.header()
}

func (tx *LedgerTxn) account(id string) (*ledger.AccountEntry, error) {
	if entry, staged := tx.c.accounts[id]; staged {
		if entry == nil {
			return nil, nil
		}
		return cloneAccount(entry), nil
	}
	return tx.parent.account(id)
}

func (tx *LedgerTxn) trustLine(id string, asset ledger.Asset) (*ledger.TrustLineEntry, error) {
	if entry, staged := tx.c.lines[string(trustLineKey(id, asset))]; staged {
		if entry == nil {
			return nil, nil
		}
		return cloneTrustLine(entry), nil
	}
	return tx.parent.trustLine(id, asset)
}

func (tx *LedgerTxn) offer(offerID int64) (*ledger.OfferEntry, error) {
	if entry, staged := tx.c.offers[offerID]; staged {
		if entry == nil {
			return nil, nil
		}
		return cloneOffer(entry), nil
	}
	return tx.parent.offer(offerID)
}

func (tx *LedgerTxn) forEachOffer(fn func(*ledger.OfferEntry) error) error {
	err := tx.parent.forEachOffer(func(o *ledger.OfferEntry) error {
		if _, staged := tx.c.offers[o.OfferID]; staged {
			return nil // overlay wins, visited below
		}
		return fn(o)
	})
	if err != nil {
		return err
	}
	for _, entry := range tx.c.offers {
		if entry == nil {
			continue
		}
		if err := fn(cloneOffer(entry)); err != nil {
			return err
		}
	}
	return nil
}
