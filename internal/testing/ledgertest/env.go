// Package ledgertest provides a ready-made in-memory ledger and engine for
// transaction tests: seeded header, funded accounts, trustlines, and resting
// offers, with require-style accessors that fail the test on any store error.
package ledgertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goStellard/internal/core/ledger"
	"github.com/LeJamon/goStellard/internal/core/ledger/ltx"
	"github.com/LeJamon/goStellard/internal/core/tx"
	"github.com/LeJamon/goStellard/internal/storage/keyValueDb"
)

// BaseReserve and BaseFee used by every test ledger.
const (
	BaseReserve int64 = 5_000_000 // 0.5 units per reserve step
	BaseFee     int64 = 100
)

// Env is one in-memory ledger plus an engine over it.
type Env struct {
	T      *testing.T
	Store  *ltx.Store
	Engine *tx.Engine
}

// New builds an environment with an initialized header.
func New(t *testing.T) *Env {
	t.Helper()
	store, err := ltx.NewStore(keyValueDb.NewMemoryDB())
	require.NoError(t, err)
	require.NoError(t, store.InitHeader(&ledger.Header{
		LedgerSeq:   1,
		BaseFee:     BaseFee,
		BaseReserve: BaseReserve,
	}))
	return &Env{
		T:      t,
		Store:  store,
		Engine: tx.NewEngine(store, tx.EngineConfig{}),
	}
}

// FundAccount creates an account with the given native balance.
func (e *Env) FundAccount(id string, balance int64) {
	e.T.Helper()
	view := ltx.Begin(e.Store)
	require.NoError(e.T, view.PutAccount(&ledger.AccountEntry{
		AccountID: id,
		Balance:   balance,
	}))
	require.NoError(e.T, view.Commit())
}

// Trust opens an authorized trustline and counts it against the account's
// subentries.
func (e *Env) Trust(id string, asset ledger.Asset, limit, balance int64) {
	e.T.Helper()
	view := ltx.Begin(e.Store)
	require.NoError(e.T, view.PutTrustLine(&ledger.TrustLineEntry{
		AccountID:  id,
		Asset:      asset,
		Balance:    balance,
		Limit:      limit,
		Authorized: true,
	}))
	acc, err := view.Account(id)
	require.NoError(e.T, err)
	require.NotNil(e.T, acc, "trustline for unknown account %s", id)
	acc.NumSubEntries++
	require.NoError(e.T, view.PutAccount(acc))
	require.NoError(e.T, view.Commit())
}

// Apply runs a transaction through the engine and requires no engine error.
func (e *Env) Apply(t tx.Transaction) *tx.TxApplyResult {
	e.T.Helper()
	res, err := e.Engine.Apply(context.Background(), t)
	require.NoError(e.T, err)
	return res
}

// SubmitOffer applies a fee-paying ManageOffer from id with the next
// sequence number and requires full success.
func (e *Env) SubmitOffer(op tx.ManageOffer) *tx.ManageOfferResult {
	e.T.Helper()
	acc := e.Account(op.SourceID)
	require.NotNil(e.T, acc)
	res := e.Apply(tx.Transaction{
		SourceID: op.SourceID,
		SeqNum:   acc.SeqNum + 1,
		Fee:      BaseFee,
		Op:       op,
	})
	require.Equal(e.T, tx.TxSUCCESS, res.Code)
	require.Equal(e.T, tx.ManageOfferSUCCESS, res.Op.Code)
	return res.Op
}

// Account reads an account, nil if absent.
func (e *Env) Account(id string) *ledger.AccountEntry {
	e.T.Helper()
	view := ltx.Begin(e.Store)
	defer view.Rollback()
	acc, err := view.Account(id)
	require.NoError(e.T, err)
	return acc
}

// TrustLine reads a trustline, nil if absent.
func (e *Env) TrustLine(id string, asset ledger.Asset) *ledger.TrustLineEntry {
	e.T.Helper()
	view := ltx.Begin(e.Store)
	defer view.Rollback()
	line, err := view.TrustLine(id, asset)
	require.NoError(e.T, err)
	return line
}

// Offer reads an offer, nil if absent.
func (e *Env) Offer(offerID int64) *ledger.OfferEntry {
	e.T.Helper()
	view := ltx.Begin(e.Store)
	defer view.Rollback()
	offer, err := view.Offer(offerID)
	require.NoError(e.T, err)
	return offer
}
