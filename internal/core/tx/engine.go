package tx

import (
	"context"
	"log"

	"github.com/LeJamon/goStellard/internal/core/exchange"
	"github.com/LeJamon/goStellard/internal/core/ledger/ltx"
)

// TradeRecorder receives the crossings a successful transaction executed.
// Implemented by the trade history store; recording is best-effort and never
// fails the transaction.
type TradeRecorder interface {
	RecordTrades(ctx context.Context, ledgerSeq uint32, trades []exchange.ClaimOfferAtom) error
}

// EngineConfig carries the engine's policy knobs.
type EngineConfig struct {
	// MaxOffersToCross bounds how many resting offers one operation may
	// cross. Zero means unbounded.
	MaxOffersToCross int
}

// Engine applies transactions against a ledger store. Each transaction is
// one atomic unit: either the fee, sequence bump, and operation all land, or
// (for invalid transactions) nothing does. A failed operation still charges
// its fee.
type Engine struct {
	store  *ltx.Store
	cfg    EngineConfig
	trades TradeRecorder
}

// NewEngine builds an engine over store.
func NewEngine(store *ltx.Store, cfg EngineConfig) *Engine {
	return &Engine{store: store, cfg: cfg}
}

// SetTradeRecorder attaches a trade history sink.
func (e *Engine) SetTradeRecorder(r TradeRecorder) {
	e.trades = r
}

// Transaction is a sequenced, fee-paying envelope around one ManageOffer.
type Transaction struct {
	SourceID string
	SeqNum   int64
	Fee      int64
	Op       ManageOffer
}

// TxApplyResult reports what applying a transaction did.
type TxApplyResult struct {
	Code       TxResult
	FeeCharged int64
	LedgerSeq  uint32
	Op         *ManageOfferResult
}

// Apply validates and applies t. The returned result is non-nil whenever the
// error is nil, including for rejected transactions.
func (e *Engine) Apply(ctx context.Context, t Transaction) (*TxApplyResult, error) {
	view := ltx.Begin(e.store)

	res, err := e.applyInView(view, t)
	if err != nil {
		view.Rollback()
		return nil, err
	}
	if !res.Code.IsApplied() {
		view.Rollback()
		return res, nil
	}
	if err := view.Commit(); err != nil {
		return nil, err
	}

	if e.trades != nil && res.Code.IsSuccess() && res.Op != nil && len(res.Op.OffersClaimed) > 0 {
		if rerr := e.trades.RecordTrades(ctx, res.LedgerSeq, res.Op.OffersClaimed); rerr != nil {
			log.Printf("tx: recording %d trades failed: %v", len(res.Op.OffersClaimed), rerr)
		}
	}
	return res, nil
}

func (e *Engine) applyInView(view *ltx.LedgerTxn, t Transaction) (*TxApplyResult, error) {
	h, err := view.Header()
	if err != nil {
		return nil, err
	}
	acc, err := view.Account(t.SourceID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return &TxApplyResult{Code: TxNO_ACCOUNT, LedgerSeq: h.LedgerSeq}, nil
	}
	if t.SeqNum != acc.SeqNum+1 {
		return &TxApplyResult{Code: TxBAD_SEQ, LedgerSeq: h.LedgerSeq}, nil
	}
	if t.Fee < h.BaseFee {
		return &TxApplyResult{Code: TxINSUFFICIENT_FEE, LedgerSeq: h.LedgerSeq}, nil
	}
	if acc.Balance < t.Fee {
		return &TxApplyResult{Code: TxINSUFFICIENT_BALANCE, LedgerSeq: h.LedgerSeq}, nil
	}

	// The fee and sequence bump stick even when the operation fails.
	acc.Balance -= t.Fee
	acc.SeqNum = t.SeqNum
	if err := view.PutAccount(acc); err != nil {
		return nil, err
	}

	inner := view.BeginNested()
	opRes, err := t.Op.Apply(inner, e.cfg.MaxOffersToCross)
	if err != nil {
		inner.Rollback()
		return nil, err
	}
	code := TxSUCCESS
	if opRes.Code.IsSuccess() {
		if err := inner.Commit(); err != nil {
			return nil, err
		}
	} else {
		inner.Rollback()
		code = TxFAILED
	}
	return &TxApplyResult{Code: code, FeeCharged: t.Fee, LedgerSeq: h.LedgerSeq, Op: opRes}, nil
}
