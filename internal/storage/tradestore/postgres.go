// Package tradestore persists executed crossings to Postgres for history
// queries. It is a sink: the exchange core never reads from it.
package tradestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goStellard/internal/core/exchange"
)

// insertChunkSize bounds rows per INSERT so statements stay well under the
// Postgres parameter limit.
const insertChunkSize = 500

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id            BIGSERIAL PRIMARY KEY,
    ledger_seq    BIGINT      NOT NULL,
    seller_id     TEXT        NOT NULL,
    offer_id      BIGINT      NOT NULL,
    asset_sold    TEXT        NOT NULL,
    amount_sold   BIGINT      NOT NULL,
    asset_bought  TEXT        NOT NULL,
    amount_bought BIGINT      NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS trades_ledger_seq_idx ON trades (ledger_seq);
CREATE INDEX IF NOT EXISTS trades_seller_idx ON trades (seller_id, id DESC);
`

// Trade is one recorded crossing, seller's point of view.
type Trade struct {
	ID           int64
	LedgerSeq    uint32
	SellerID     string
	OfferID      int64
	AssetSold    string
	AmountSold   int64
	AssetBought  string
	AmountBought int64
	CreatedAt    time.Time
}

// Store is a Postgres-backed trade history.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("tradestore: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("tradestore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tradestore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordTrades writes the crossings of one transaction, chunked and inserted
// concurrently. Satisfies tx.TradeRecorder.
func (s *Store) RecordTrades(ctx context.Context, ledgerSeq uint32, trades []exchange.ClaimOfferAtom) error {
	if len(trades) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, chunk := range chunkTrades(trades, insertChunkSize) {
		chunk := chunk
		g.Go(func() error {
			return s.insertChunk(ctx, ledgerSeq, chunk)
		})
	}
	return g.Wait()
}

func (s *Store) insertChunk(ctx context.Context, ledgerSeq uint32, chunk []exchange.ClaimOfferAtom) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO trades (ledger_seq, seller_id, offer_id, asset_sold, amount_sold, asset_bought, amount_bought) VALUES ")
	args := make([]interface{}, 0, len(chunk)*7)
	for i, atom := range chunk {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, int64(ledgerSeq), atom.SellerID, atom.OfferID,
			atom.AssetSold.String(), atom.AmountSold,
			atom.AssetBought.String(), atom.AmountBought)
	}
	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("tradestore: insert %d trades: %w", len(chunk), err)
	}
	return nil
}

// TradesForLedger returns every trade recorded for one ledger, oldest first.
func (s *Store) TradesForLedger(ctx context.Context, ledgerSeq uint32) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ledger_seq, seller_id, offer_id, asset_sold, amount_sold, asset_bought, amount_bought, created_at
		 FROM trades WHERE ledger_seq = $1 ORDER BY id`, int64(ledgerSeq))
	if err != nil {
		return nil, fmt.Errorf("tradestore: query ledger %d: %w", ledgerSeq, err)
	}
	return scanTrades(rows)
}

// TradesForSeller returns the seller's most recent trades, newest first.
func (s *Store) TradesForSeller(ctx context.Context, sellerID string, limit int) ([]Trade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ledger_seq, seller_id, offer_id, asset_sold, amount_sold, asset_bought, amount_bought, created_at
		 FROM trades WHERE seller_id = $1 ORDER BY id DESC LIMIT $2`, sellerID, limit)
	if err != nil {
		return nil, fmt.Errorf("tradestore: query seller %s: %w", sellerID, err)
	}
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]Trade, error) {
	defer rows.Close()
	var out []Trade
	for rows.Next() {
		var t Trade
		var seq int64
		if err := rows.Scan(&t.ID, &seq, &t.SellerID, &t.OfferID,
			&t.AssetSold, &t.AmountSold, &t.AssetBought, &t.AmountBought, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("tradestore: scan: %w", err)
		}
		t.LedgerSeq = uint32(seq)
		out = append(out, t)
	}
	return out, rows.Err()
}

func chunkTrades(trades []exchange.ClaimOfferAtom, size int) [][]exchange.ClaimOfferAtom {
	var chunks [][]exchange.ClaimOfferAtom
	for len(trades) > size {
		chunks = append(chunks, trades[:size])
		trades = trades[size:]
	}
	return append(chunks, trades)
}
