// Package ltx provides the transactional view over ledger state that the
// exchange core and the transaction layer operate on. A Store persists
// entries in a keyValueDb backend; a LedgerTxn stages reads and writes on top
// of a Store (or another LedgerTxn) and commits or rolls back as a unit.
package ltx

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ugorji/go/codec"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goStellard/internal/core/ledger"
	"github.com/LeJamon/goStellard/internal/storage/keyValueDb"
)

// ErrNoHeader is returned when the store has not been initialized with a
// ledger header yet.
var ErrNoHeader = errors.New("ltx: store has no ledger header")

// Key layout. Each entry kind lives under its own single-byte prefix so that
// a prefix scan visits exactly one kind.
const (
	prefixHeader    = "H"
	prefixAccount   = "A/"
	prefixTrustLine = "T/"
	prefixOffer     = "O/"
)

// entryCacheSize bounds the decoded-entry cache. Offers churn quickly during
// crossing, so the cache mostly earns its keep on accounts and trustlines.
const entryCacheSize = 4096

var cborHandle codec.CborHandle

func encodeEntry(v interface{}) ([]byte, error) {
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, &cborHandle).Encode(v); err != nil {
		return nil, fmt.Errorf("ltx: encode entry: %w", err)
	}
	return compressValue(buf)
}

func decodeEntry(data []byte, v interface{}) error {
	raw, err := decompressValue(data)
	if err != nil {
		return err
	}
	if err := codec.NewDecoderBytes(raw, &cborHandle).Decode(v); err != nil {
		return fmt.Errorf("ltx: decode entry: %w", err)
	}
	return nil
}

func accountKey(id string) []byte {
	return []byte(prefixAccount + id)
}

func trustLineKey(id string, asset ledger.Asset) []byte {
	return []byte(prefixTrustLine + id + "|" + asset.String())
}

func offerKey(offerID int64) []byte {
	key := make([]byte, len(prefixOffer)+8)
	copy(key, prefixOffer)
	binary.BigEndian.PutUint64(key[len(prefixOffer):], uint64(offerID))
	return key
}

// Store persists ledger entries in a key/value backend, with an LRU cache of
// decoded entries in front of it. Values are CBOR encoded and lz4 compressed
// when that saves space. All mutation goes through applyChanges, which a
// committing LedgerTxn drives as a single atomic batch.
type Store struct {
	db    keyValueDb.DB
	cache *lru.Cache[string, interface{}]
}

// NewStore wraps db. The store does not own the backend; closing it is the
// caller's job.
func NewStore(db keyValueDb.DB) (*Store, error) {
	cache, err := lru.New[string, interface{}](entryCacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

// InitHeader writes the initial ledger header. Meant for genesis and tests.
func (s *Store) InitHeader(h *ledger.Header) error {
	data, err := encodeEntry(h)
	if err != nil {
		return err
	}
	if err := s.db.Write(context.Background(), []byte(prefixHeader), data); err != nil {
		return err
	}
	s.cache.Add(prefixHeader, cloneHeader(h))
	return nil
}

func (s *Store) header() (*ledger.Header, error) {
	if cached, ok := s.cache.Get(prefixHeader); ok {
		return cloneHeader(cached.(*ledger.Header)), nil
	}
	data, err := s.db.Read(context.Background(), []byte(prefixHeader))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, ErrNoHeader
		}
		return nil, err
	}
	var h ledger.Header
	if err := decodeEntry(data, &h); err != nil {
		return nil, err
	}
	s.cache.Add(prefixHeader, cloneHeader(&h))
	return &h, nil
}

func (s *Store) account(id string) (*ledger.AccountEntry, error) {
	key := accountKey(id)
	if cached, ok := s.cache.Get(string(key)); ok {
		return cloneAccount(cached.(*ledger.AccountEntry)), nil
	}
	data, err := s.db.Read(context.Background(), key)
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var entry ledger.AccountEntry
	if err := decodeEntry(data, &entry); err != nil {
		return nil, err
	}
	s.cache.Add(string(key), cloneAccount(&entry))
	return &entry, nil
}

func (s *Store) trustLine(id string, asset ledger.Asset) (*ledger.TrustLineEntry, error) {
	key := trustLineKey(id, asset)
	if cached, ok := s.cache.Get(string(key)); ok {
		return cloneTrustLine(cached.(*ledger.TrustLineEntry)), nil
	}
	data, err := s.db.Read(context.Background(), key)
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var entry ledger.TrustLineEntry
	if err := decodeEntry(data, &entry); err != nil {
		return nil, err
	}
	s.cache.Add(string(key), cloneTrustLine(&entry))
	return &entry, nil
}

func (s *Store) offer(offerID int64) (*ledger.OfferEntry, error) {
	data, err := s.db.Read(context.Background(), offerKey(offerID))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var entry ledger.OfferEntry
	if err := decodeEntry(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) forEachOffer(fn func(*ledger.OfferEntry) error) error {
	start := []byte(prefixOffer)
	end := offerKey(ledger.MaxInt64)
	it, err := s.db.Iterator(context.Background(), start, end)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		var entry ledger.OfferEntry
		if err := decodeEntry(it.Value(), &entry); err != nil {
			return err
		}
		if err := fn(&entry); err != nil {
			return err
		}
	}
	return it.Error()
}

// applyChanges flushes a committed transaction's staged writes as one batch.
func (s *Store) applyChanges(c *changeSet) error {
	var ops []keyValueDb.BatchOperation

	if c.header != nil {
		data, err := encodeEntry(c.header)
		if err != nil {
			return err
		}
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchPut, Key: []byte(prefixHeader), Value: data})
	}
	for id, entry := range c.accounts {
		key := accountKey(id)
		if entry == nil {
			ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchDelete, Key: key})
			continue
		}
		data, err := encodeEntry(entry)
		if err != nil {
			return err
		}
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchPut, Key: key, Value: data})
	}
	for key, entry := range c.lines {
		kb := []byte(key)
		if entry == nil {
			ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchDelete, Key: kb})
			continue
		}
		data, err := encodeEntry(entry)
		if err != nil {
			return err
		}
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchPut, Key: kb, Value: data})
	}
	for offerID, entry := range c.offers {
		key := offerKey(offerID)
		if entry == nil {
			ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchDelete, Key: key})
			continue
		}
		data, err := encodeEntry(entry)
		if err != nil {
			return err
		}
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchPut, Key: key, Value: data})
	}

	if err := s.db.Batch(context.Background(), ops); err != nil {
		return err
	}

	// Refresh the decoded cache only after the batch landed.
	if c.header != nil {
		s.cache.Add(prefixHeader, cloneHeader(c.header))
	}
	for id, entry := range c.accounts {
		key := string(accountKey(id))
		if entry == nil {
			s.cache.Remove(key)
		} else {
			s.cache.Add(key, cloneAccount(entry))
		}
	}
	for key, entry := range c.lines {
		if entry == nil {
			s.cache.Remove(key)
		} else {
			s.cache.Add(key, cloneTrustLine(entry))
		}
	}
	return nil
}

// Stats summarizes what the store holds. Produced by a full scan, so it is a
// diagnostics tool, not a hot-path query.
type Stats struct {
	HasHeader  bool
	Accounts   int
	TrustLines int
	Offers     int
}

// Stats scans the store and counts decodable entries per kind, one goroutine
// per kind. An entry that fails to decode, or an offer with a non-positive
// amount or price, makes the scan fail.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.db.Read(ctx, []byte(prefixHeader))
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		st.HasHeader = true
		return nil
	})
	g.Go(func() error {
		n, err := s.countPrefix(ctx, prefixAccount, func(data []byte) error {
			var entry ledger.AccountEntry
			return decodeEntry(data, &entry)
		})
		st.Accounts = n
		return err
	})
	g.Go(func() error {
		n, err := s.countPrefix(ctx, prefixTrustLine, func(data []byte) error {
			var entry ledger.TrustLineEntry
			return decodeEntry(data, &entry)
		})
		st.TrustLines = n
		return err
	})
	g.Go(func() error {
		n, err := s.countPrefix(ctx, prefixOffer, func(data []byte) error {
			var entry ledger.OfferEntry
			if err := decodeEntry(data, &entry); err != nil {
				return err
			}
			if entry.Amount <= 0 || entry.Price.N <= 0 || entry.Price.D <= 0 {
				return fmt.Errorf("ltx: offer %d is corrupt", entry.OfferID)
			}
			return nil
		})
		st.Offers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s *Store) countPrefix(ctx context.Context, prefix string, check func([]byte) error) (int, error) {
	start := []byte(prefix)
	end := []byte(prefix)
	end[len(end)-1]++ // past every key under the prefix

	it, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := 0
	for it.Next() {
		if err := check(it.Value()); err != nil {
			return 0, err
		}
		count++
	}
	return count, it.Error()
}

func cloneHeader(h *ledger.Header) *ledger.Header {
	out := *h
	return &out
}

func cloneAccount(a *ledger.AccountEntry) *ledger.AccountEntry {
	out := *a
	return &out
}

func cloneTrustLine(t *ledger.TrustLineEntry) *ledger.TrustLineEntry {
	out := *t
	return &out
}

func cloneOffer(o *ledger.OfferEntry) *ledger.OfferEntry {
	out := *o
	return &out
}
