package tx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goStellard/internal/core/ledger"
	"github.com/LeJamon/goStellard/internal/core/tx"
	"github.com/LeJamon/goStellard/internal/testing/ledgertest"
)

const u = ledger.OneUnit

var usd = ledger.CreditAsset("USD", "gateway")

// newMarketEnv funds a gateway (issuer), bob with 50 USD resting an offer
// selling 20 USD at 2 native per USD, and alice with an empty USD line.
func newMarketEnv(t *testing.T) *ledgertest.Env {
	env := ledgertest.New(t)
	env.FundAccount("gateway", 100*u)
	env.FundAccount("bob", 100*u)
	env.Trust("bob", usd, 1000*u, 50*u)
	env.FundAccount("alice", 100*u)
	env.Trust("alice", usd, 1000*u, 0)

	res := env.SubmitOffer(tx.ManageOffer{
		SourceID: "bob",
		Selling:  usd,
		Buying:   ledger.NativeAsset(),
		Amount:   20 * u,
		Price:    ledger.NewPrice(2, 1),
	})
	require.Equal(t, tx.OfferCreated, res.Effect)
	require.Equal(t, int64(1), res.Offer.OfferID)
	return env
}

func TestManageOffer_CreateRestingOffer(t *testing.T) {
	env := newMarketEnv(t)

	bob := env.Account("bob")
	require.Equal(t, uint32(2), bob.NumSubEntries) // trustline + offer
	require.Equal(t, 100*u-ledgertest.BaseFee, bob.Balance)

	offer := env.Offer(1)
	require.Equal(t, "bob", offer.SellerID)
	require.Equal(t, 20*u, offer.Amount)
	require.Equal(t, ledger.NewPrice(2, 1), offer.Price)
}

func TestManageOffer_CrossingSettlesBothSides(t *testing.T) {
	env := newMarketEnv(t)

	// Alice sells 10 native for USD at 0.5 USD per native. Bob's offer asks
	// 2 native per USD, exactly alice's limit, so it crosses: alice's 10
	// native buy 5 USD at bob's price.
	res := env.SubmitOffer(tx.ManageOffer{
		SourceID: "alice",
		Selling:  ledger.NativeAsset(),
		Buying:   usd,
		Amount:   10 * u,
		Price:    ledger.NewPrice(1, 2),
	})
	require.Equal(t, tx.OfferDeleted, res.Effect) // fully consumed, no residual
	require.Nil(t, res.Offer)

	require.Len(t, res.OffersClaimed, 1)
	atom := res.OffersClaimed[0]
	require.Equal(t, "bob", atom.SellerID)
	require.Equal(t, int64(1), atom.OfferID)
	require.Equal(t, usd, atom.AssetSold)
	require.Equal(t, 5*u, atom.AmountSold)
	require.Equal(t, 10*u, atom.AmountBought)

	// Alice paid 10 native and one fee, and holds 5 USD.
	alice := env.Account("alice")
	require.Equal(t, 90*u-ledgertest.BaseFee, alice.Balance)
	require.Equal(t, 5*u, env.TrustLine("alice", usd).Balance)

	// Bob's offer shrank by the 5 USD sold; his balances moved in kind.
	require.Equal(t, 15*u, env.Offer(1).Amount)
	require.Equal(t, 45*u, env.TrustLine("bob", usd).Balance)
	require.Equal(t, 110*u-ledgertest.BaseFee, env.Account("bob").Balance)
}

func TestManageOffer_ResidualGoesOnTheBook(t *testing.T) {
	env := newMarketEnv(t)

	// At 1 USD per native nothing on the book is acceptable, so the whole
	// amount rests.
	res := env.SubmitOffer(tx.ManageOffer{
		SourceID: "alice",
		Selling:  ledger.NativeAsset(),
		Buying:   usd,
		Amount:   30 * u,
		Price:    ledger.NewPrice(1, 1),
	})
	require.Equal(t, tx.OfferCreated, res.Effect)
	require.Empty(t, res.OffersClaimed)
	require.Equal(t, int64(2), res.Offer.OfferID)
	require.Equal(t, 30*u, res.Offer.Amount)

	require.Equal(t, uint32(2), env.Account("alice").NumSubEntries)
	require.Equal(t, 20*u, env.Offer(1).Amount) // bob untouched
}

func TestManageOffer_UpdateAndCancel(t *testing.T) {
	env := newMarketEnv(t)

	res := env.SubmitOffer(tx.ManageOffer{
		SourceID: "bob",
		OfferID:  1,
		Selling:  usd,
		Buying:   ledger.NativeAsset(),
		Amount:   8 * u,
		Price:    ledger.NewPrice(3, 1),
	})
	require.Equal(t, tx.OfferUpdated, res.Effect)
	require.Equal(t, int64(1), res.Offer.OfferID)

	offer := env.Offer(1)
	require.Equal(t, 8*u, offer.Amount)
	require.Equal(t, ledger.NewPrice(3, 1), offer.Price)
	require.Equal(t, uint32(2), env.Account("bob").NumSubEntries)

	res = env.SubmitOffer(tx.ManageOffer{
		SourceID: "bob",
		OfferID:  1,
		Selling:  usd,
		Buying:   ledger.NativeAsset(),
		Amount:   0,
		Price:    ledger.NewPrice(1, 1),
	})
	require.Equal(t, tx.OfferDeleted, res.Effect)
	require.Nil(t, env.Offer(1))
	require.Equal(t, uint32(1), env.Account("bob").NumSubEntries)
}

func TestManageOffer_FailureCodes(t *testing.T) {
	env := newMarketEnv(t)
	native := ledger.NativeAsset()

	apply := func(op tx.ManageOffer) tx.ManageOfferResultCode {
		acc := env.Account(op.SourceID)
		res := env.Apply(tx.Transaction{
			SourceID: op.SourceID,
			SeqNum:   acc.SeqNum + 1,
			Fee:      ledgertest.BaseFee,
			Op:       op,
		})
		require.Equal(t, tx.TxFAILED, res.Code)
		return res.Op.Code
	}

	price := ledger.NewPrice(1, 1)

	// Malformed: same asset both sides.
	require.Equal(t, tx.ManageOfferMALFORMED, apply(tx.ManageOffer{
		SourceID: "alice", Selling: native, Buying: native, Amount: u, Price: price,
	}))

	// Unknown offer ID, and someone else's offer.
	require.Equal(t, tx.ManageOfferNOT_FOUND, apply(tx.ManageOffer{
		SourceID: "alice", OfferID: 99, Selling: native, Buying: usd, Amount: u, Price: price,
	}))
	require.Equal(t, tx.ManageOfferNOT_FOUND, apply(tx.ManageOffer{
		SourceID: "alice", OfferID: 1, Selling: native, Buying: usd, Amount: u, Price: price,
	}))

	// Missing trustlines on either leg.
	env.FundAccount("noline", 100*u)
	require.Equal(t, tx.ManageOfferSELL_NO_TRUST, apply(tx.ManageOffer{
		SourceID: "noline", Selling: usd, Buying: native, Amount: u, Price: price,
	}))
	require.Equal(t, tx.ManageOfferBUY_NO_TRUST, apply(tx.ManageOffer{
		SourceID: "noline", Selling: native, Buying: usd, Amount: u, Price: price,
	}))

	// A trustline with nothing on it cannot fund a sell.
	require.Equal(t, tx.ManageOfferUNDERFUNDED, apply(tx.ManageOffer{
		SourceID: "alice", Selling: usd, Buying: native, Amount: u, Price: price,
	}))

	// Unknown issuer.
	ghost := ledger.CreditAsset("GHO", "nobody")
	require.Equal(t, tx.ManageOfferBUY_NO_ISSUER, apply(tx.ManageOffer{
		SourceID: "alice", Selling: native, Buying: ghost, Amount: u, Price: price,
	}))

	// Reserve floor: spendable funds but not enough headroom for one more
	// subentry.
	env.FundAccount("poor", 18_000_000+ledgertest.BaseFee)
	env.Trust("poor", usd, 1000*u, 0)
	require.Equal(t, tx.ManageOfferLOW_RESERVE, apply(tx.ManageOffer{
		SourceID: "poor", Selling: native, Buying: usd, Amount: u, Price: price,
	}))
}

func TestManageOffer_CrossSelfFails(t *testing.T) {
	env := newMarketEnv(t)

	// Bob tries to take his own resting offer: selling native for USD at a
	// price his own offer crosses.
	bob := env.Account("bob")
	res := env.Apply(tx.Transaction{
		SourceID: "bob",
		SeqNum:   bob.SeqNum + 1,
		Fee:      ledgertest.BaseFee,
		Op: tx.ManageOffer{
			SourceID: "bob",
			Selling:  ledger.NativeAsset(),
			Buying:   usd,
			Amount:   10 * u,
			Price:    ledger.NewPrice(1, 2),
		},
	})
	require.Equal(t, tx.TxFAILED, res.Code)
	require.Equal(t, tx.ManageOfferCROSS_SELF, res.Op.Code)

	// Nothing moved except the fee; the resting offer is intact.
	require.Equal(t, 20*u, env.Offer(1).Amount)
	require.Equal(t, 50*u, env.TrustLine("bob", usd).Balance)
	require.Equal(t, bob.Balance-ledgertest.BaseFee, env.Account("bob").Balance)
}

func TestManageOffer_WorkLimit(t *testing.T) {
	env := newMarketEnv(t)
	env.Engine = tx.NewEngine(env.Store, tx.EngineConfig{MaxOffersToCross: 1})

	// A second resting offer behind bob's.
	env.FundAccount("carol", 100*u)
	env.Trust("carol", usd, 1000*u, 50*u)
	env.SubmitOffer(tx.ManageOffer{
		SourceID: "carol",
		Selling:  usd,
		Buying:   ledger.NativeAsset(),
		Amount:   20 * u,
		Price:    ledger.NewPrice(2, 1),
	})

	// Alice's order is big enough to need both offers, so it trips the
	// crossing limit and the whole operation fails.
	alice := env.Account("alice")
	res := env.Apply(tx.Transaction{
		SourceID: "alice",
		SeqNum:   alice.SeqNum + 1,
		Fee:      ledgertest.BaseFee,
		Op: tx.ManageOffer{
			SourceID: "alice",
			Selling:  ledger.NativeAsset(),
			Buying:   usd,
			Amount:   90 * u,
			Price:    ledger.NewPrice(1, 2),
		},
	})
	require.Equal(t, tx.TxFAILED, res.Code)
	require.Equal(t, tx.ManageOfferEXCEEDED_WORK_LIMIT, res.Op.Code)

	// The aborted crossing left both offers whole.
	require.Equal(t, 20*u, env.Offer(1).Amount)
	require.Equal(t, 20*u, env.Offer(2).Amount)
	require.Zero(t, env.TrustLine("alice", usd).Balance)
}
