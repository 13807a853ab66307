package tradestore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/goStellard/internal/core/exchange"
)

func TestChunkTrades(t *testing.T) {
	trades := make([]exchange.ClaimOfferAtom, 1201)
	for i := range trades {
		trades[i].OfferID = int64(i)
	}

	chunks := chunkTrades(trades, 500)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 500)
	require.Len(t, chunks[1], 500)
	require.Len(t, chunks[2], 201)
	// No row lost or duplicated across the chunk boundaries.
	require.Equal(t, int64(499), chunks[0][499].OfferID)
	require.Equal(t, int64(500), chunks[1][0].OfferID)
	require.Equal(t, int64(1200), chunks[2][200].OfferID)

	single := chunkTrades(trades[:3], 500)
	require.Len(t, single, 1)
	require.Len(t, single[0], 3)
}
