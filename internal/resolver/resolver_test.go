package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/ledgerd/internal/gossip"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/ledger"
)

type mapFetcher map[string][]ledger.Block

func (m mapFetcher) FetchChain(_ context.Context, peer string) ([]ledger.Block, error) {
	c, ok := m[peer]
	if !ok {
		return nil, gossip.ErrUnreachable
	}
	return c, nil
}

func chainOf(t *testing.T, n int, miner string) []ledger.Block {
	t.Helper()

	l := ledger.New()
	for l.Len() < n {
		b, err := l.ForgeNext(context.Background(), nil, miner)
		require.NoError(t, err)
		_, err = l.AddBlock(b)
		require.NoError(t, err)
	}

	return l.Blocks()
}

func TestResolveAdoptsLongestValid(t *testing.T) {
	local := chainOf(t, 2, "local")

	f := mapFetcher{
		"a": chainOf(t, 3, "a"),
		"b": chainOf(t, 5, "b"),
	}

	r := New(f, ledger.New())
	winner, replaced := r.Resolve(context.Background(), local, []string{"a", "b", "gone"})

	assert.True(t, replaced)
	assert.Len(t, winner, 5)
	assert.Equal(t, f["b"], winner)
}

func TestResolveIgnoresInvalidLonger(t *testing.T) {
	local := chainOf(t, 2, "local")

	bad := chainOf(t, 4, "bad")
	bad[2].PreviousHash = "00"

	r := New(mapFetcher{"bad": bad}, ledger.New())
	winner, replaced := r.Resolve(context.Background(), local, []string{"bad"})

	assert.False(t, replaced)
	assert.Equal(t, local, winner)
}

func TestResolveEqualLengthKeepsLocal(t *testing.T) {
	local := chainOf(t, 3, "local")

	r := New(mapFetcher{"a": chainOf(t, 3, "a")}, ledger.New())
	winner, replaced := r.Resolve(context.Background(), local, []string{"a"})

	assert.False(t, replaced)
	assert.Equal(t, local, winner)
}

type rejectAll struct{}

func (rejectAll) IsValidChain([]ledger.Block) error { return errors.New("nope") }

func TestResolveNoPeers(t *testing.T) {
	local := chainOf(t, 1, "")

	winner, replaced := New(mapFetcher{}, rejectAll{}).Resolve(context.Background(), local, nil)
	assert.False(t, replaced)
	assert.Equal(t, local, winner)
}

func TestResolveOverHTTP(t *testing.T) {
	serve := func(blocks []ledger.Block) *httptest.Server {
		s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wire.Respond(w, r, http.StatusOK, wire.NewChain(blocks))
		}))
		t.Cleanup(s.Close)
		return s
	}

	three := serve(chainOf(t, 3, "p3"))
	five := serve(chainOf(t, 5, "p5"))

	r := New(gossip.NewClient(), ledger.New())
	winner, replaced := r.Resolve(context.Background(), chainOf(t, 1, ""), []string{three.URL, five.URL})

	assert.True(t, replaced)
	assert.Len(t, winner, 5)
	assert.Equal(t, "p5", winner[4].Transactions[0].Recipient)
}
