package gossip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func statusPeer(t *testing.T, status int) *httptest.Server {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}

func deadPeer() string {
	s := httptest.NewServer(http.NotFoundHandler())
	addr := s.URL
	s.Close()
	return addr
}

func TestPeerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5001/chain", PeerURL("localhost:5001", "/chain"))
	assert.Equal(t, "https://a.example/chain", PeerURL("https://a.example/", "/chain"))
}

func TestBroadcastTransactionReport(t *testing.T) {
	ok := statusPeer(t, http.StatusCreated)
	bad := statusPeer(t, http.StatusBadRequest)
	dead := deadPeer()

	c := NewClient()
	r := c.BroadcastTransaction(context.Background(), []string{ok.URL, bad.URL, dead}, tx.NewTransfer("a", "b", 1))

	assert.Equal(t, []string{ok.URL}, r.Accepted)
	assert.Equal(t, []string{bad.URL}, r.Rejected)
	assert.Equal(t, []string{dead}, r.Unreachable)
	assert.False(t, r.Conflict())
}

func TestBroadcastBlockConflict(t *testing.T) {
	var got wire.BlockMessage

	conflict := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wire.PathBroadcastBlock, r.URL.Path)
		assert.NoError(t, wire.DecodeRequest(r, &got))
		w.WriteHeader(http.StatusConflict)
	}))
	defer conflict.Close()

	c := NewClient(WithFormat(wire.FormatMsgpack))
	b := ledger.Genesis()
	b.Index = 7

	r := c.BroadcastBlock(context.Background(), []string{conflict.URL}, b)

	assert.True(t, r.Conflict())
	assert.Equal(t, uint64(7), got.Block.Index)
}

func TestBroadcastNoPeers(t *testing.T) {
	r := NewClient().BroadcastBlock(context.Background(), nil, ledger.Genesis())
	assert.Empty(t, r.Accepted)
	assert.False(t, r.Conflict())
}

func TestFetchChain(t *testing.T) {
	blocks := []ledger.Block{ledger.Genesis()}

	peer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wire.PathChain, r.URL.Path)
		wire.Respond(w, r, http.StatusOK, wire.NewChain(blocks))
	}))
	defer peer.Close()

	for _, f := range []wire.Format{wire.FormatJSON, wire.FormatMsgpack} {
		got, err := NewClient(WithFormat(f)).FetchChain(context.Background(), peer.URL)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, blocks[0].Proof, got[0].Proof)
		assert.Empty(t, got[0].Transactions)
	}
}

func TestFetchChainUnreachable(t *testing.T) {
	_, err := NewClient().FetchChain(context.Background(), deadPeer())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestFetchChainBadStatus(t *testing.T) {
	p := statusPeer(t, http.StatusInternalServerError)
	_, err := NewClient().FetchChain(context.Background(), p.URL)
	assert.ErrorIs(t, err, ErrBadStatus)
}
