package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/internal/config"
	"github.com/tcfw/ledgerd/internal/node"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

var (
	ErrRequestFailed = errors.New("daemon request failed")
)

// Client talks to a running daemon's HTTP API.
type Client struct {
	base   string
	http   *http.Client
	format wire.Format
}

// NewClient connects to the daemon address in config.
func NewClient() (*Client, error) {
	addr := viper.GetString(config.Cfg_api_listen)
	if addr == "" {
		return nil, errors.New("no daemon address")
	}

	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	return NewClientFor(addr), nil
}

func NewClientFor(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}

	return &Client{
		base:   strings.TrimSuffix(addr, "/"),
		http:   &http.Client{},
		format: wire.FormatJSON,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := c.format.Encode(&buf, body); err != nil {
			return errors.Wrap(err, "encoding request")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", c.format.ContentType())
	if body != nil {
		req.Header.Set("Content-Type", c.format.ContentType())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "connecting to daemon")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := wire.Message{}
		c.format.Decode(resp.Body, &msg)
		return errors.Wrap(ErrRequestFailed, fmt.Sprintf("%d: %s", resp.StatusCode, msg.Message))
	}

	if out == nil {
		return nil
	}

	if err := c.format.Decode(resp.Body, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}

	return nil
}

func (c *Client) Chain(ctx context.Context) ([]ledger.Block, error) {
	chain := &wire.Chain{}
	if err := c.do(ctx, http.MethodGet, wire.PathChain, nil, chain); err != nil {
		return nil, err
	}
	return chain.Blocks, nil
}

func (c *Client) Status(ctx context.Context) (*node.Status, error) {
	s := &node.Status{}
	if err := c.do(ctx, http.MethodGet, "/status", nil, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Balance of participant; empty means the daemon's miner.
func (c *Client) Balance(ctx context.Context, participant string) (*BalanceResponse, error) {
	path := "/balance"
	if participant != "" {
		path += "/" + url.PathEscape(participant)
	}

	b := &BalanceResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) Transactions(ctx context.Context) ([]tx.Tx, error) {
	res := &TransactionsResponse{}
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, res); err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

func (c *Client) Submit(ctx context.Context, t tx.Tx) error {
	return c.do(ctx, http.MethodPost, "/transactions", &t, nil)
}

func (c *Client) Mine(ctx context.Context) (*ledger.Block, error) {
	b := &ledger.Block{}
	if err := c.do(ctx, http.MethodPost, "/mine", nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) Resolve(ctx context.Context) (*ResolveResponse, error) {
	res := &ResolveResponse{}
	if err := c.do(ctx, http.MethodPost, "/resolve", nil, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Peers(ctx context.Context) ([]string, error) {
	res := &PeersResponse{}
	if err := c.do(ctx, http.MethodGet, "/peers", nil, res); err != nil {
		return nil, err
	}
	return res.Peers, nil
}

func (c *Client) AddPeer(ctx context.Context, addr string) ([]string, error) {
	res := &PeersResponse{}
	if err := c.do(ctx, http.MethodPost, "/peers", &PeerRequest{Address: addr}, res); err != nil {
		return nil, err
	}
	return res.Peers, nil
}

func (c *Client) RemovePeer(ctx context.Context, addr string) ([]string, error) {
	res := &PeersResponse{}
	if err := c.do(ctx, http.MethodDelete, "/peers/"+url.PathEscape(addr), nil, res); err != nil {
		return nil, err
	}
	return res.Peers, nil
}
