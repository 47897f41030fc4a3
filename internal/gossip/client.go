package gossip

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ledgerd/internal/utils/logging"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

const (
	DefaultTimeout = 5 * time.Second
)

var (
	ErrUnreachable = errors.New("peer unreachable")
	ErrBadStatus   = errors.New("unexpected peer response")
)

// Report aggregates the per-peer outcome of a broadcast.
type Report struct {
	Accepted    []string
	Rejected    []string
	Unreachable []string
	Conflicts   []string
}

// Conflict reports whether any peer signalled that its chain is longer.
func (r *Report) Conflict() bool {
	return len(r.Conflicts) > 0
}

func (r *Report) sort() {
	sort.Strings(r.Accepted)
	sort.Strings(r.Rejected)
	sort.Strings(r.Unreachable)
	sort.Strings(r.Conflicts)
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

func WithFormat(f wire.Format) Option {
	return func(cl *Client) {
		cl.format = f
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// Client talks the peer wire protocol to other nodes.
type Client struct {
	http    *http.Client
	timeout time.Duration
	format  wire.Format
	log     *logrus.Entry
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		format:  wire.FormatJSON,
		log:     logging.Component("gossip"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Timeout is the per peer request deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// PeerURL builds the endpoint URL for a peer given as host:port or a full URL.
func PeerURL(peer, path string) string {
	base := strings.TrimSuffix(peer, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return base + path
}

func (c *Client) BroadcastTransaction(ctx context.Context, peers []string, t tx.Tx) *Report {
	return c.broadcast(ctx, peers, wire.PathBroadcastTransaction, &t)
}

func (c *Client) BroadcastBlock(ctx context.Context, peers []string, b ledger.Block) *Report {
	return c.broadcast(ctx, peers, wire.PathBroadcastBlock, &wire.BlockMessage{Block: b})
}

func (c *Client) broadcast(ctx context.Context, peers []string, path string, msg interface{}) *Report {
	report := &Report{}
	if len(peers) == 0 {
		return report
	}

	body := &bytes.Buffer{}
	if err := c.format.Encode(body, msg); err != nil {
		c.log.WithError(err).Error("encoding broadcast")
		report.Rejected = append(report.Rejected, peers...)
		return report
	}
	payload := body.Bytes()

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(len(peers))

	for _, p := range peers {
		go func(p string) {
			defer wg.Done()

			status, err := c.post(ctx, p, path, payload)

			mu.Lock()
			defer mu.Unlock()

			l := c.log.WithField("peer", p).WithField("path", path)

			switch {
			case err != nil:
				l.WithError(err).Debug("peer unreachable")
				report.Unreachable = append(report.Unreachable, p)
			case status == http.StatusConflict:
				l.Info("peer reported longer chain")
				report.Conflicts = append(report.Conflicts, p)
			case status >= 200 && status < 300:
				report.Accepted = append(report.Accepted, p)
			default:
				l.WithField("status", status).Warn("peer rejected broadcast")
				report.Rejected = append(report.Rejected, p)
			}
		}(p)
	}

	wg.Wait()

	report.sort()

	return report
}

func (c *Client) post(ctx context.Context, peer, path string, payload []byte) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, PeerURL(peer, path), bytes.NewReader(payload))
	if err != nil {
		return 0, errors.Wrap(ErrUnreachable, err.Error())
	}
	req.Header.Set("Content-Type", c.format.ContentType())
	req.Header.Set("Accept", c.format.ContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(ErrUnreachable, err.Error())
	}
	resp.Body.Close()

	return resp.StatusCode, nil
}

// FetchChain retrieves the full chain of a single peer.
func (c *Client) FetchChain(ctx context.Context, peer string) ([]ledger.Block, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, PeerURL(peer, wire.PathChain), nil)
	if err != nil {
		return nil, errors.Wrap(ErrUnreachable, err.Error())
	}
	req.Header.Set("Accept", c.format.ContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrUnreachable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrBadStatus, fmt.Sprintf("status %d", resp.StatusCode))
	}

	f, err := wire.FromContentType(resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	chain := &wire.Chain{}
	if err := f.Decode(resp.Body, chain); err != nil {
		return nil, errors.Wrap(err, "decoding chain")
	}

	return chain.Blocks, nil
}
