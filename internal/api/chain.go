package api

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/tcfw/ledgerd/internal/node"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func init() {
	reg = append(reg, &chainApi{})
}

// chainApi serves operator requests against the local node.
type chainApi struct {
	BaseHandler
}

func (c *chainApi) Setup(a *Api, r *mux.Router) error {
	c.a = a

	r.HandleFunc("/balance", c.balance).Methods("GET")
	r.HandleFunc("/balance/{participant}", c.balance).Methods("GET")
	r.HandleFunc("/transactions", c.transactions).Methods("GET")
	r.HandleFunc("/transactions", c.submit).Methods("POST")
	r.HandleFunc("/mine", c.mine).Methods("POST")
	r.HandleFunc("/resolve", c.resolve).Methods("POST")
	r.HandleFunc("/status", c.status).Methods("GET")

	return nil
}

func (c *chainApi) balance(w http.ResponseWriter, r *http.Request) {
	participant, err := url.PathUnescape(mux.Vars(r)["participant"])
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if participant == "" {
		participant = c.a.n.Miner()
	}

	b, err := c.a.n.Balance(participant)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	wire.Respond(w, r, http.StatusOK, &BalanceResponse{Participant: participant, Balance: b})
}

func (c *chainApi) transactions(w http.ResponseWriter, r *http.Request) {
	wire.Respond(w, r, http.StatusOK, &TransactionsResponse{Transactions: c.a.n.Pool()})
}

func (c *chainApi) submit(w http.ResponseWriter, r *http.Request) {
	t := tx.Tx{}
	if err := wire.DecodeRequest(r, &t); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if _, err := c.a.n.Submit(r.Context(), t); err != nil {
		respondError(w, r, txErrorStatus(err), err)
		return
	}

	wire.Respond(w, r, http.StatusCreated, &t)
}

func (c *chainApi) mine(w http.ResponseWriter, r *http.Request) {
	b, err := c.a.n.Mine(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		switch errors.Cause(err) {
		case node.ErrNoMinerIdentity:
			status = http.StatusBadRequest
		case node.ErrPendingSignature, node.ErrStaleTip:
			status = http.StatusConflict
		}
		respondError(w, r, status, err)
		return
	}

	wire.Respond(w, r, http.StatusCreated, b)
}

func (c *chainApi) resolve(w http.ResponseWriter, r *http.Request) {
	replaced, err := c.a.n.Resolve(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	wire.Respond(w, r, http.StatusOK, &ResolveResponse{Replaced: replaced, Length: len(c.a.n.Chain())})
}

func (c *chainApi) status(w http.ResponseWriter, r *http.Request) {
	s, err := c.a.n.Status()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, err)
		return
	}

	wire.Respond(w, r, http.StatusOK, s)
}
