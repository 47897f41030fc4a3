package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tcfw/ledgerd/internal/node"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/tcfw/ledgerd/pkg/tx"
)

func init() {
	reg = append(reg, &p2pApi{})
}

// p2pApi serves the peer wire endpoints other nodes gossip to.
type p2pApi struct {
	BaseHandler
}

func (p *p2pApi) Setup(a *Api, r *mux.Router) error {
	p.a = a

	r.HandleFunc(wire.PathBroadcastTransaction, p.broadcastTransaction).Methods("POST")
	r.HandleFunc(wire.PathBroadcastBlock, p.broadcastBlock).Methods("POST")
	r.HandleFunc(wire.PathChain, p.chain).Methods("GET")

	return nil
}

func (p *p2pApi) broadcastTransaction(w http.ResponseWriter, r *http.Request) {
	t := tx.Tx{}
	if err := wire.DecodeRequest(r, &t); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if _, err := p.a.n.ReceiveTransaction(r.Context(), t); err != nil {
		respondError(w, r, txErrorStatus(err), err)
		return
	}

	wire.Respond(w, r, http.StatusCreated, &wire.Message{Message: "transaction added"})
}

func (p *p2pApi) broadcastBlock(w http.ResponseWriter, r *http.Request) {
	msg := wire.BlockMessage{}
	if err := wire.DecodeRequest(r, &msg); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	outcome, err := p.a.n.ReceiveBlock(r.Context(), msg.Block)

	switch outcome {
	case node.BlockAppended:
		wire.Respond(w, r, http.StatusCreated, &wire.Message{Message: "block added"})
	case node.BlockStale:
		wire.Respond(w, r, http.StatusConflict, &wire.Message{Message: "local chain is longer"})
	case node.BlockAhead:
		wire.Respond(w, r, http.StatusAccepted, &wire.Message{Message: "local chain is behind, resolving"})
	default:
		status := http.StatusInternalServerError
		if ledger.IsIntegrityViolation(err) || ledger.IsValidationRejected(err) {
			status = http.StatusBadRequest
		}
		respondError(w, r, status, err)
	}
}

func (p *p2pApi) chain(w http.ResponseWriter, r *http.Request) {
	wire.Respond(w, r, http.StatusOK, wire.NewChain(p.a.n.Chain()))
}

func txErrorStatus(err error) int {
	if ledger.IsValidationRejected(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}

	wire.Respond(w, r, status, &wire.Message{Message: msg})
}
