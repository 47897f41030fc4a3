package api

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/tcfw/ledgerd/internal/wire"
	"github.com/tcfw/ledgerd/pkg/peers"
)

func init() {
	reg = append(reg, &peersApi{})
}

type peersApi struct {
	BaseHandler
}

func (p *peersApi) Setup(a *Api, r *mux.Router) error {
	p.a = a

	r.HandleFunc("/peers", p.list).Methods("GET")
	r.HandleFunc("/peers", p.add).Methods("POST")
	r.HandleFunc("/peers/{address}", p.remove).Methods("DELETE")

	return nil
}

func (p *peersApi) list(w http.ResponseWriter, r *http.Request) {
	wire.Respond(w, r, http.StatusOK, &PeersResponse{Peers: p.a.n.Peers()})
}

func (p *peersApi) add(w http.ResponseWriter, r *http.Request) {
	req := PeerRequest{}
	if err := wire.DecodeRequest(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if peers.Normalize(req.Address) == "" {
		wire.Respond(w, r, http.StatusBadRequest, &wire.Message{Message: "no peer address"})
		return
	}

	if !p.a.n.AddPeer(r.Context(), req.Address) {
		wire.Respond(w, r, http.StatusConflict, &wire.Message{Message: "peer already known"})
		return
	}

	wire.Respond(w, r, http.StatusCreated, &PeersResponse{Peers: p.a.n.Peers()})
}

func (p *peersApi) remove(w http.ResponseWriter, r *http.Request) {
	addr, err := url.PathUnescape(mux.Vars(r)["address"])
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if !p.a.n.RemovePeer(r.Context(), addr) {
		wire.Respond(w, r, http.StatusNotFound, &wire.Message{Message: "unknown peer"})
		return
	}

	wire.Respond(w, r, http.StatusOK, &PeersResponse{Peers: p.a.n.Peers()})
}
