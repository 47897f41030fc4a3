package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ledgerd/internal/node"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

type APIHandler interface {
	Setup(*Api, *mux.Router) error
}

var (
	reg = []APIHandler{}
)

type BaseHandler struct {
	a *Api
}

func (b *BaseHandler) Setup(a *Api, _ *mux.Router) error {
	b.a = a
	return nil
}

type Api struct {
	n      *node.Node
	r      *mux.Router
	s      *http.Server
	logger *logrus.Entry
}

func NewAPI(n *node.Node) (*Api, error) {
	a := &Api{
		n:      n,
		r:      mux.NewRouter().UseEncodedPath(),
		logger: logging.Component("api"),
	}

	a.r.Use(a.logRequests)

	for _, s := range reg {
		if err := s.Setup(a, a.r); err != nil {
			return nil, errors.Wrap(err, "registering handler")
		}
	}

	return a, nil
}

func (a *Api) Handler() http.Handler {
	return a.r
}

func (a *Api) ListenAndServe(addr string) error {
	a.s = &http.Server{
		Addr:              addr,
		Handler:           a.r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.WithField("addr", addr).Info("Starting listening")

	if err := a.s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (a *Api) Shutdown(ctx context.Context) error {
	if a.s == nil {
		return nil
	}

	return a.s.Shutdown(ctx)
}

func (a *Api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.logger.WithField("method", r.Method).WithField("path", r.URL.Path).Debug("request")
		next.ServeHTTP(w, r)
	})
}
