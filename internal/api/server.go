// Package api serves a read-only JSON view of a ledger: pools, positions
// with their pending fees and rewards, tick arrays and increase quotes.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"liquidityEngine/internal/engine"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/metrics"
)

// Server answers inspection queries against a ledger store.
type Server struct {
	store  *ledger.Store
	clock  engine.Clock
	logger *zap.Logger
}

func NewServer(store *ledger.Store, clock engine.Clock, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = engine.SystemClock{}
	}
	return &Server{store: store, clock: clock, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/pools", s.ListPools)
	r.Get("/pools/{pool}", s.GetPool)
	r.Get("/pools/{pool}/tick-arrays/{start}", s.GetTickArray)
	r.Get("/positions/{position}", s.GetPosition)
	r.Get("/quote/increase", s.QuoteIncrease)
	return r
}

// errorBody is the JSON error response. Program failures carry their code.
type errorBody struct {
	Error   string `json:"error"`
	Program string `json:"program,omitempty"`
	Code    uint32 `json:"code,omitempty"`
	Hex     string `json:"hex,omitempty"`
	Name    string `json:"name,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}
	status := http.StatusBadRequest

	var bad *badRequest
	if code, ok := errcode.From(err); ok {
		body.Program = code.Program
		body.Code = code.Code
		body.Hex = code.Hex()
		body.Name = code.Name
		if errors.Is(err, errcode.AccountNotInitialized) {
			status = http.StatusNotFound
		}
	} else if !errors.As(err, &bad) {
		status = http.StatusInternalServerError
		s.logger.Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, body)
}

// badRequest marks malformed input.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func keyParam(r *http.Request, name string) (solana.PublicKey, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, &badRequest{msg: "invalid " + name + " address: " + raw}
	}
	return key, nil
}
