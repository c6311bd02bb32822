// Package web provides the rentfold HTTP API server.
package web

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/rentfold/rentfold/internal/auth"
	"github.com/rentfold/rentfold/internal/clock"
	"github.com/rentfold/rentfold/internal/logging"
	"github.com/rentfold/rentfold/internal/offer"
	"github.com/rentfold/rentfold/internal/visit"
)

// Server is the API HTTP server.
type Server struct {
	offers  *offer.Service
	visits  *visit.Service
	tokens  *auth.TokenStore
	apiKeys *auth.APIKeyStore
	issuer  *auth.TokenIssuer
	mailer  *auth.Mailer
	mux     *http.ServeMux
}

// NewServer creates an API server. A nil slot catalog selects the
// built-in one.
func NewServer(database *sql.DB, cfg auth.Config, clk clock.Clock, slots []visit.TimeSlot) (*Server, error) {
	sched := visit.NewScheduler(clk)
	if slots != nil {
		var err error
		sched, err = visit.NewSchedulerWithSlots(clk, slots)
		if err != nil {
			return nil, fmt.Errorf("building scheduler: %w", err)
		}
	}

	s := &Server{
		offers:  offer.NewService(offer.NewRepository(database, clk)),
		visits:  visit.NewService(visit.NewRepository(database, clk), sched),
		tokens:  auth.NewTokenStore(database),
		apiKeys: auth.NewAPIKeyStore(database),
		issuer:  auth.NewTokenIssuer(cfg.JWTSigningKey),
		mailer:  auth.NewMailer(cfg),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/auth/login", s.handleAuthLogin)
	s.mux.HandleFunc("/auth/verify", s.handleAuthVerify)
	s.mux.HandleFunc("/api/offers", s.handleOffers)
	s.mux.HandleFunc("/api/offers/", s.handleOffers)
	s.mux.HandleFunc("/api/visits", s.handleVisits)
	s.mux.HandleFunc("/api/visits/", s.handleVisits)
	s.mux.HandleFunc("/api/slots", s.handleSlots)
	s.mux.HandleFunc("/api/keys", s.handleKeys)
	s.mux.HandleFunc("/api/keys/", s.handleKeys)

	return s, nil
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return logging.RequestLogger(auth.RequireBearer(s.apiKeys, s.issuer, s.mux))
}

// ServeHTTP implements http.Handler, bypassing middleware. Used by tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Starting rentfold API on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
