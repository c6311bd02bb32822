package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rentfold/rentfold/internal/auth"
)

// emailFromRequest returns the authenticated user's email, if the auth
// middleware set one.
func emailFromRequest(r *http.Request) string {
	return auth.EmailFromContext(r.Context())
}

// handleAuthLogin starts the magic link flow for an email address.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		apiError(w, "valid email is required", http.StatusBadRequest)
		return
	}

	token, err := s.tokens.Create(email)
	if err != nil {
		apiError(w, fmt.Sprintf("creating token: %v", err), http.StatusInternalServerError)
		return
	}

	if _, err := s.mailer.SendMagicLink(email, token); err != nil {
		apiError(w, fmt.Sprintf("sending magic link: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"message": "magic link sent"}, http.StatusOK)
}

// handleAuthVerify exchanges a magic link token for an access token.
func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		apiError(w, "token is required", http.StatusBadRequest)
		return
	}

	email, err := s.tokens.Validate(token)
	if err != nil {
		apiError(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	access, err := s.issuer.Issue(email)
	if err != nil {
		apiError(w, fmt.Sprintf("issuing token: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"token": access, "email": email}, http.StatusOK)
}
