package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rentfold/rentfold/internal/offer"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// offerError maps offer domain errors to HTTP status codes.
func offerError(w http.ResponseWriter, err error) {
	switch {
	case offer.IsValidationError(err):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, offer.ErrExpired):
		apiError(w, err.Error(), http.StatusConflict)
	case strings.Contains(err.Error(), "not found"):
		apiError(w, err.Error(), http.StatusNotFound)
	default:
		apiError(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleOffers routes /api/offers requests.
func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/offers")
	path = strings.TrimPrefix(path, "/")

	// /api/offers - list or create
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListOffers(w, r)
		case http.MethodPost:
			s.apiCreateOffer(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/offers/{id}/{verb}
	for _, verb := range []string{"accept", "reject", "cancel", "counter", "history", "compare"} {
		if !strings.HasSuffix(path, "/"+verb) {
			continue
		}
		idStr := strings.TrimSuffix(path, "/"+verb)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid offer ID", http.StatusBadRequest)
			return
		}
		switch verb {
		case "history":
			if r.Method != http.MethodGet {
				apiError(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.apiOfferHistory(w, id)
		case "compare":
			if r.Method != http.MethodGet {
				apiError(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.apiCompareOffer(w, r, id)
		case "counter":
			if r.Method != http.MethodPost {
				apiError(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.apiCounterOffer(w, r, id)
		default:
			if r.Method != http.MethodPost {
				apiError(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.apiOfferAction(w, r, id, offer.Action(verb))
		}
		return
	}

	// /api/offers/{id}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid offer ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiGetOffer(w, id)
}

// apiListOffers returns offer views, optionally filtered.
func (s *Server) apiListOffers(w http.ResponseWriter, r *http.Request) {
	opts := offer.ListOptions{
		Status: offer.Status(r.URL.Query().Get("status")),
		Role:   offer.Role(r.URL.Query().Get("role")),
	}
	if v := r.URL.Query().Get("lease_listing"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "invalid lease_listing", http.StatusBadRequest)
			return
		}
		opts.LeaseListing = id
	}
	if v := r.URL.Query().Get("sale_listing"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "invalid sale_listing", http.StatusBadRequest)
			return
		}
		opts.SaleListing = id
	}

	views, err := s.offers.List(opts)
	if err != nil {
		offerError(w, err)
		return
	}
	if views == nil {
		views = make([]*offer.View, 0)
	}
	apiJSON(w, views, http.StatusOK)
}

// apiCreateOffer stores a fresh offer.
func (s *Server) apiCreateOffer(w http.ResponseWriter, r *http.Request) {
	var o offer.Offer
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	view, err := s.offers.Create(&o)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, view, http.StatusCreated)
}

// apiGetOffer returns a single offer with its decision.
func (s *Server) apiGetOffer(w http.ResponseWriter, id int64) {
	view, err := s.offers.Get(id)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, view, http.StatusOK)
}

// apiOfferAction applies accept/reject/cancel to an offer.
func (s *Server) apiOfferAction(w http.ResponseWriter, r *http.Request, id int64, action offer.Action) {
	var req struct {
		Reason    string `json:"reason"`
		RequestID string `json:"request_id"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	view, err := s.offers.Act(id, action, req.Reason, req.RequestID)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, view, http.StatusOK)
}

// apiCounterOffer chains a counter-offer onto a pending offer.
func (s *Server) apiCounterOffer(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Price           int64              `json:"price"`
		LeasePeriod     int                `json:"lease_period"`
		MinLockInPeriod int                `json:"min_lock_in_period"`
		MoveInDate      string             `json:"move_in_date"`
		Preferences     []offer.Preference `json:"tenant_preferences"`
		RequestID       string             `json:"request_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	terms := offer.Terms{
		Price:           req.Price,
		LeasePeriod:     req.LeasePeriod,
		MinLockInPeriod: req.MinLockInPeriod,
		MoveInDate:      req.MoveInDate,
	}

	view, err := s.offers.Counter(id, terms, req.Preferences, req.RequestID)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, view, http.StatusCreated)
}

// apiOfferHistory returns the counter chain containing the offer.
func (s *Server) apiOfferHistory(w http.ResponseWriter, id int64) {
	views, err := s.offers.History(id)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, views, http.StatusOK)
}

// apiCompareOffer returns comparison rows against the prior offer.
func (s *Server) apiCompareOffer(w http.ResponseWriter, r *http.Request, id int64) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "$"
	}

	rows, err := s.offers.Compare(id, currency)
	if err != nil {
		offerError(w, err)
		return
	}
	apiJSON(w, rows, http.StatusOK)
}

// handleKeys routes /api/keys requests. The authenticated user manages
// only their own keys.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	email := emailFromRequest(r)
	if email == "" {
		apiError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/keys")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListKeys(w, email)
		case http.MethodPost:
			s.apiCreateKey(w, r, email)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid key ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.apiKeys.Delete(id, email); err != nil {
		apiError(w, fmt.Sprintf("deleting key: %v", err), http.StatusNotFound)
		return
	}
	apiJSON(w, map[string]interface{}{"id": id, "removed": true}, http.StatusOK)
}

func (s *Server) apiListKeys(w http.ResponseWriter, email string) {
	keys, err := s.apiKeys.List(email)
	if err != nil {
		apiError(w, fmt.Sprintf("listing keys: %v", err), http.StatusInternalServerError)
		return
	}
	apiJSON(w, keys, http.StatusOK)
}

func (s *Server) apiCreateKey(w http.ResponseWriter, r *http.Request, email string) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		apiError(w, "name is required", http.StatusBadRequest)
		return
	}

	raw, key, err := s.apiKeys.Create(strings.TrimSpace(req.Name), email)
	if err != nil {
		apiError(w, fmt.Sprintf("creating key: %v", err), http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{"key": raw, "id": key.ID, "name": key.Name}, http.StatusCreated)
}
