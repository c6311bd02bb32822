package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rentfold/rentfold/internal/visit"
)

// visitError maps visit domain errors to HTTP status codes.
func visitError(w http.ResponseWriter, err error) {
	switch {
	case visit.IsValidationError(err):
		apiError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, visit.ErrInvalidVisit), errors.Is(err, visit.ErrIllegalTransition):
		apiError(w, err.Error(), http.StatusConflict)
	case strings.Contains(err.Error(), "not found"):
		apiError(w, err.Error(), http.StatusNotFound)
	default:
		apiError(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleVisits routes /api/visits requests.
func (s *Server) handleVisits(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/visits")
	path = strings.TrimPrefix(path, "/")

	// /api/visits - list or schedule
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListVisits(w, r)
		case http.MethodPost:
			s.apiScheduleVisit(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/visits/reschedule - bulk move
	if path == "reschedule" {
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiRescheduleVisits(w, r)
		return
	}

	// /api/visits/{id}/{verb}
	for _, verb := range []string{"accept", "reject", "cancel"} {
		if !strings.HasSuffix(path, "/"+verb) {
			continue
		}
		idStr := strings.TrimSuffix(path, "/"+verb)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid visit ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiVisitAction(w, id, visit.Action(verb))
		return
	}

	// /api/visits/{id}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid visit ID", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.apiGetVisit(w, id)
}

// apiListVisits returns visit views. ?grouped=true returns the
// address/status sectioned form instead.
func (s *Server) apiListVisits(w http.ResponseWriter, r *http.Request) {
	opts := visit.ListOptions{
		Status: visit.Status(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("asset_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			apiError(w, "invalid asset_id", http.StatusBadRequest)
			return
		}
		opts.AssetID = id
	}

	if r.URL.Query().Get("grouped") == "true" {
		groups, err := s.visits.Grouped(opts)
		if err != nil {
			visitError(w, err)
			return
		}
		if groups == nil {
			groups = make([]visit.GroupView, 0)
		}
		apiJSON(w, groups, http.StatusOK)
		return
	}

	bucket := visit.Bucket(r.URL.Query().Get("bucket"))
	views, err := s.visits.List(opts, bucket)
	if err != nil {
		visitError(w, err)
		return
	}
	if views == nil {
		views = make([]*visit.View, 0)
	}
	apiJSON(w, views, http.StatusOK)
}

// apiScheduleVisit books a new visit from a slot selection.
func (s *Server) apiScheduleVisit(w http.ResponseWriter, r *http.Request) {
	var req visit.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	view, err := s.visits.Schedule(req)
	if err != nil {
		visitError(w, err)
		return
	}
	apiJSON(w, view, http.StatusCreated)
}

// apiGetVisit returns a single visit with its bucket.
func (s *Server) apiGetVisit(w http.ResponseWriter, id int64) {
	view, err := s.visits.Get(id)
	if err != nil {
		visitError(w, err)
		return
	}
	apiJSON(w, view, http.StatusOK)
}

// apiVisitAction applies accept/reject/cancel to a visit.
func (s *Server) apiVisitAction(w http.ResponseWriter, id int64, action visit.Action) {
	view, err := s.visits.Act(id, action, uuid.NewString())
	if err != nil {
		visitError(w, err)
		return
	}
	apiJSON(w, view, http.StatusOK)
}

// apiRescheduleVisits moves a batch of visits to a new window.
func (s *Server) apiRescheduleVisits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs     []int64 `json:"ids"`
		Date    string  `json:"date"`
		SlotID  int     `json:"slot_id"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	payload, err := s.visits.Reschedule(req.IDs, req.Date, req.SlotID, req.Comment)
	if err != nil {
		visitError(w, err)
		return
	}
	apiJSON(w, payload, http.StatusOK)
}

// handleSlots returns the bookable slot catalog.
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.visits.Scheduler().Slots(), http.StatusOK)
}
