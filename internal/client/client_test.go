package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rentfold/rentfold/internal/offer"
	"github.com/rentfold/rentfold/internal/visit"
)

func TestListOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/offers" {
			t.Errorf("path = %q, want /api/offers", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer testkey" {
			t.Error("expected Bearer testkey")
		}
		w.Header().Set("Content-Type", "application/json")
		views := []*offer.View{{
			Offer:    &offer.Offer{ID: 1, Status: offer.StatusPending, Price: 50000},
			Decision: &offer.Decision{LegalActions: []offer.Action{offer.ActionAccept}},
		}}
		if err := json.NewEncoder(w).Encode(views); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	views, err := c.ListOffers(OfferListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if views[0].Offer.Price != 50000 {
		t.Errorf("price = %d", views[0].Offer.Price)
	}
}

func TestListOffersWithFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "pending" {
			t.Errorf("status = %q, want pending", r.URL.Query().Get("status"))
		}
		if r.URL.Query().Get("lease_listing") != "42" {
			t.Errorf("lease_listing = %q, want 42", r.URL.Query().Get("lease_listing"))
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode([]*offer.View{}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	if _, err := c.ListOffers(OfferListOptions{Status: "pending", LeaseListing: 42}); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestActOnOffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/offers/7/reject" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("method = %s", r.Method)
		}
		var req struct{ Reason string }
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Reason != "too low" {
			t.Errorf("reason = %q", req.Reason)
		}
		w.Header().Set("Content-Type", "application/json")
		view := offer.View{
			Offer:    &offer.Offer{ID: 7, Status: offer.StatusRejected},
			Decision: &offer.Decision{LegalActions: []offer.Action{offer.ActionReason}},
		}
		if err := json.NewEncoder(w).Encode(view); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	view, err := c.ActOnOffer(7, offer.ActionReject, "too low")
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if view.Offer.Status != offer.StatusRejected {
		t.Errorf("status = %q", view.Offer.Status)
	}
}

func TestCounterOffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/offers/3/counter" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Price int64 `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Price != 55000 {
			t.Errorf("price = %d", req.Price)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		view := offer.View{
			Offer:    &offer.Offer{ID: 4, ParentID: 3, Price: 55000, Status: offer.StatusPending},
			Decision: &offer.Decision{},
		}
		if err := json.NewEncoder(w).Encode(view); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	view, err := c.CounterOffer(3, offer.Terms{Price: 55000}, nil)
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if view.Offer.ParentID != 3 {
		t.Errorf("parent_id = %d", view.Offer.ParentID)
	}
}

func TestCompareOffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/offers/4/compare" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("currency") != "EUR" {
			t.Errorf("currency = %q", r.URL.Query().Get("currency"))
		}
		w.Header().Set("Content-Type", "application/json")
		rows := []offer.CompareRow{{Label: "Price", Value: "EUR 55,000", Trend: offer.TrendUp}}
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	rows, err := c.CompareOffer(4, "EUR")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(rows) != 1 || rows[0].Trend != offer.TrendUp {
		t.Errorf("rows = %+v", rows)
	}
}

func TestScheduleVisit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/visits" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req visit.ScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Date != "2026-03-11" || req.SlotID != 1 {
			t.Errorf("selection = %q slot %d", req.Date, req.SlotID)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		view := visit.View{
			Visit:  &visit.Visit{ID: 1, Status: visit.StatusPending},
			Bucket: visit.BucketUpcoming,
		}
		if err := json.NewEncoder(w).Encode(view); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	view, err := c.ScheduleVisit(visit.ScheduleRequest{Date: "2026-03-11", SlotID: 1})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if view.Bucket != visit.BucketUpcoming {
		t.Errorf("bucket = %q", view.Bucket)
	}
}

func TestRescheduleVisits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/visits/reschedule" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			IDs    []int64 `json:"ids"`
			SlotID int     `json:"slot_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.IDs) != 2 || req.SlotID != 2 {
			t.Errorf("ids = %v slot = %d", req.IDs, req.SlotID)
		}
		w.Header().Set("Content-Type", "application/json")
		payload := visit.ReschedulePayload{RequestID: "abc", IDs: req.IDs}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	payload, err := c.RescheduleVisits([]int64{1, 2}, "2026-03-12", 2, "")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if payload.RequestID != "abc" {
		t.Errorf("request_id = %q", payload.RequestID)
	}
}

func TestLoginAndVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			var req struct{ Email string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if req.Email != "alice@example.com" {
				t.Errorf("email = %q", req.Email)
			}
			if err := json.NewEncoder(w).Encode(map[string]string{"message": "magic link sent"}); err != nil {
				t.Fatalf("encode: %v", err)
			}
		case "/auth/verify":
			if err := json.NewEncoder(w).Encode(map[string]string{"token": "jwt123", "email": "alice@example.com"}); err != nil {
				t.Fatalf("encode: %v", err)
			}
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if err := c.Login("alice@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}
	access, email, err := c.Verify("magictoken")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if access != "jwt123" || email != "alice@example.com" {
		t.Errorf("got %q %q", access, email)
	}
}

func TestDeleteKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "DELETE" {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/keys/5" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"removed": true}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	if err := c.DeleteKey(5); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "db exploded"}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "testkey")
	_, err := c.ListOffers(OfferListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "db exploded" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "badkey")
	_, err := c.ListOffers(OfferListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
}
