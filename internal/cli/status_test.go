package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusShowsServerAndToken(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("RF_TOKEN", "rf_testtoken1234567890")
	t.Setenv("RF_SERVER_URL", "http://localhost:9999")

	// runStatus prints to stdout - just verify it doesn't panic
	// The real test is that token[:8] doesn't panic with a valid token
	if err := runStatus(); err != nil {
		t.Fatalf("status: %v", err)
	}
}

func TestStatusShortToken(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("RF_TOKEN", "rf_ab")
	t.Setenv("RF_SERVER_URL", "http://localhost:9999")

	// Should not panic with a short token
	if err := runStatus(); err != nil {
		t.Fatalf("status with short token: %v", err)
	}
}

func TestStatusNoToken(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("RF_TOKEN", "")
	t.Setenv("RF_SERVER_URL", "http://localhost:9999")

	if err := runStatus(); err != nil {
		t.Fatalf("status with no token: %v", err)
	}
}

func TestStatusWithServer(t *testing.T) {
	// Set up a test server that returns 200 for valid bearer
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "Bearer rf_validtoken1234567890" {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode([]string{}); err != nil {
				http.Error(w, "encode error", http.StatusInternalServerError)
			}
		} else {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("RF_TOKEN", "rf_validtoken1234567890")
	t.Setenv("RF_SERVER_URL", srv.URL)

	if err := runStatus(); err != nil {
		t.Fatalf("status: %v", err)
	}
}

func TestStatusWithInvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("RF_TOKEN", "rf_badtoken1234567890abc")
	t.Setenv("RF_SERVER_URL", srv.URL)

	// Should not return error - just prints status
	if err := runStatus(); err != nil {
		t.Fatalf("status: %v", err)
	}
}
