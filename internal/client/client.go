// Package client provides an HTTP client for the rentfold REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rentfold/rentfold/internal/auth"
	"github.com/rentfold/rentfold/internal/offer"
	"github.com/rentfold/rentfold/internal/visit"
)

// Client is an HTTP client for the rentfold API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. The token may be an API key or an
// access token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OfferListOptions controls filtering for ListOffers.
type OfferListOptions struct {
	Status       string
	Role         string
	LeaseListing int64
	SaleListing  int64
}

// ListOffers returns offer views, optionally filtered.
func (c *Client) ListOffers(opts OfferListOptions) ([]*offer.View, error) {
	path := "/api/offers"
	var params []string
	if opts.Status != "" {
		params = append(params, "status="+opts.Status)
	}
	if opts.Role != "" {
		params = append(params, "role="+opts.Role)
	}
	if opts.LeaseListing != 0 {
		params = append(params, fmt.Sprintf("lease_listing=%d", opts.LeaseListing))
	}
	if opts.SaleListing != 0 {
		params = append(params, fmt.Sprintf("sale_listing=%d", opts.SaleListing))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var views []*offer.View
	if err := c.get(path, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetOffer returns an offer with its decision.
func (c *Client) GetOffer(id int64) (*offer.View, error) {
	var view offer.View
	if err := c.get(fmt.Sprintf("/api/offers/%d", id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CreateOffer stores a fresh offer.
func (c *Client) CreateOffer(o *offer.Offer) (*offer.View, error) {
	var view offer.View
	if err := c.post("/api/offers", o, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ActOnOffer applies accept, reject, or cancel to an offer.
func (c *Client) ActOnOffer(id int64, action offer.Action, reason string) (*offer.View, error) {
	body := map[string]string{"reason": reason}
	var view offer.View
	if err := c.post(fmt.Sprintf("/api/offers/%d/%s", id, action), body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CounterOffer chains a counter-offer onto an existing pending offer.
func (c *Client) CounterOffer(id int64, terms offer.Terms, prefs []offer.Preference) (*offer.View, error) {
	body := map[string]interface{}{
		"price":              terms.Price,
		"lease_period":       terms.LeasePeriod,
		"min_lock_in_period": terms.MinLockInPeriod,
		"move_in_date":       terms.MoveInDate,
		"tenant_preferences": prefs,
	}
	var view offer.View
	if err := c.post(fmt.Sprintf("/api/offers/%d/counter", id), body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// OfferHistory returns the counter chain containing the offer, oldest first.
func (c *Client) OfferHistory(id int64) ([]*offer.View, error) {
	var views []*offer.View
	if err := c.get(fmt.Sprintf("/api/offers/%d/history", id), &views); err != nil {
		return nil, err
	}
	return views, nil
}

// CompareOffer returns comparison rows against the prior offer.
func (c *Client) CompareOffer(id int64, currency string) ([]offer.CompareRow, error) {
	path := fmt.Sprintf("/api/offers/%d/compare", id)
	if currency != "" {
		path += "?currency=" + currency
	}
	var rows []offer.CompareRow
	if err := c.get(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// VisitListOptions controls filtering for ListVisits.
type VisitListOptions struct {
	Status  string
	AssetID int64
	Bucket  string
}

// ListVisits returns visit views, optionally filtered.
func (c *Client) ListVisits(opts VisitListOptions) ([]*visit.View, error) {
	path := "/api/visits"
	var params []string
	if opts.Status != "" {
		params = append(params, "status="+opts.Status)
	}
	if opts.AssetID != 0 {
		params = append(params, fmt.Sprintf("asset_id=%d", opts.AssetID))
	}
	if opts.Bucket != "" {
		params = append(params, "bucket="+opts.Bucket)
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var views []*visit.View
	if err := c.get(path, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// GroupedVisits returns visits sectioned by address and status.
func (c *Client) GroupedVisits() ([]visit.GroupView, error) {
	var groups []visit.GroupView
	if err := c.get("/api/visits?grouped=true", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetVisit returns a visit with its bucket.
func (c *Client) GetVisit(id int64) (*visit.View, error) {
	var view visit.View
	if err := c.get(fmt.Sprintf("/api/visits/%d", id), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ScheduleVisit books a new visit.
func (c *Client) ScheduleVisit(req visit.ScheduleRequest) (*visit.View, error) {
	var view visit.View
	if err := c.post("/api/visits", req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ActOnVisit applies accept, reject, or cancel to a visit.
func (c *Client) ActOnVisit(id int64, action visit.Action) (*visit.View, error) {
	var view visit.View
	if err := c.post(fmt.Sprintf("/api/visits/%d/%s", id, action), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// RescheduleVisits moves a batch of visits to a new window.
func (c *Client) RescheduleVisits(ids []int64, date string, slotID int, comment string) (*visit.ReschedulePayload, error) {
	body := map[string]interface{}{
		"ids":     ids,
		"date":    date,
		"slot_id": slotID,
		"comment": comment,
	}
	var payload visit.ReschedulePayload
	if err := c.post("/api/visits/reschedule", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListSlots returns the bookable slot catalog.
func (c *Client) ListSlots() ([]visit.TimeSlot, error) {
	var slots []visit.TimeSlot
	if err := c.get("/api/slots", &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Login starts the magic link flow for an email address.
func (c *Client) Login(email string) error {
	body := map[string]string{"email": email}
	return c.post("/auth/login", body, nil)
}

// Verify exchanges a magic link token for an access token.
func (c *Client) Verify(token string) (accessToken, email string, err error) {
	var resp map[string]string
	if err := c.get("/auth/verify?token="+token, &resp); err != nil {
		return "", "", err
	}
	return resp["token"], resp["email"], nil
}

// CreateKey mints a named API key for the authenticated user.
func (c *Client) CreateKey(name string) (string, error) {
	body := map[string]string{"name": name}
	var resp struct {
		Key string `json:"key"`
	}
	if err := c.post("/api/keys", body, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}

// ListKeys returns the authenticated user's API keys.
func (c *Client) ListKeys() ([]auth.APIKey, error) {
	var keys []auth.APIKey
	if err := c.get("/api/keys", &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteKey removes one of the authenticated user's API keys.
func (c *Client) DeleteKey(id int64) error {
	return c.doDelete(fmt.Sprintf("/api/keys/%d", id))
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// doDelete performs a DELETE request.
func (c *Client) doDelete(path string) error {
	req, err := http.NewRequest("DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, nil)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
