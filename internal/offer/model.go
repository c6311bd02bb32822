// Package offer provides the offer negotiation domain model, decision engine,
// and data access.
package offer

import (
	"fmt"
	"time"
)

// Status is the persisted lifecycle state of an offer. Expiry is never
// persisted; it is derived from the validity window at read time.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ValidStatuses is the set of allowed persisted statuses.
var ValidStatuses = []Status{StatusPending, StatusAccepted, StatusRejected, StatusCancelled}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the negotiation. Terminal
// offers never show time-based UI, whatever their validity count says.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// Role is the acting counterparty relative to the listing.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

// IsValid checks if a role is recognized.
func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleTenant
}

// Opposite returns the other side of the negotiation.
func (r Role) Opposite() Role {
	if r == RoleOwner {
		return RoleTenant
	}
	return RoleOwner
}

// Action is something a party can do (or view) on an offer.
type Action string

const (
	ActionAccept      Action = "accept"
	ActionReject      Action = "reject"
	ActionCancel      Action = "cancel"
	ActionCounter     Action = "counter"
	ActionReason      Action = "reason"
	ActionCreateLease Action = "create_lease"
)

// MutatingActions are the actions that change persisted status.
var MutatingActions = []Action{ActionAccept, ActionReject, ActionCancel, ActionCounter}

// IsMutating reports whether the action changes persisted state.
func (a Action) IsMutating() bool {
	for _, m := range MutatingActions {
		if a == m {
			return true
		}
	}
	return false
}

// Preference is an informational tenant preference. It has no effect on the
// negotiation state machine.
type Preference struct {
	Name       string `json:"name"`
	IsSelected bool   `json:"is_selected"`
}

// Offer is a priced/terms proposal on a lease or sale listing. Exactly one
// of LeaseListing/SaleListing is non-zero.
type Offer struct {
	ID                 int64        `json:"id"`
	ParentID           int64        `json:"parent_id,omitempty"`
	LeaseListing       int64        `json:"lease_listing"`
	SaleListing        int64        `json:"sale_listing"`
	Role               Role         `json:"role"`
	Status             Status       `json:"status"`
	Price              int64        `json:"price"`
	MinLockInPeriod    int          `json:"min_lock_in_period"` // months
	LeasePeriod        int          `json:"lease_period"`       // months
	MoveInDate         string       `json:"move_in_date,omitempty"` // YYYY-MM-DD
	CreatedAt          time.Time    `json:"created_at"`
	ValidDays          string       `json:"valid_days"`
	ValidCount         int          `json:"valid_count"` // negative means expired
	CounterOffersCount int          `json:"counter_offers_count"`
	CanCounter         bool         `json:"can_counter"`
	CanCreateLease     bool         `json:"can_create_lease"`
	Actions            []Action     `json:"actions"`
	Preferences        []Preference `json:"tenant_preferences,omitempty"`
	Reason             string       `json:"reason,omitempty"`
}

// Validate checks the offer's preconditions. Malformed offers are reported,
// never silently coerced.
func Validate(o *Offer) error {
	if o == nil {
		return &ValidationError{Field: "offer", Reason: "missing"}
	}
	if !o.Role.IsValid() {
		return &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", o.Role)}
	}
	if !o.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", o.Status)}
	}
	if o.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if (o.LeaseListing == 0) == (o.SaleListing == 0) {
		return &ValidationError{Field: "listing", Reason: "exactly one of lease_listing/sale_listing must be set"}
	}
	return nil
}
