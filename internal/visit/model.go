// Package visit provides the property visit domain model, scheduling engine,
// and data access.
package visit

import (
	"fmt"
	"time"
)

// Status is the persisted lifecycle state of a visit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// ValidStatuses is the set of allowed persisted statuses.
var ValidStatuses = []Status{StatusPending, StatusAccepted, StatusCancelled, StatusRejected}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Bucket is the derived display classification of a visit. It is a pure
// function of status, start time, and the current time - never persisted.
type Bucket string

const (
	BucketUpcoming  Bucket = "upcoming"
	BucketMissed    Bucket = "missed"
	BucketCompleted Bucket = "completed"
	BucketCancelled Bucket = "cancelled"
	BucketDeclined  Bucket = "declined"
)

// ListingType distinguishes the listing a visit was booked against.
type ListingType string

const (
	ListingLease ListingType = "lease"
	ListingSale  ListingType = "sale"
)

// Action is a status mutation on a visit.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionCancel Action = "cancel"
)

// IsValid checks if an action is recognized.
func (a Action) IsValid() bool {
	return a == ActionAccept || a == ActionReject || a == ActionCancel
}

// Visit is a scheduled property viewing appointment.
type Visit struct {
	ID           int64     `json:"id"`
	AssetID      int64     `json:"asset_id"`
	Address      string    `json:"address"`
	LeaseListing int64     `json:"lease_listing"`
	SaleListing  int64     `json:"sale_listing"`
	Status       Status    `json:"status"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Role         string    `json:"role"`
	Visitor      string    `json:"visitor"`
	IsValidVisit bool      `json:"is_valid_visit"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListingRef returns the visit's listing reference. Exactly one of the two
// listing fields must be set; anything else is a contract violation.
func (v *Visit) ListingRef() (ListingType, int64, error) {
	switch {
	case v.LeaseListing != 0 && v.SaleListing == 0:
		return ListingLease, v.LeaseListing, nil
	case v.SaleListing != 0 && v.LeaseListing == 0:
		return ListingSale, v.SaleListing, nil
	}
	return "", 0, &ValidationError{
		Field:  "listing",
		Reason: fmt.Sprintf("visit %d must reference exactly one of lease_listing/sale_listing", v.ID),
	}
}

// IsActionable reports whether client-side mutations are permitted. Every
// mutating operation checks this before anything else.
func IsActionable(v *Visit) bool {
	return v != nil && v.IsValidVisit
}

// Validate checks the visit's preconditions.
func Validate(v *Visit) error {
	if v == nil {
		return &ValidationError{Field: "visit", Reason: "missing"}
	}
	if !v.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", v.Status)}
	}
	if _, _, err := v.ListingRef(); err != nil {
		return err
	}
	if v.StartDate.IsZero() || v.EndDate.IsZero() {
		return &ValidationError{Field: "interval", Reason: "start and end are required"}
	}
	if !v.EndDate.After(v.StartDate) {
		return &ValidationError{Field: "interval", Reason: "end must be after start"}
	}
	return nil
}
