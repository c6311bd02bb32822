package visit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentfold/rentfold/internal/clock"
)

// Scheduler is the pure decision engine for visits: classification,
// grouping, slot bookkeeping, and reschedule batch construction. It never
// mutates its inputs and is safe to call concurrently.
type Scheduler struct {
	clock clock.Clock
	slots []TimeSlot
}

// NewScheduler creates a scheduler with the built-in slot catalog.
func NewScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{clock: clk, slots: DefaultSlots()}
}

// NewSchedulerWithSlots creates a scheduler with a custom slot catalog.
func NewSchedulerWithSlots(clk clock.Clock, slots []TimeSlot) (*Scheduler, error) {
	if err := validateSlots(slots); err != nil {
		return nil, err
	}
	return &Scheduler{clock: clk, slots: slots}, nil
}

// Slots returns the slot catalog, "All" slot first.
func (s *Scheduler) Slots() []TimeSlot {
	out := make([]TimeSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SlotByID returns the slot with the given id, or nil.
func (s *Scheduler) SlotByID(id int) *TimeSlot {
	for i := range s.slots {
		if s.slots[i].ID == id {
			slot := s.slots[i]
			return &slot
		}
	}
	return nil
}

// SlotForHour reverse-looks-up the bookable slot whose [from, to) window
// contains the timestamp's hour. Returns nil when the hour falls in a gap;
// it never fails.
func (s *Scheduler) SlotForHour(t time.Time) *TimeSlot {
	hour := t.Hour()
	for i := range s.slots {
		if s.slots[i].ID == AllSlotID {
			continue
		}
		if hour >= s.slots[i].FromHour && hour < s.slots[i].ToHour {
			slot := s.slots[i]
			return &slot
		}
	}
	return nil
}

// Classify derives the display bucket for a visit. The decision table is
// exact: any persisted status outside it is a contract violation.
func (s *Scheduler) Classify(v *Visit) (Bucket, error) {
	if v == nil {
		return "", &ValidationError{Field: "visit", Reason: "missing"}
	}

	now := s.clock.Now()
	switch v.Status {
	case StatusCancelled:
		return BucketCancelled, nil
	case StatusRejected:
		return BucketDeclined, nil
	case StatusAccepted:
		if v.StartDate.After(now) {
			return BucketUpcoming, nil
		}
		return BucketCompleted, nil
	case StatusPending:
		if v.StartDate.Before(now) {
			return BucketMissed, nil
		}
		return BucketUpcoming, nil
	}

	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", v.Status)}
}

// AddressGroup is one display section of visits sharing an address.
type AddressGroup struct {
	Address string   `json:"address"`
	Visits  []*Visit `json:"visits"`
}

// GroupByAddress groups visits by address, preserving first-seen address
// order. Display sectioning only - not conflict detection.
func (s *Scheduler) GroupByAddress(visits []*Visit) []AddressGroup {
	index := make(map[string]int)
	var groups []AddressGroup

	for _, v := range visits {
		i, ok := index[v.Address]
		if !ok {
			i = len(groups)
			index[v.Address] = i
			groups = append(groups, AddressGroup{Address: v.Address})
		}
		groups[i].Visits = append(groups[i].Visits, v)
	}

	return groups
}

// StatusGroup is one status section within an address group.
type StatusGroup struct {
	Status Status   `json:"status"`
	Visits []*Visit `json:"visits"`
}

// statusPrecedence is the fixed badge emphasis order for status sections.
var statusPrecedence = []Status{StatusAccepted, StatusPending, StatusCancelled, StatusRejected}

// GroupByStatus groups visits by status in the fixed precedence order,
// omitting empty groups, regardless of input order.
func (s *Scheduler) GroupByStatus(visits []*Visit) []StatusGroup {
	byStatus := make(map[Status][]*Visit)
	for _, v := range visits {
		byStatus[v.Status] = append(byStatus[v.Status], v)
	}

	var groups []StatusGroup
	for _, status := range statusPrecedence {
		if vs := byStatus[status]; len(vs) > 0 {
			groups = append(groups, StatusGroup{Status: status, Visits: vs})
		}
	}
	return groups
}

// ValidateTransition checks a requested status mutation against the visit
// state machine. Actionability is checked first, before anything else.
//
//	pending  -> accepted | rejected | cancelled
//	accepted -> cancelled
//
// Everything else is illegal, whatever the server would accept.
func (s *Scheduler) ValidateTransition(v *Visit, action Action) error {
	if err := Validate(v); err != nil {
		return err
	}
	if !IsActionable(v) {
		return fmt.Errorf("visit %d: %w", v.ID, ErrInvalidVisit)
	}
	if !action.IsValid() {
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", action)}
	}

	legal := false
	switch v.Status {
	case StatusPending:
		legal = true // accept, reject, and cancel are all open
	case StatusAccepted:
		legal = action == ActionCancel
	}

	if !legal {
		return fmt.Errorf("%s on %s visit %d: %w", action, v.Status, v.ID, ErrIllegalTransition)
	}
	return nil
}

// TransitionTarget maps an action to the resulting persisted status.
func TransitionTarget(action Action) (Status, error) {
	switch action {
	case ActionAccept:
		return StatusAccepted, nil
	case ActionReject:
		return StatusRejected, nil
	case ActionCancel:
		return StatusCancelled, nil
	}
	return "", &ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", action)}
}

// ReschedulePayload is the single bulk mutation in the system: one call
// moves every listed visit to the new window. All ids share one listing
// reference, taken from the first visit in the batch.
type ReschedulePayload struct {
	RequestID string      `json:"request_id"`
	IDs       []int64     `json:"ids"`
	VisitType ListingType `json:"visit_type"`
	ListingID int64       `json:"listing_id"`
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Comment   string      `json:"comment,omitempty"`
}

// BuildReschedulePayload constructs a bulk reschedule batch. Mixed-listing
// batches and non-actionable visits are precondition violations; nothing is
// sent anywhere until the whole batch validates.
func (s *Scheduler) BuildReschedulePayload(visits []*Visit, start, end time.Time, comment string) (*ReschedulePayload, error) {
	if len(visits) == 0 {
		return nil, &ValidationError{Field: "visits", Reason: "reschedule batch is empty"}
	}
	if !end.After(start) {
		return nil, &ValidationError{Field: "interval", Reason: "end must be after start"}
	}
	if start.Before(s.clock.Now()) {
		return nil, &ValidationError{Field: "start_date", Reason: "new window is in the past"}
	}

	refType, refID, err := visits[0].ListingRef()
	if err != nil {
		return nil, err
	}

	payload := &ReschedulePayload{
		RequestID: uuid.NewString(),
		VisitType: refType,
		ListingID: refID,
		StartDate: start,
		EndDate:   end,
		Comment:   comment,
	}

	for _, v := range visits {
		if !IsActionable(v) {
			return nil, fmt.Errorf("visit %d: %w", v.ID, ErrInvalidVisit)
		}
		t, id, err := v.ListingRef()
		if err != nil {
			return nil, err
		}
		if t != refType || id != refID {
			return nil, &ValidationError{
				Field:  "visits",
				Reason: fmt.Sprintf("visit %d references %s listing %d, batch is for %s listing %d", v.ID, t, id, refType, refID),
			}
		}
		payload.IDs = append(payload.IDs, v.ID)
	}

	return payload, nil
}
