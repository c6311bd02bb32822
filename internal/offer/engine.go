package offer

import "fmt"

// ExpiringSoonDays is the urgency boundary. An offer is "valid" only when
// strictly more than this many whole days remain; at the boundary or below
// it is flagged as expiring soon.
const ExpiringSoonDays = 6

// IsExpired reports whether the offer's validity window has lapsed.
// ValidCount is server-derived at read time; the engine does not recompute
// it from the clock, so view and store cannot drift apart.
func IsExpired(o *Offer) bool {
	return o.ValidCount < 0
}

// IsExpiringSoon reports whether the offer is inside the urgency window.
func IsExpiringSoon(o *Offer) bool {
	return o.ValidCount >= 0 && o.ValidCount <= ExpiringSoonDays
}

// pendingActions are the mutations the state machine permits while pending.
// Server-declared actions are intersected with this set, never trusted alone.
var pendingActions = []Action{ActionAccept, ActionReject, ActionCancel, ActionCounter}

// LegalActions computes the actions a party may take on the offer.
// An expired offer exposes nothing, not even the reason link.
func LegalActions(o *Offer) ([]Action, error) {
	if err := Validate(o); err != nil {
		return nil, err
	}

	if IsExpired(o) {
		return []Action{}, nil
	}

	switch o.Status {
	case StatusPending:
		actions := intersect(o.Actions, pendingActions)
		if o.CanCounter && !contains(actions, ActionCounter) {
			actions = append(actions, ActionCounter)
		}
		return actions, nil
	case StatusAccepted:
		if o.CanCreateLease {
			return []Action{ActionCreateLease}, nil
		}
		return []Action{}, nil
	case StatusRejected, StatusCancelled:
		return []Action{ActionReason}, nil
	}

	// Unreachable: Validate rejects unknown statuses.
	return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", o.Status)}
}

// Decision is the view-model the UI renders an offer card from.
type Decision struct {
	LegalActions []Action `json:"legal_actions"`
	// Primary holds the server-declared action row; Secondary holds the
	// counter affordance when it comes from the can_counter capability
	// rather than the action row.
	Primary   []Action `json:"primary"`
	Secondary []Action `json:"secondary,omitempty"`

	IsExpired      bool `json:"is_expired"`
	IsExpiringSoon bool `json:"is_expiring_soon"`

	// SplitRow is a pure list-length branch: a single action renders
	// full-width under a status placeholder, two or more render split.
	SplitRow         bool `json:"split_row"`
	CanExpandHistory bool `json:"can_expand_history"`
}

// Evaluate builds the render decision for an offer. Terminal statuses
// suppress time-based flags regardless of the validity count.
func Evaluate(o *Offer) (*Decision, error) {
	actions, err := LegalActions(o)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		LegalActions:     actions,
		SplitRow:         len(actions) >= 2,
		CanExpandHistory: o.CounterOffersCount > 0,
	}

	if !o.Status.IsTerminal() {
		d.IsExpired = IsExpired(o)
		d.IsExpiringSoon = IsExpiringSoon(o)
	}

	declared := make(map[Action]bool, len(o.Actions))
	for _, a := range o.Actions {
		declared[a] = true
	}
	for _, a := range actions {
		if a == ActionCounter && !declared[a] {
			d.Secondary = append(d.Secondary, a)
			continue
		}
		d.Primary = append(d.Primary, a)
	}

	return d, nil
}

// GuardAction is the defense-in-depth check run before any mutation is sent
// to the store, independent of server enforcement.
func GuardAction(o *Offer, action Action) error {
	if err := Validate(o); err != nil {
		return err
	}
	if IsExpired(o) {
		return fmt.Errorf("%s offer %d: %w", action, o.ID, ErrExpired)
	}

	legal, err := LegalActions(o)
	if err != nil {
		return err
	}
	if !contains(legal, action) {
		return &ValidationError{
			Field:  "action",
			Reason: fmt.Sprintf("%s is not legal on a %s offer", action, o.Status),
		}
	}
	return nil
}

// HistoryToggle gates the counter-offer history expansion. Expanding
// reports that comparison data should be fetched now; collapsing and
// re-rendering never do.
type HistoryToggle struct {
	expanded bool
}

// Expanded reports the current state.
func (t *HistoryToggle) Expanded() bool {
	return t.expanded
}

// Toggle flips the expansion state and returns true when the transition was
// collapsed-to-expanded on an offer that actually has a counter chain.
func (t *HistoryToggle) Toggle(o *Offer) bool {
	if o == nil || o.CounterOffersCount == 0 {
		return false
	}
	t.expanded = !t.expanded
	return t.expanded
}

func contains(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

func intersect(declared, allowed []Action) []Action {
	var out []Action
	for _, a := range declared {
		if contains(allowed, a) && !contains(out, a) {
			out = append(out, a)
		}
	}
	if out == nil {
		out = []Action{}
	}
	return out
}
