package offer

import (
	"errors"
	"reflect"
	"testing"
)

func pendingOffer() *Offer {
	return &Offer{
		ID:           1,
		LeaseListing: 42,
		Role:         RoleTenant,
		Status:       StatusPending,
		Price:        250000,
		ValidCount:   10,
		Actions:      []Action{ActionAccept, ActionReject},
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name       string
		validCount int
		expected   bool
	}{
		{"well within window", 10, false},
		{"last day", 0, false},
		{"just lapsed", -1, true},
		{"long lapsed", -30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := pendingOffer()
			o.ValidCount = tt.validCount
			if got := IsExpired(o); got != tt.expected {
				t.Errorf("IsExpired(count=%d) = %v, want %v", tt.validCount, got, tt.expected)
			}
		})
	}
}

func TestIsExpiringSoon(t *testing.T) {
	tests := []struct {
		name       string
		validCount int
		expected   bool
	}{
		{"expired is not expiring soon", -1, false},
		{"lower boundary", 0, true},
		{"inside window", 3, true},
		{"upper boundary", 6, true},
		{"just outside", 7, false},
		{"well outside", 14, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := pendingOffer()
			o.ValidCount = tt.validCount
			if got := IsExpiringSoon(o); got != tt.expected {
				t.Errorf("IsExpiringSoon(count=%d) = %v, want %v", tt.validCount, got, tt.expected)
			}
		})
	}
}

func TestLegalActions(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(o *Offer)
		expected []Action
	}{
		{
			"pending with declared actions",
			func(o *Offer) {},
			[]Action{ActionAccept, ActionReject},
		},
		{
			"expired pending exposes nothing",
			func(o *Offer) { o.ValidCount = -1 },
			[]Action{},
		},
		{
			"declared actions are filtered against the state machine",
			func(o *Offer) { o.Actions = []Action{ActionAccept, ActionReason, ActionCreateLease} },
			[]Action{ActionAccept},
		},
		{
			"counter capability appends the counter action",
			func(o *Offer) { o.CanCounter = true },
			[]Action{ActionAccept, ActionReject, ActionCounter},
		},
		{
			"declared counter is not duplicated by the capability",
			func(o *Offer) {
				o.Actions = []Action{ActionCounter}
				o.CanCounter = true
			},
			[]Action{ActionCounter},
		},
		{
			"accepted with lease capability",
			func(o *Offer) {
				o.Status = StatusAccepted
				o.CanCreateLease = true
			},
			[]Action{ActionCreateLease},
		},
		{
			"accepted without lease capability",
			func(o *Offer) { o.Status = StatusAccepted },
			[]Action{},
		},
		{
			"rejected shows the reason link",
			func(o *Offer) { o.Status = StatusRejected },
			[]Action{ActionReason},
		},
		{
			"cancelled shows the reason link",
			func(o *Offer) { o.Status = StatusCancelled },
			[]Action{ActionReason},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := pendingOffer()
			tt.mutate(o)

			actions, err := LegalActions(o)
			if err != nil {
				t.Fatalf("LegalActions: %v", err)
			}
			if !reflect.DeepEqual(actions, tt.expected) {
				t.Errorf("LegalActions = %v, want %v", actions, tt.expected)
			}
		})
	}
}

func TestLegalActionsRejectsMalformedOffer(t *testing.T) {
	o := pendingOffer()
	o.LeaseListing = 0 // no listing at all

	_, err := LegalActions(o)
	if !IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("terminal status suppresses expiry flags", func(t *testing.T) {
		o := pendingOffer()
		o.Status = StatusAccepted
		o.ValidCount = -3

		d, err := Evaluate(o)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if d.IsExpired || d.IsExpiringSoon {
			t.Errorf("terminal offer flagged expired=%v expiringSoon=%v", d.IsExpired, d.IsExpiringSoon)
		}
	})

	t.Run("pending offer carries expiry flags", func(t *testing.T) {
		o := pendingOffer()
		o.ValidCount = 4

		d, err := Evaluate(o)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if d.IsExpired {
			t.Error("offer with 4 days left reported expired")
		}
		if !d.IsExpiringSoon {
			t.Error("offer with 4 days left not reported expiring soon")
		}
	})

	t.Run("two actions render split", func(t *testing.T) {
		d, err := Evaluate(pendingOffer())
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if !d.SplitRow {
			t.Error("two actions should render as a split row")
		}
	})

	t.Run("single action renders full width", func(t *testing.T) {
		o := pendingOffer()
		o.Actions = []Action{ActionCancel}

		d, err := Evaluate(o)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if d.SplitRow {
			t.Error("single action should not render as a split row")
		}
	})

	t.Run("capability counter lands in secondary", func(t *testing.T) {
		o := pendingOffer()
		o.CanCounter = true

		d, err := Evaluate(o)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if !reflect.DeepEqual(d.Primary, []Action{ActionAccept, ActionReject}) {
			t.Errorf("primary = %v", d.Primary)
		}
		if !reflect.DeepEqual(d.Secondary, []Action{ActionCounter}) {
			t.Errorf("secondary = %v", d.Secondary)
		}
	})

	t.Run("declared counter lands in primary", func(t *testing.T) {
		o := pendingOffer()
		o.Actions = []Action{ActionCounter}

		d, err := Evaluate(o)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if !reflect.DeepEqual(d.Primary, []Action{ActionCounter}) {
			t.Errorf("primary = %v", d.Primary)
		}
		if d.Secondary != nil {
			t.Errorf("secondary = %v, want none", d.Secondary)
		}
	})

	t.Run("history expansion follows the chain count", func(t *testing.T) {
		o := pendingOffer()
		if d, _ := Evaluate(o); d.CanExpandHistory {
			t.Error("offer without counters should not expand history")
		}
		o.CounterOffersCount = 2
		if d, _ := Evaluate(o); !d.CanExpandHistory {
			t.Error("offer with counters should expand history")
		}
	})
}

func TestGuardAction(t *testing.T) {
	t.Run("legal action passes", func(t *testing.T) {
		if err := GuardAction(pendingOffer(), ActionAccept); err != nil {
			t.Errorf("GuardAction: %v", err)
		}
	})

	t.Run("expired offer refuses every mutation", func(t *testing.T) {
		o := pendingOffer()
		o.ValidCount = -1

		err := GuardAction(o, ActionAccept)
		if !errors.Is(err, ErrExpired) {
			t.Errorf("expected ErrExpired, got %v", err)
		}
	})

	t.Run("illegal action is a validation error", func(t *testing.T) {
		o := pendingOffer()
		o.Status = StatusRejected

		err := GuardAction(o, ActionAccept)
		if !IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("undeclared action is a validation error", func(t *testing.T) {
		o := pendingOffer()
		o.Actions = []Action{ActionAccept}

		err := GuardAction(o, ActionReject)
		if !IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestHistoryToggle(t *testing.T) {
	t.Run("fires only on collapsed to expanded", func(t *testing.T) {
		o := pendingOffer()
		o.CounterOffersCount = 1

		var toggle HistoryToggle
		if !toggle.Toggle(o) {
			t.Error("first toggle should expand and fire")
		}
		if toggle.Toggle(o) {
			t.Error("collapsing should not fire")
		}
		if !toggle.Toggle(o) {
			t.Error("re-expanding should fire again")
		}
	})

	t.Run("no chain means no expansion", func(t *testing.T) {
		var toggle HistoryToggle
		if toggle.Toggle(pendingOffer()) {
			t.Error("offer without counters should not expand")
		}
		if toggle.Expanded() {
			t.Error("toggle state should be unchanged")
		}
	})

	t.Run("nil offer is inert", func(t *testing.T) {
		var toggle HistoryToggle
		if toggle.Toggle(nil) {
			t.Error("nil offer should not expand")
		}
	})
}
