package visit

import (
	"fmt"
	"time"
)

// Selection tracks how a visit window is being picked. Manually choosing a
// date plus slot and reusing an existing upcoming visit's window are
// mutually exclusive modes: choosing one clears the other.
type Selection struct {
	sched *Scheduler

	date   string
	slotID int
	reuse  *Visit
}

// NewSelection starts an empty window selection.
func (s *Scheduler) NewSelection() *Selection {
	return &Selection{sched: s}
}

// PickSlot selects a date and a bookable slot, clearing any reused visit.
// Dates strictly in the past are rejected.
func (sel *Selection) PickSlot(date string, slotID int) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if isPastDate(day, sel.sched.clock.Now()) {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%s is in the past", date)}
	}

	slot := sel.sched.SlotByID(slotID)
	if slot == nil || slot.ID == AllSlotID {
		return &ValidationError{Field: "slot", Reason: fmt.Sprintf("slot %d is not bookable", slotID)}
	}

	sel.date = date
	sel.slotID = slotID
	sel.reuse = nil
	return nil
}

// Reuse selects an existing upcoming visit's window, clearing any manual
// date/slot choice.
func (sel *Selection) Reuse(v *Visit) error {
	bucket, err := sel.sched.Classify(v)
	if err != nil {
		return err
	}
	if bucket != BucketUpcoming {
		return &ValidationError{Field: "reuse", Reason: fmt.Sprintf("visit %d is %s, not upcoming", v.ID, bucket)}
	}

	sel.reuse = v
	sel.date = ""
	sel.slotID = AllSlotID
	return nil
}

// Confirmable reports whether the confirm action may be enabled: either the
// manual date and slot are both chosen, or an upcoming visit is reused.
func (sel *Selection) Confirmable() bool {
	if sel.reuse != nil {
		return true
	}
	return sel.date != "" && sel.slotID != AllSlotID
}

// Window resolves the selection into a concrete interval.
func (sel *Selection) Window() (start, end time.Time, err error) {
	if sel.reuse != nil {
		return sel.reuse.StartDate, sel.reuse.EndDate, nil
	}
	if !sel.Confirmable() {
		return time.Time{}, time.Time{}, &ValidationError{Field: "selection", Reason: "pick a date and slot, or reuse an upcoming visit"}
	}

	day, err := time.Parse("2006-01-02", sel.date)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	slot := sel.sched.SlotByID(sel.slotID)
	if slot == nil {
		return time.Time{}, time.Time{}, &ValidationError{Field: "slot", Reason: fmt.Sprintf("slot %d is not in the catalog", sel.slotID)}
	}

	start = time.Date(day.Year(), day.Month(), day.Day(), slot.FromHour, 0, 0, 0, time.UTC)
	end = time.Date(day.Year(), day.Month(), day.Day(), slot.ToHour, 0, 0, 0, time.UTC)
	return start, end, nil
}

// isPastDate compares calendar days only: today is not past.
func isPastDate(day, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}
