package visit

import (
	"fmt"
	"log/slog"
)

// View pairs a visit record with its derived bucket.
type View struct {
	Visit  *Visit `json:"visit"`
	Bucket Bucket `json:"bucket"`
}

// StatusGroupView is one status section with buckets attached.
type StatusGroupView struct {
	Status Status  `json:"status"`
	Visits []*View `json:"visits"`
}

// GroupView is one address section of the grouped visit listing.
type GroupView struct {
	Address string            `json:"address"`
	Groups  []StatusGroupView `json:"groups"`
}

// ScheduleRequest carries everything needed to book a visit.
type ScheduleRequest struct {
	AssetID      int64  `json:"asset_id"`
	Address      string `json:"address"`
	LeaseListing int64  `json:"lease_listing"`
	SaleListing  int64  `json:"sale_listing"`
	Date         string `json:"date"` // YYYY-MM-DD, manual mode
	SlotID       int    `json:"slot_id"`
	ReuseVisitID int64  `json:"reuse_visit_id,omitempty"`
	Role         string `json:"role"`
	Visitor      string `json:"visitor"`
	Comment      string `json:"comment,omitempty"`
}

// Service provides visit scheduling business logic: every mutation passes
// the scheduling engine before it touches the store.
type Service struct {
	repo  *Repository
	sched *Scheduler
}

// NewService creates a visit service.
func NewService(repo *Repository, sched *Scheduler) *Service {
	return &Service{repo: repo, sched: sched}
}

// Scheduler exposes the engine for read-only slot queries.
func (s *Service) Scheduler() *Scheduler {
	return s.sched
}

// Get returns a visit with its derived bucket.
func (s *Service) Get(id int64) (*View, error) {
	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.view(v)
}

// Schedule books a new pending visit from a slot selection.
func (s *Service) Schedule(req ScheduleRequest) (*View, error) {
	sel := s.sched.NewSelection()

	if req.ReuseVisitID != 0 {
		existing, err := s.repo.GetByID(req.ReuseVisitID)
		if err != nil {
			return nil, err
		}
		if err := sel.Reuse(existing); err != nil {
			return nil, err
		}
	} else if err := sel.PickSlot(req.Date, req.SlotID); err != nil {
		return nil, err
	}

	if !sel.Confirmable() {
		return nil, &ValidationError{Field: "selection", Reason: "pick a date and slot, or reuse an upcoming visit"}
	}

	start, end, err := sel.Window()
	if err != nil {
		return nil, err
	}

	v, err := s.repo.Create(&Visit{
		AssetID:      req.AssetID,
		Address:      req.Address,
		LeaseListing: req.LeaseListing,
		SaleListing:  req.SaleListing,
		Status:       StatusPending,
		StartDate:    start,
		EndDate:      end,
		Role:         req.Role,
		Visitor:      req.Visitor,
		IsValidVisit: true,
		Comment:      req.Comment,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("visit scheduled", "visit_id", v.ID, "asset_id", v.AssetID, "start", v.StartDate)
	return s.view(v)
}

// Act applies a status mutation after the engine confirms the transition is
// legal and the visit is still actionable.
func (s *Service) Act(id int64, action Action, requestID string) (*View, error) {
	v, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.sched.ValidateTransition(v, action); err != nil {
		return nil, err
	}

	target, err := TransitionTarget(action)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(id, target); err != nil {
		return nil, err
	}

	slog.Info("visit action applied",
		"visit_id", id,
		"action", action,
		"status", target,
		"request_id", requestID,
	)

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.view(updated)
}

// Reschedule moves every visit in the batch to a new date/slot window.
// The batch is engine-validated as a whole before the store is touched.
func (s *Service) Reschedule(ids []int64, date string, slotID int, comment string) (*ReschedulePayload, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "ids", Reason: "reschedule batch is empty"}
	}

	visits := make([]*Visit, 0, len(ids))
	for _, id := range ids {
		v, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}

	sel := s.sched.NewSelection()
	if err := sel.PickSlot(date, slotID); err != nil {
		return nil, err
	}
	start, end, err := sel.Window()
	if err != nil {
		return nil, err
	}

	payload, err := s.sched.BuildReschedulePayload(visits, start, end, comment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Reschedule(payload); err != nil {
		return nil, err
	}

	slog.Info("visits rescheduled",
		"ids", payload.IDs,
		"visit_type", payload.VisitType,
		"listing_id", payload.ListingID,
		"request_id", payload.RequestID,
	)
	return payload, nil
}

// List returns visit views, optionally filtered by status and bucket.
func (s *Service) List(opts ListOptions, bucket Bucket) ([]*View, error) {
	visits, err := s.repo.List(opts)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(visits))
	for _, v := range visits {
		view, err := s.view(v)
		if err != nil {
			return nil, err
		}
		if bucket != "" && view.Bucket != bucket {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// Grouped returns visits sectioned by address (first-seen order) and then
// by status (fixed precedence), with buckets attached.
func (s *Service) Grouped(opts ListOptions) ([]GroupView, error) {
	visits, err := s.repo.List(opts)
	if err != nil {
		return nil, err
	}

	var out []GroupView
	for _, ag := range s.sched.GroupByAddress(visits) {
		gv := GroupView{Address: ag.Address}
		for _, sg := range s.sched.GroupByStatus(ag.Visits) {
			sgv := StatusGroupView{Status: sg.Status}
			for _, v := range sg.Visits {
				view, err := s.view(v)
				if err != nil {
					return nil, err
				}
				sgv.Visits = append(sgv.Visits, view)
			}
			gv.Groups = append(gv.Groups, sgv)
		}
		out = append(out, gv)
	}
	return out, nil
}

func (s *Service) view(v *Visit) (*View, error) {
	bucket, err := s.sched.Classify(v)
	if err != nil {
		return nil, fmt.Errorf("classifying visit %d: %w", v.ID, err)
	}
	return &View{Visit: v, Bucket: bucket}, nil
}
