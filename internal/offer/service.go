package offer

import (
	"fmt"
	"log/slog"
)

// View pairs an offer record with its render decision.
type View struct {
	Offer    *Offer    `json:"offer"`
	Decision *Decision `json:"decision"`
}

// Service provides offer negotiation business logic: every mutation passes
// the engine guard before it touches the store.
type Service struct {
	repo *Repository
}

// NewService creates an offer service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Get returns an offer with its decision.
func (s *Service) Get(id int64) (*View, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return buildView(o)
}

// List returns offer views newest first, optionally filtered.
func (s *Service) List(opts ListOptions) ([]*View, error) {
	offers, err := s.repo.List(opts)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(offers))
	for _, o := range offers {
		v, err := buildView(o)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Create validates and stores a fresh offer.
func (s *Service) Create(o *Offer) (*View, error) {
	saved, err := s.repo.Create(o)
	if err != nil {
		return nil, err
	}
	return buildView(saved)
}

// Act applies a status mutation (accept, reject, cancel) after the engine
// confirms it is legal. The request id is client-supplied for retry
// de-duplication and is logged, not stored.
func (s *Service) Act(id int64, action Action, reason, requestID string) (*View, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := GuardAction(o, action); err != nil {
		return nil, err
	}

	var status Status
	switch action {
	case ActionAccept:
		status = StatusAccepted
	case ActionReject:
		status = StatusRejected
	case ActionCancel:
		status = StatusCancelled
	default:
		return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("%s is not a status mutation", action)}
	}

	if err := s.repo.UpdateStatus(id, status, reason); err != nil {
		return nil, err
	}

	slog.Info("offer action applied",
		"offer_id", id,
		"action", action,
		"status", status,
		"request_id", requestID,
	)

	return s.Get(id)
}

// Counter chains a counter-offer onto an existing pending offer. The
// recipient of the counter gets the accept/reject action row; countering
// back stays open via the capability flag.
func (s *Service) Counter(parentID int64, terms Terms, prefs []Preference, requestID string) (*View, error) {
	parent, err := s.repo.GetByID(parentID)
	if err != nil {
		return nil, err
	}

	if err := GuardAction(parent, ActionCounter); err != nil {
		return nil, err
	}

	counter := &Offer{
		Role:            parent.Role.Opposite(),
		Price:           terms.Price,
		LeasePeriod:     terms.LeasePeriod,
		MinLockInPeriod: terms.MinLockInPeriod,
		MoveInDate:      terms.MoveInDate,
		Actions:         []Action{ActionAccept, ActionReject},
		CanCounter:      true,
		Preferences:     prefs,
	}

	saved, err := s.repo.CreateCounter(parentID, counter)
	if err != nil {
		return nil, err
	}

	slog.Info("counter offer created",
		"parent_id", parentID,
		"offer_id", saved.ID,
		"request_id", requestID,
	)

	return buildView(saved)
}

// History returns the full counter chain containing the offer, oldest first.
func (s *Service) History(id int64) ([]*View, error) {
	chain, err := s.repo.History(id)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(chain))
	for _, o := range chain {
		v, err := buildView(o)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Compare builds comparison rows for an offer against its prior offer in
// the chain.
func (s *Service) Compare(id int64, currency string) ([]CompareRow, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o.ParentID == 0 {
		return nil, &ValidationError{Field: "parent_id", Reason: "offer has no prior offer to compare against"}
	}

	parent, err := s.repo.GetByID(o.ParentID)
	if err != nil {
		return nil, err
	}

	return Compare(o, parent.Terms(), currency)
}

func buildView(o *Offer) (*View, error) {
	d, err := Evaluate(o)
	if err != nil {
		return nil, err
	}
	return &View{Offer: o, Decision: d}, nil
}
