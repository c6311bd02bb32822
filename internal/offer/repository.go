package offer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rentfold/rentfold/internal/clock"
)

// DefaultValidityDays is the validity window applied to every offer. It is
// configuration, not a per-offer value; the remaining count is derived from
// created_at at scan time so the engine and the store cannot disagree.
const DefaultValidityDays = 14

// Repository provides CRUD operations for offers.
type Repository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewRepository creates an offer repository.
func NewRepository(db *sql.DB, clk clock.Clock) *Repository {
	return &Repository{db: db, clock: clk}
}

const offerColumns = `id, parent_id, lease_listing, sale_listing, role, status,
	price, min_lock_in, lease_period, move_in_date, can_counter,
	can_create_lease, actions, preferences, reason, created_at`

// Create validates and stores a new offer.
func (r *Repository) Create(o *Offer) (*Offer, error) {
	if o != nil && o.Status == "" {
		o.Status = StatusPending
	}
	if err := Validate(o); err != nil {
		return nil, err
	}

	actions, err := json.Marshal(o.Actions)
	if err != nil {
		return nil, fmt.Errorf("marshaling actions: %w", err)
	}
	prefs, err := json.Marshal(o.Preferences)
	if err != nil {
		return nil, fmt.Errorf("marshaling preferences: %w", err)
	}

	// Root offers store NULL, not 0: parent_id carries a foreign key.
	var parentID sql.NullInt64
	if o.ParentID != 0 {
		parentID = sql.NullInt64{Int64: o.ParentID, Valid: true}
	}

	result, err := r.db.Exec(
		`INSERT INTO offers (parent_id, lease_listing, sale_listing, role, status,
			price, min_lock_in, lease_period, move_in_date, can_counter,
			can_create_lease, actions, preferences, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		parentID, o.LeaseListing, o.SaleListing, o.Role, o.Status,
		o.Price, o.MinLockInPeriod, o.LeasePeriod, o.MoveInDate, o.CanCounter,
		o.CanCreateLease, string(actions), string(prefs), r.clock.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting offer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a single offer with derived validity fields.
func (r *Repository) GetByID(id int64) (*Offer, error) {
	row := r.db.QueryRow("SELECT "+offerColumns+" FROM offers WHERE id = ?", id)
	o, err := r.scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("offer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading offer %d: %w", id, err)
	}

	if err := r.attachChainCount(o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	Status       Status
	Role         Role
	LeaseListing int64
	SaleListing  int64
}

// List returns offers newest first, optionally filtered.
func (r *Repository) List(opts ListOptions) ([]*Offer, error) {
	query := "SELECT " + offerColumns + " FROM offers WHERE 1=1"
	var args []interface{}
	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.Role != "" {
		query += " AND role = ?"
		args = append(args, opts.Role)
	}
	if opts.LeaseListing != 0 {
		query += " AND lease_listing = ?"
		args = append(args, opts.LeaseListing)
	}
	if opts.SaleListing != 0 {
		query += " AND sale_listing = ?"
		args = append(args, opts.SaleListing)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var offers []*Offer
	for rows.Next() {
		o, err := r.scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}

	for _, o := range offers {
		if err := r.attachChainCount(o); err != nil {
			return nil, err
		}
	}

	return offers, nil
}

// UpdateStatus transitions an offer to a new persisted status. Legality is
// the service's concern; the repository only refuses unknown statuses.
func (r *Repository) UpdateStatus(id int64, status Status, reason string) error {
	if !status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	result, err := r.db.Exec(
		"UPDATE offers SET status = ?, reason = ?, updated_at = ? WHERE id = ?",
		status, reason, r.clock.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating offer %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("offer %d not found", id)
	}
	return nil
}

// CreateCounter stores a counter-offer chained to parent. The child starts
// its own validity window; the parent keeps its status (a countered offer is
// a pending offer with a non-empty chain).
func (r *Repository) CreateCounter(parentID int64, counter *Offer) (*Offer, error) {
	parent, err := r.GetByID(parentID)
	if err != nil {
		return nil, err
	}

	counter.ParentID = parent.ID
	counter.LeaseListing = parent.LeaseListing
	counter.SaleListing = parent.SaleListing
	counter.Status = StatusPending
	if counter.Role == "" {
		counter.Role = parent.Role.Opposite()
	}

	return r.Create(counter)
}

// History returns the full counter chain containing the offer, oldest first.
func (r *Repository) History(id int64) ([]*Offer, error) {
	o, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Walk up to the root of the chain.
	root := o
	for root.ParentID != 0 {
		parent, err := r.GetByID(root.ParentID)
		if err != nil {
			return nil, fmt.Errorf("walking chain of offer %d: %w", id, err)
		}
		root = parent
	}

	// Walk back down. Each offer has at most one counter: a new counter
	// replaces the terms of the prior one.
	chain := []*Offer{root}
	current := root
	for {
		child, err := r.childOf(current.ID)
		if err != nil {
			return nil, err
		}
		if child == nil {
			break
		}
		chain = append(chain, child)
		current = child
	}

	return chain, nil
}

func (r *Repository) childOf(id int64) (*Offer, error) {
	row := r.db.QueryRow("SELECT "+offerColumns+" FROM offers WHERE parent_id = ? ORDER BY id LIMIT 1", id)
	o, err := r.scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading counter of offer %d: %w", id, err)
	}
	if err := r.attachChainCount(o); err != nil {
		return nil, err
	}
	return o, nil
}

// attachChainCount sets CounterOffersCount to the number of counters chained
// below the offer.
func (r *Repository) attachChainCount(o *Offer) error {
	count := 0
	id := o.ID
	for {
		var childID int64
		err := r.db.QueryRow("SELECT id FROM offers WHERE parent_id = ? ORDER BY id LIMIT 1", id).Scan(&childID)
		if err == sql.ErrNoRows {
			break
		}
		if err != nil {
			return fmt.Errorf("counting chain of offer %d: %w", o.ID, err)
		}
		count++
		id = childID
	}
	o.CounterOffersCount = count
	return nil
}

// scanOffer scans an offer row and derives the validity fields.
func (r *Repository) scanOffer(row interface{ Scan(...interface{}) error }) (*Offer, error) {
	var o Offer
	var parentID sql.NullInt64
	var actions, prefs string

	err := row.Scan(
		&o.ID, &parentID, &o.LeaseListing, &o.SaleListing, &o.Role, &o.Status,
		&o.Price, &o.MinLockInPeriod, &o.LeasePeriod, &o.MoveInDate, &o.CanCounter,
		&o.CanCreateLease, &actions, &prefs, &o.Reason, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		o.ParentID = parentID.Int64
	}
	if err := json.Unmarshal([]byte(actions), &o.Actions); err != nil {
		return nil, fmt.Errorf("parsing actions of offer %d: %w", o.ID, err)
	}
	if err := json.Unmarshal([]byte(prefs), &o.Preferences); err != nil {
		return nil, fmt.Errorf("parsing preferences of offer %d: %w", o.ID, err)
	}

	o.ValidCount = validCount(o.CreatedAt, r.clock.Now())
	o.ValidDays = validDaysLabel(o.ValidCount)

	return &o, nil
}

// validCount is the number of whole days remaining in the validity window.
// Negative means the window has lapsed.
func validCount(createdAt, now time.Time) int {
	expiresAt := createdAt.AddDate(0, 0, DefaultValidityDays)
	remaining := expiresAt.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining < 0 && remaining%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// validDaysLabel renders the remaining window as a human string.
func validDaysLabel(count int) string {
	switch {
	case count < 0:
		return "Expired"
	case count == 0:
		return "Expires today"
	case count == 1:
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", count)
}
