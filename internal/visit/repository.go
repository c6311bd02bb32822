package visit

import (
	"database/sql"
	"fmt"

	"github.com/rentfold/rentfold/internal/clock"
)

// Repository provides CRUD operations for visits.
type Repository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewRepository creates a visit repository.
func NewRepository(db *sql.DB, clk clock.Clock) *Repository {
	return &Repository{db: db, clock: clk}
}

const visitColumns = `id, asset_id, address, lease_listing, sale_listing, status,
	start_date, end_date, role, visitor, is_valid, comment, created_at, updated_at`

// Create validates and stores a new visit.
func (r *Repository) Create(v *Visit) (*Visit, error) {
	if v != nil && v.Status == "" {
		v.Status = StatusPending
	}
	if err := Validate(v); err != nil {
		return nil, err
	}

	now := r.clock.Now().UTC()
	result, err := r.db.Exec(
		`INSERT INTO visits (asset_id, address, lease_listing, sale_listing, status,
			start_date, end_date, role, visitor, is_valid, comment, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.AssetID, v.Address, v.LeaseListing, v.SaleListing, v.Status,
		v.StartDate.UTC(), v.EndDate.UTC(), v.Role, v.Visitor, v.IsValidVisit, v.Comment, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a single visit.
func (r *Repository) GetByID(id int64) (*Visit, error) {
	row := r.db.QueryRow("SELECT "+visitColumns+" FROM visits WHERE id = ?", id)
	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visit %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading visit %d: %w", id, err)
	}
	return v, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	Status  Status
	AssetID int64
}

// List returns visits ordered by start time, optionally filtered.
func (r *Repository) List(opts ListOptions) ([]*Visit, error) {
	query := "SELECT " + visitColumns + " FROM visits WHERE 1=1"
	var args []interface{}
	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}
	if opts.AssetID != 0 {
		query += " AND asset_id = ?"
		args = append(args, opts.AssetID)
	}
	query += " ORDER BY start_date ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var visits []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating visits: %w", err)
	}

	return visits, nil
}

// UpdateStatus transitions a visit to a new persisted status. Legality is
// the service's concern; the repository only refuses unknown statuses.
func (r *Repository) UpdateStatus(id int64, status Status) error {
	if !status.IsValid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	result, err := r.db.Exec(
		"UPDATE visits SET status = ?, updated_at = ? WHERE id = ?",
		status, r.clock.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating visit %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("visit %d not found", id)
	}
	return nil
}

// Reschedule moves every visit in the payload to the new window inside one
// transaction. Ids and statuses are preserved; only the interval changes.
func (r *Repository) Reschedule(p *ReschedulePayload) error {
	if p == nil || len(p.IDs) == 0 {
		return &ValidationError{Field: "payload", Reason: "reschedule batch is empty"}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting reschedule: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := r.clock.Now().UTC()
	for _, id := range p.IDs {
		result, err := tx.Exec(
			"UPDATE visits SET start_date = ?, end_date = ?, comment = ?, updated_at = ? WHERE id = ?",
			p.StartDate.UTC(), p.EndDate.UTC(), p.Comment, now, id,
		)
		if err != nil {
			return fmt.Errorf("rescheduling visit %d: %w", id, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("visit %d not found", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reschedule: %w", err)
	}
	return nil
}

// scanVisit scans a visit from a database row.
func scanVisit(row interface{ Scan(...interface{}) error }) (*Visit, error) {
	var v Visit
	err := row.Scan(
		&v.ID, &v.AssetID, &v.Address, &v.LeaseListing, &v.SaleListing, &v.Status,
		&v.StartDate, &v.EndDate, &v.Role, &v.Visitor, &v.IsValidVisit, &v.Comment,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
