// Package store implements the workflow.StatusStore contract on PostgreSQL.
//
// Two tables back it:
//
//	applicant_progress — one row per applicant pipeline, current_status is
//	                     the source of truth
//	status_history     — append-only audit log; compensating undos mark the
//	                     undone row deleted, nothing is ever removed
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireflow/workflow-service/internal/catalog"
	"hireflow/workflow-service/internal/workflow"
)

// Postgres is the pgx-backed status store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a store over the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// UpdateStatus persists one transition: it checks the optimistic FromStatus
// guard, updates current_status plus any side-effect columns, appends the
// history row, and — for compensating requests — soft-deletes the most
// recent live history entry.
func (p *Postgres) UpdateStatus(ctx context.Context, req workflow.TransitionRequest) (*workflow.TransitionRecord, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx,
		`SELECT current_status FROM applicant_progress WHERE progress_id = $1 FOR UPDATE`,
		req.ProgressID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, fmt.Errorf("select current status: %w", err)
	}
	if req.FromStatus != "" && string(req.FromStatus) != current {
		return nil, fmt.Errorf("%w: recorded %s, request expected %s",
			workflow.ErrStaleStatus, current, req.FromStatus)
	}

	if req.Compensating {
		// Mark the record being undone. It stays in the log and keeps
		// participating in skip reconstruction.
		if _, err := tx.Exec(ctx,
			`UPDATE status_history SET deleted = true
			 WHERE id = (
			   SELECT id FROM status_history
			   WHERE progress_id = $1 AND NOT deleted
			   ORDER BY changed_at DESC, id DESC
			   LIMIT 1
			 )`,
			req.ProgressID,
		); err != nil {
			return nil, fmt.Errorf("soft-delete undone record: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE applicant_progress
		 SET current_status       = $1,
		     blacklisted_type     = NULLIF($2, ''),
		     reason               = NULLIF($3, ''),
		     reason_for_rejection = NULLIF($4, ''),
		     updated_at           = NOW()
		 WHERE progress_id = $5`,
		string(req.ToStatus), string(req.BlacklistType), string(req.BlacklistReason),
		string(req.RejectionReason), req.ProgressID,
	); err != nil {
		return nil, fmt.Errorf("update current status: %w", err)
	}

	rec := workflow.TransitionRecord{
		ID:             uuid.NewString(),
		ProgressID:     req.ProgressID,
		Status:         req.ToStatus,
		PreviousStatus: catalogStatus(current),
		ChangedBy:      req.ActorID,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO status_history (id, progress_id, status, previous_status, changed_by, effective_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING changed_at`,
		rec.ID, rec.ProgressID, string(rec.Status), current, req.ActorID,
		effectiveAt(req.EffectiveAt),
	).Scan(&rec.ChangedAt)
	if err != nil {
		return nil, fmt.Errorf("insert history record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &rec, nil
}

// History returns every transition record for the applicant, newest first.
// Soft-deleted records are included.
func (p *Postgres) History(ctx context.Context, progressID string) ([]workflow.TransitionRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, progress_id, status, COALESCE(previous_status, ''), changed_by, changed_at, deleted
		 FROM status_history
		 WHERE progress_id = $1
		 ORDER BY changed_at DESC, id DESC`,
		progressID,
	)
	if err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	defer rows.Close()

	records := make([]workflow.TransitionRecord, 0)
	for rows.Next() {
		var (
			r            workflow.TransitionRecord
			status, prev string
		)
		if err := rows.Scan(&r.ID, &r.ProgressID, &status, &prev, &r.ChangedBy, &r.ChangedAt, &r.Deleted); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		r.Status = catalogStatus(status)
		r.PreviousStatus = catalogStatus(prev)
		records = append(records, r)
	}
	return records, rows.Err()
}

func catalogStatus(s string) catalog.Status { return catalog.Status(s) }

// effectiveAt maps the request's change date to a nullable column value:
// the "N/A" sentinel becomes NULL, anything else is parsed as RFC 3339 and
// falls back to now on malformed input rather than failing the commit.
func effectiveAt(s string) *time.Time {
	if s == "" || s == workflow.EffectiveAtNotApplicable {
		return nil
	}
	// Malformed dates are rejected upstream; store NULL rather than invent
	// a timestamp if one slips through.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
