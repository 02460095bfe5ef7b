package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

// RequestRepository handles participation request database operations.
// Methods that take part in admission accept a pgx.Tx so they run under the
// caller's row lock; a nil tx falls back to the pool.
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RequestRepository) q(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a new participation request. The partial unique index over
// non-canceled (event_id, requester_id) pairs rejects duplicates.
func (r *RequestRepository) Create(ctx context.Context, tx pgx.Tx, req *models.ParticipationRequest) (*models.ParticipationRequest, error) {
	sql, args, err := r.sb.Insert("participation_requests").
		Columns("event_id", "requester_id", "status", "created").
		Values(req.EventID, req.RequesterID, req.Status, req.Created).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create request query: %w", err)
	}

	if err := r.q(tx).QueryRow(ctx, sql, args...).Scan(&req.ID); err != nil {
		if isDuplicateKeyError(err) {
			return nil, apperrors.NewConflictError("Request already exists")
		}
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	return req, nil
}

// GetByID retrieves a participation request
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error) {
	sql, args, err := r.sb.Select("id", "event_id", "requester_id", "status", "created").
		From("participation_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	var req models.ParticipationRequest
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting request: %w", err)
	}

	return &req, nil
}

// CountConfirmed counts confirmed requests for an event. Run under the event
// row lock when the count feeds an admission decision.
func (r *RequestRepository) CountConfirmed(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	var count int64
	err := r.q(tx).QueryRow(ctx,
		"SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2",
		eventID, models.RequestStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting confirmed requests: %w", err)
	}
	return count, nil
}

// CountConfirmedByEvents returns the confirmed request count per event id
func (r *RequestRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("event_id", "COUNT(*)").
		From("participation_requests").
		Where(squirrel.Eq{"event_id": eventIDs, "status": models.RequestStatusConfirmed}).
		GroupBy("event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting confirmed requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, count int64
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("error scanning request count: %w", err)
		}
		counts[eventID] = count
	}

	return counts, rows.Err()
}

// ListByIDs retrieves the named requests for an event under the caller's lock
func (r *RequestRepository) ListByIDs(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]models.ParticipationRequest, error) {
	if len(ids) == 0 {
		return []models.ParticipationRequest{}, nil
	}

	sql, args, err := r.sb.Select("id", "event_id", "requester_id", "status", "created").
		From("participation_requests").
		Where(squirrel.Eq{"id": ids, "event_id": eventID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	return r.queryRequests(ctx, r.q(tx), sql, args)
}

// ListPendingByEvent retrieves the pending requests of an event for cascade
// rejection after the last slot is taken.
func (r *RequestRepository) ListPendingByEvent(ctx context.Context, tx pgx.Tx, eventID int64) ([]models.ParticipationRequest, error) {
	sql, args, err := r.sb.Select("id", "event_id", "requester_id", "status", "created").
		From("participation_requests").
		Where(squirrel.Eq{"event_id": eventID, "status": models.RequestStatusPending}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	return r.queryRequests(ctx, r.q(tx), sql, args)
}

// ListByRequester retrieves all requests made by a user
func (r *RequestRepository) ListByRequester(ctx context.Context, userID int64) ([]models.ParticipationRequest, error) {
	sql, args, err := r.sb.Select("id", "event_id", "requester_id", "status", "created").
		From("participation_requests").
		Where(squirrel.Eq{"requester_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	return r.queryRequests(ctx, r.db, sql, args)
}

// ListByEvent retrieves all requests targeting an event
func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error) {
	sql, args, err := r.sb.Select("id", "event_id", "requester_id", "status", "created").
		From("participation_requests").
		Where(squirrel.Eq{"event_id": eventID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	return r.queryRequests(ctx, r.db, sql, args)
}

// ExistsActive reports whether the user has a non-canceled request for the event
func (r *RequestRepository) ExistsActive(ctx context.Context, tx pgx.Tx, eventID, requesterID int64) (bool, error) {
	var exists bool
	err := r.q(tx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM participation_requests
		  WHERE event_id = $1 AND requester_id = $2 AND status <> $3)`,
		eventID, requesterID, models.RequestStatusCanceled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking request existence: %w", err)
	}
	return exists, nil
}

// UpdateStatus moves a batch of requests to the given status
func (r *RequestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status models.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("participation_requests").
		Set("status", status).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update requests query: %w", err)
	}

	if _, err := r.q(tx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}

	return nil
}

// UpdateStatusByID moves a single request to the given status
func (r *RequestRepository) UpdateStatusByID(ctx context.Context, id int64, status models.RequestStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE participation_requests SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("error updating request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, q querier, sql string, args []any) ([]models.ParticipationRequest, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.ParticipationRequest, 0)
	for rows.Next() {
		var req models.ParticipationRequest
		err := rows.Scan(&req.ID, &req.EventID, &req.RequesterID, &req.Status, &req.Created)
		if err != nil {
			return nil, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
