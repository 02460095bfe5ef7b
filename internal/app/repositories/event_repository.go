package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// PublicEventFilter carries the composable predicates of the public listing.
// Nil or empty fields are not applied. OnlyAvailable is handled by the caller
// for the views-sorted path, since it depends on a second derived count.
type PublicEventFilter struct {
	Text       *string
	Categories []int64
	Paid       *bool
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// AdminEventFilter carries the admin listing predicates.
type AdminEventFilter struct {
	Users      []int64
	States     []models.EventState
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// joinedEventColumns are the columns selected by every hydrating event query:
// the event row plus the joined category and initiator names.
var joinedEventColumns = []string{
	"e.id", "e.annotation", "e.description", "e.title",
	"e.category_id", "e.initiator_id", "e.event_date", "e.lat", "e.lon",
	"e.paid", "e.participant_limit", "e.request_moderation",
	"e.state", "e.created_on", "e.published_on",
	"c.name", "u.name",
}

func scanJoinedEvent(row pgx.Row) (*models.Event, error) {
	var (
		e             models.Event
		categoryName  string
		initiatorName string
	)
	err := row.Scan(
		&e.ID, &e.Annotation, &e.Description, &e.Title,
		&e.CategoryID, &e.InitiatorID, &e.EventDate, &e.Lat, &e.Lon,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration,
		&e.State, &e.CreatedOn, &e.PublishedOn,
		&categoryName, &initiatorName,
	)
	if err != nil {
		return nil, err
	}
	e.Category = &models.Category{ID: e.CategoryID, Name: categoryName}
	e.Initiator = &models.User{ID: e.InitiatorID, Name: initiatorName}
	return &e, nil
}

func (r *EventRepository) joinedSelect() squirrel.SelectBuilder {
	return r.sb.Select(joinedEventColumns...).
		From("events e").
		Join("categories c ON c.id = e.category_id").
		Join("users u ON u.id = e.initiator_id")
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("annotation", "description", "title", "category_id", "initiator_id",
			"event_date", "lat", "lon", "paid", "participant_limit",
			"request_moderation", "state", "created_on").
		Values(e.Annotation, e.Description, e.Title, e.CategoryID, e.InitiatorID,
			e.EventDate, e.Lat, e.Lon, e.Paid, e.ParticipantLimit,
			e.RequestModeration, e.State, e.CreatedOn).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	return e, nil
}

// Update persists all mutable event fields
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := r.sb.Update("events").
		Set("annotation", e.Annotation).
		Set("description", e.Description).
		Set("title", e.Title).
		Set("category_id", e.CategoryID).
		Set("event_date", e.EventDate).
		Set("lat", e.Lat).
		Set("lon", e.Lon).
		Set("paid", e.Paid).
		Set("participant_limit", e.ParticipantLimit).
		Set("request_moderation", e.RequestModeration).
		Set("state", e.State).
		Set("published_on", e.PublishedOn).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves an event with its category and initiator
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"e.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanJoinedEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	return e, nil
}

// GetByIDAndInitiator retrieves an event only when owned by the given user
func (r *EventRepository) GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*models.Event, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"e.id": eventID, "e.initiator_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanJoinedEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}

	return e, nil
}

// GetByIDForUpdate locks the event row for the duration of the transaction.
// Admission checks count confirmed requests under this lock, which serializes
// concurrent check-then-act sequences per event.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Event, error) {
	const sql = `
		SELECT id, annotation, description, title, category_id, initiator_id,
		       event_date, lat, lon, paid, participant_limit, request_moderation,
		       state, created_on, published_on
		FROM events
		WHERE id = $1
		FOR UPDATE`

	var e models.Event
	err := tx.QueryRow(ctx, sql, id).Scan(
		&e.ID, &e.Annotation, &e.Description, &e.Title,
		&e.CategoryID, &e.InitiatorID, &e.EventDate, &e.Lat, &e.Lon,
		&e.Paid, &e.ParticipantLimit, &e.RequestModeration,
		&e.State, &e.CreatedOn, &e.PublishedOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error locking event: %w", err)
	}

	return &e, nil
}

// ListByInitiator retrieves a page of the user's own events
func (r *EventRepository) ListByInitiator(ctx context.Context, userID int64, page helpers.Page) ([]models.Event, error) {
	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"e.initiator_id": userID}).
		OrderBy("e.id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	return r.queryJoinedEvents(ctx, sql, args)
}

// ListByIDs retrieves the named events with categories and initiators
func (r *EventRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}

	sql, args, err := r.joinedSelect().
		Where(squirrel.Eq{"e.id": ids}).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	return r.queryJoinedEvents(ctx, sql, args)
}

// ExistsByCategory reports whether any event references the category
func (r *EventRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)", categoryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking category references: %w", err)
	}
	return exists, nil
}

// buildPublicQuery composes the predicate-based public listing statement.
// Only PUBLISHED events are visible; a missing range start defaults to now so
// past events are not listed.
func (r *EventRepository) buildPublicQuery(f PublicEventFilter, page helpers.Page, sortByDate bool) (string, []any, error) {
	builder := r.joinedSelect().
		Where(squirrel.Eq{"e.state": models.EventStatePublished})

	if f.Text != nil && *f.Text != "" {
		pattern := "%" + *f.Text + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"e.annotation": pattern},
			squirrel.ILike{"e.description": pattern},
		})
	}
	if len(f.Categories) > 0 {
		builder = builder.Where(squirrel.Eq{"e.category_id": f.Categories})
	}
	if f.Paid != nil {
		builder = builder.Where(squirrel.Eq{"e.paid": *f.Paid})
	}
	if f.RangeStart != nil {
		builder = builder.Where(squirrel.GtOrEq{"e.event_date": *f.RangeStart})
	} else {
		builder = builder.Where(squirrel.Expr("e.event_date >= NOW()"))
	}
	if f.RangeEnd != nil {
		builder = builder.Where(squirrel.LtOrEq{"e.event_date": *f.RangeEnd})
	}

	if sortByDate {
		builder = builder.OrderBy("e.event_date ASC", "e.id ASC")
	} else {
		builder = builder.OrderBy("e.id ASC")
	}

	return builder.Offset(page.Offset()).Limit(page.Limit()).ToSql()
}

// FindPublic answers the public listing for the predicate-composition path
// (sort by event date or unspecified).
func (r *EventRepository) FindPublic(ctx context.Context, f PublicEventFilter, page helpers.Page, sortByDate bool) ([]models.Event, error) {
	sql, args, err := r.buildPublicQuery(f, page, sortByDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build public events query: %w", err)
	}

	return r.queryJoinedEvents(ctx, sql, args)
}

// FindAdmin answers the admin listing with its own predicate set
func (r *EventRepository) FindAdmin(ctx context.Context, f AdminEventFilter, page helpers.Page) ([]models.Event, error) {
	builder := r.joinedSelect()

	if len(f.Users) > 0 {
		builder = builder.Where(squirrel.Eq{"e.initiator_id": f.Users})
	}
	if len(f.States) > 0 {
		builder = builder.Where(squirrel.Eq{"e.state": f.States})
	}
	if len(f.Categories) > 0 {
		builder = builder.Where(squirrel.Eq{"e.category_id": f.Categories})
	}
	if f.RangeStart != nil {
		builder = builder.Where(squirrel.GtOrEq{"e.event_date": *f.RangeStart})
	}
	if f.RangeEnd != nil {
		builder = builder.Where(squirrel.LtOrEq{"e.event_date": *f.RangeEnd})
	}

	sql, args, err := builder.
		OrderBy("e.created_on DESC", "e.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build admin events query: %w", err)
	}

	return r.queryJoinedEvents(ctx, sql, args)
}

// findPublicWithViewsSQL orders by a derived value, which the predicate path
// cannot express: it joins the hit log by URI pattern and folds the
// confirmed-request count in as a subquery.
const findPublicWithViewsSQL = `
SELECT e.id, e.annotation, e.description, e.title,
       e.category_id, e.initiator_id, e.event_date, e.lat, e.lon,
       e.paid, e.participant_limit, e.request_moderation,
       e.state, e.created_on, e.published_on,
       c.name, u.name,
       COALESCE(s.hits, 0) AS views,
       (SELECT COUNT(*) FROM participation_requests pr
         WHERE pr.event_id = e.id AND pr.status = 'CONFIRMED') AS confirmed_requests
FROM events e
JOIN categories c ON c.id = e.category_id
JOIN users u ON u.id = e.initiator_id
LEFT JOIN (
    SELECT uri,
           CASE WHEN $1 THEN COUNT(DISTINCT ip) ELSE COUNT(*) END AS hits
    FROM endpoint_hits
    WHERE timestamp BETWEEN $2 AND $3
      AND uri LIKE '/events/%'
    GROUP BY uri
) s ON s.uri = '/events/' || e.id
WHERE e.state = 'PUBLISHED'
  AND ($4::text IS NULL OR $4 = ''
       OR e.annotation ILIKE '%' || $4 || '%'
       OR e.description ILIKE '%' || $4 || '%')
  AND ($5::bigint[] IS NULL OR e.category_id = ANY($5))
  AND ($6::boolean IS NULL OR e.paid = $6)
  AND e.event_date >= COALESCE($7::timestamp, NOW())
  AND ($8::timestamp IS NULL OR e.event_date <= $8)
ORDER BY views DESC, e.id ASC
LIMIT $9 OFFSET $10`

// FindPublicWithViews answers the views-sorted public listing in a single
// aggregate query over the events and the endpoint hit log.
func (r *EventRepository) FindPublicWithViews(ctx context.Context, f PublicEventFilter, page helpers.Page,
	unique bool, statsStart, statsEnd time.Time) ([]models.EventWithStats, error) {

	var categories []int64
	if len(f.Categories) > 0 {
		categories = f.Categories
	}

	rows, err := r.db.Query(ctx, findPublicWithViewsSQL,
		unique, statsStart, statsEnd,
		f.Text, categories, f.Paid, f.RangeStart, f.RangeEnd,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("error querying events with views: %w", err)
	}
	defer rows.Close()

	events := make([]models.EventWithStats, 0)
	for rows.Next() {
		var (
			e             models.EventWithStats
			categoryName  string
			initiatorName string
		)
		err := rows.Scan(
			&e.ID, &e.Annotation, &e.Description, &e.Title,
			&e.CategoryID, &e.InitiatorID, &e.EventDate, &e.Lat, &e.Lon,
			&e.Paid, &e.ParticipantLimit, &e.RequestModeration,
			&e.State, &e.CreatedOn, &e.PublishedOn,
			&categoryName, &initiatorName,
			&e.Views, &e.ConfirmedRequests,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		e.Category = &models.Category{ID: e.CategoryID, Name: categoryName}
		e.Initiator = &models.User{ID: e.InitiatorID, Name: initiatorName}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (r *EventRepository) queryJoinedEvents(ctx context.Context, sql string, args []any) ([]models.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanJoinedEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}
