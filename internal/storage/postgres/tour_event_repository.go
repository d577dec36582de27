package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

type TourEventRepository struct {
	pool *pgxpool.Pool
}

func NewTourEventRepository(pool *pgxpool.Pool) *TourEventRepository {
	return &TourEventRepository{pool: pool}
}

func (r *TourEventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const tourEventColumns = `id, provider_id, template_id, custom_tour_name, start_date, end_date,
number_of_allowed_tourists, remaining_tourists, status, created_at, updated_at`

func (r *TourEventRepository) CreateTourEvent(ctx context.Context, event domain.TourEvent) error {
	const stmt = `
INSERT INTO tour_events (id, provider_id, template_id, custom_tour_name, start_date, end_date,
	number_of_allowed_tourists, remaining_tourists, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.exec(ctx, stmt,
		event.ID,
		event.ProviderID,
		event.TemplateID,
		event.CustomTourName,
		event.StartDate,
		event.EndDate,
		event.NumberOfAllowedTourists,
		event.RemainingTourists,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create tour event: %w", err)
	}
	return nil
}

func (r *TourEventRepository) GetTourEvent(ctx context.Context, id string) (domain.TourEvent, error) {
	query := `SELECT ` + tourEventColumns + ` FROM tour_events WHERE id = $1`
	return r.scanTourEvent(r.queryRow(ctx, query, id))
}

func (r *TourEventRepository) GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error) {
	query := `SELECT ` + tourEventColumns + ` FROM tour_events WHERE id = $1 FOR UPDATE`
	return r.scanTourEvent(r.queryRow(ctx, query, id))
}

func (r *TourEventRepository) UpdateTourEvent(ctx context.Context, event domain.TourEvent) error {
	const stmt = `
UPDATE tour_events
SET custom_tour_name = $2, start_date = $3, end_date = $4,
	number_of_allowed_tourists = $5, remaining_tourists = $6, status = $7, updated_at = $8
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		event.ID,
		event.CustomTourName,
		event.StartDate,
		event.EndDate,
		event.NumberOfAllowedTourists,
		event.RemainingTourists,
		event.Status,
		event.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update tour event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTourEventNotFound
	}
	return nil
}

func (r *TourEventRepository) ListTourEvents(ctx context.Context) ([]domain.TourEvent, error) {
	query := `SELECT ` + tourEventColumns + ` FROM tour_events ORDER BY start_date, created_at`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tour events: %w", err)
	}
	defer rows.Close()

	var events []domain.TourEvent
	for rows.Next() {
		event, err := r.scanTourEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *TourEventRepository) CountRegistrations(ctx context.Context, tourEventID string) (domain.RegistrationCounts, error) {
	return countRegistrations(ctx, r, tourEventID)
}

func (r *TourEventRepository) ListActivityDates(ctx context.Context, tourEventID string) ([]time.Time, error) {
	rows, err := r.query(ctx, `SELECT activity_date FROM activities WHERE tour_event_id = $1 ORDER BY activity_date`, tourEventID)
	if err != nil {
		return nil, fmt.Errorf("list activity dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("scan activity date: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// ListActiveWindowsOfRegistrants returns the date windows that this event's
// PENDING/APPROVED registrants hold on other events.
func (r *TourEventRepository) ListActiveWindowsOfRegistrants(ctx context.Context, tourEventID string) ([]domain.RegistrationWindow, error) {
	const query = `
SELECT other.id, other.tour_event_id, e.start_date, e.end_date
FROM registrations own
JOIN registrations other ON other.tourist_user_id = own.tourist_user_id
	AND other.tour_event_id <> own.tour_event_id
	AND other.status IN ('pending', 'approved')
JOIN tour_events e ON e.id = other.tour_event_id
WHERE own.tour_event_id = $1 AND own.status IN ('pending', 'approved')`

	rows, err := r.query(ctx, query, tourEventID)
	if err != nil {
		return nil, fmt.Errorf("list registrant windows: %w", err)
	}
	defer rows.Close()

	var windows []domain.RegistrationWindow
	for rows.Next() {
		var w domain.RegistrationWindow
		if err := rows.Scan(&w.RegistrationID, &w.TourEventID, &w.StartDate, &w.EndDate); err != nil {
			return nil, fmt.Errorf("scan registrant window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *TourEventRepository) scanTourEvent(row pgx.Row) (domain.TourEvent, error) {
	var e domain.TourEvent
	err := row.Scan(
		&e.ID,
		&e.ProviderID,
		&e.TemplateID,
		&e.CustomTourName,
		&e.StartDate,
		&e.EndDate,
		&e.NumberOfAllowedTourists,
		&e.RemainingTourists,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.TourEvent{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.TourEvent{}, domain.ErrTourEventNotFound
		}
		return domain.TourEvent{}, fmt.Errorf("scan tour event: %w", err)
	}
	return e, nil
}

func (r *TourEventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TourEventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *TourEventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
