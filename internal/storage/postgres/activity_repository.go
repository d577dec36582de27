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

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const activityColumns = `id, tour_event_id, activity_date, start_time, end_time,
activity_name, activity_type, description, is_optional, created_at`

const tourEventSelect = `
SELECT id, provider_id, template_id, custom_tour_name, start_date, end_date,
	number_of_allowed_tourists, remaining_tourists, status, created_at, updated_at
FROM tour_events WHERE id = $1`

func (r *ActivityRepository) GetTourEvent(ctx context.Context, id string) (domain.TourEvent, error) {
	return r.scanTourEvent(r.queryRow(ctx, tourEventSelect, id))
}

func (r *ActivityRepository) GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error) {
	return r.scanTourEvent(r.queryRow(ctx, tourEventSelect+` FOR UPDATE`, id))
}

func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	return r.scanActivity(r.queryRow(ctx, query, id))
}

func (r *ActivityRepository) ListActivitiesOnDate(ctx context.Context, tourEventID string, date time.Time) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + `
FROM activities
WHERE tour_event_id = $1 AND activity_date = $2
ORDER BY start_time`
	return r.listActivities(ctx, query, tourEventID, date)
}

func (r *ActivityRepository) ListActivities(ctx context.Context, tourEventID string) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + `
FROM activities
WHERE tour_event_id = $1
ORDER BY activity_date, start_time`
	return r.listActivities(ctx, query, tourEventID)
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, activity domain.Activity) error {
	const stmt = `
INSERT INTO activities (id, tour_event_id, activity_date, start_time, end_time,
	activity_name, activity_type, description, is_optional, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		activity.ID,
		activity.TourEventID,
		activity.ActivityDate,
		string(activity.StartTime),
		string(activity.EndTime),
		activity.ActivityName,
		activity.ActivityType,
		activity.Description,
		activity.IsOptional,
		activity.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) UpdateActivity(ctx context.Context, activity domain.Activity) error {
	const stmt = `
UPDATE activities
SET activity_date = $2, start_time = $3, end_time = $4,
	activity_name = $5, activity_type = $6, description = $7, is_optional = $8
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		activity.ID,
		activity.ActivityDate,
		string(activity.StartTime),
		string(activity.EndTime),
		activity.ActivityName,
		activity.ActivityType,
		activity.Description,
		activity.IsOptional,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) DeleteActivity(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) listActivities(ctx context.Context, query string, args ...any) ([]domain.Activity, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		activity, err := r.scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (r *ActivityRepository) scanActivity(row pgx.Row) (domain.Activity, error) {
	var a domain.Activity
	var start, end string
	err := row.Scan(
		&a.ID,
		&a.TourEventID,
		&a.ActivityDate,
		&start,
		&end,
		&a.ActivityName,
		&a.ActivityType,
		&a.Description,
		&a.IsOptional,
		&a.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Activity{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Activity{}, domain.ErrActivityNotFound
		}
		return domain.Activity{}, fmt.Errorf("scan activity: %w", err)
	}
	a.StartTime = domain.TimeOfDay(start)
	a.EndTime = domain.TimeOfDay(end)
	return a, nil
}

func (r *ActivityRepository) scanTourEvent(row pgx.Row) (domain.TourEvent, error) {
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

func (r *ActivityRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ActivityRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ActivityRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
