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

type RegistrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const registrationColumns = `id, tour_event_id, tourist_user_id, status, registration_date,
approved_by_user_id, approved_date, rejected_reason`

func (r *RegistrationRepository) GetTourEventForUpdate(ctx context.Context, id string) (domain.TourEvent, error) {
	const query = `
SELECT id, provider_id, template_id, custom_tour_name, start_date, end_date,
	number_of_allowed_tourists, remaining_tourists, status, created_at, updated_at
FROM tour_events WHERE id = $1 FOR UPDATE`

	var e domain.TourEvent
	err := r.queryRow(ctx, query, id).Scan(
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
		return domain.TourEvent{}, fmt.Errorf("get tour event: %w", err)
	}
	return e, nil
}

func (r *RegistrationRepository) GetRegistrationForUpdate(ctx context.Context, id string) (domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
	return r.scanRegistration(r.queryRow(ctx, query, id))
}

func (r *RegistrationRepository) FindActiveRegistration(ctx context.Context, tourEventID, touristUserID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + `
FROM registrations
WHERE tour_event_id = $1 AND tourist_user_id = $2 AND status IN ('pending', 'approved')`

	reg, err := r.scanRegistration(r.queryRow(ctx, query, tourEventID, touristUserID))
	if err != nil {
		if err == domain.ErrRegistrationNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) ListActiveWindowsByTourist(ctx context.Context, touristUserID string) ([]domain.RegistrationWindow, error) {
	const query = `
SELECT r.id, r.tour_event_id, t.start_date, t.end_date
FROM registrations r
JOIN tour_events t ON t.id = r.tour_event_id
WHERE r.tourist_user_id = $1 AND r.status IN ('pending', 'approved')`

	rows, err := r.query(ctx, query, touristUserID)
	if err != nil {
		return nil, fmt.Errorf("list active windows: %w", err)
	}
	defer rows.Close()

	var windows []domain.RegistrationWindow
	for rows.Next() {
		var w domain.RegistrationWindow
		if err := rows.Scan(&w.RegistrationID, &w.TourEventID, &w.StartDate, &w.EndDate); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *RegistrationRepository) CountRegistrations(ctx context.Context, tourEventID string) (domain.RegistrationCounts, error) {
	return countRegistrations(ctx, r, tourEventID)
}

func (r *RegistrationRepository) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	const stmt = `
INSERT INTO registrations (id, tour_event_id, tourist_user_id, status, registration_date,
	approved_by_user_id, approved_date, rejected_reason)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		reg.ID,
		reg.TourEventID,
		reg.TouristUserID,
		reg.Status,
		reg.RegistrationDate,
		reg.ApprovedByUserID,
		reg.ApprovedDate,
		reg.RejectedReason,
	)
	if err != nil {
		// The partial unique index backs the one-active-registration rule.
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) UpdateRegistration(ctx context.Context, reg domain.Registration) error {
	const stmt = `
UPDATE registrations
SET status = $2, approved_by_user_id = $3, approved_date = $4, rejected_reason = $5
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		reg.ID,
		reg.Status,
		reg.ApprovedByUserID,
		reg.ApprovedDate,
		reg.RejectedReason,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *RegistrationRepository) UpdateTourEventOccupancy(ctx context.Context, tourEventID string, status domain.TourEventStatus, remaining int, updatedAt time.Time) error {
	const stmt = `
UPDATE tour_events
SET status = $2, remaining_tourists = $3, updated_at = $4
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, tourEventID, status, remaining, updatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update occupancy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTourEventNotFound
	}
	return nil
}

func (r *RegistrationRepository) ListRegistrationsByTourEvent(ctx context.Context, tourEventID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + `
FROM registrations
WHERE tour_event_id = $1
ORDER BY registration_date`
	return r.listRegistrations(ctx, query, tourEventID)
}

func (r *RegistrationRepository) ListRegistrationsByTourist(ctx context.Context, touristUserID string) ([]domain.Registration, error) {
	query := `SELECT ` + registrationColumns + `
FROM registrations
WHERE tourist_user_id = $1
ORDER BY registration_date`
	return r.listRegistrations(ctx, query, touristUserID)
}

func (r *RegistrationRepository) listRegistrations(ctx context.Context, query string, arg any) ([]domain.Registration, error) {
	rows, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := r.scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepository) scanRegistration(row pgx.Row) (domain.Registration, error) {
	var reg domain.Registration
	err := row.Scan(
		&reg.ID,
		&reg.TourEventID,
		&reg.TouristUserID,
		&reg.Status,
		&reg.RegistrationDate,
		&reg.ApprovedByUserID,
		&reg.ApprovedDate,
		&reg.RejectedReason,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Registration{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Registration{}, domain.ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("scan registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *RegistrationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *RegistrationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
