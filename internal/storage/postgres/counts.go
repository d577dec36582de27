package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opeoladettp/Tourist-Guide-Backend-sub001/internal/domain"
)

type rowQuerier interface {
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// countRegistrations recounts approved/pending registrations from the
// registration set. The cached remaining_tourists column is never read here.
func countRegistrations(ctx context.Context, q rowQuerier, tourEventID string) (domain.RegistrationCounts, error) {
	const query = `
SELECT
	COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0)
FROM registrations
WHERE tour_event_id = $1`

	var c domain.RegistrationCounts
	if err := q.queryRow(ctx, query, tourEventID).Scan(&c.Approved, &c.Pending); err != nil {
		if isInvalidUUID(err) {
			return domain.RegistrationCounts{}, domain.ErrInvalidID
		}
		return domain.RegistrationCounts{}, fmt.Errorf("count registrations: %w", err)
	}
	return c, nil
}
