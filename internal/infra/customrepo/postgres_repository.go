package customrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS custom_activities (
	owner_id         TEXT        NOT NULL,
	id               TEXT        NOT NULL,
	name             TEXT        NOT NULL,
	duration_minutes INTEGER     NOT NULL CHECK (duration_minutes > 0),
	daylight_needed  BOOLEAN     NOT NULL DEFAULT FALSE,
	energy_level     TEXT        NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (owner_id, id)
)`

// PostgresRepository implements activity.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]activity.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, duration_minutes, daylight_needed, energy_level
		FROM custom_activities
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]activity.Activity, 0)
	for rows.Next() {
		item, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (activity.Activity, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, duration_minutes, daylight_needed, energy_level
		FROM custom_activities
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	item, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return activity.Activity{}, false, nil
		}
		return activity.Activity{}, false, err
	}
	return item, true, nil
}

func (r *PostgresRepository) Save(ctx context.Context, ownerID string, item activity.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO custom_activities (owner_id, id, name, duration_minutes, daylight_needed, energy_level)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			duration_minutes = EXCLUDED.duration_minutes,
			daylight_needed = EXCLUDED.daylight_needed,
			energy_level = EXCLUDED.energy_level
	`, ownerID, item.ID, item.Name, item.DurationMinutes, item.DaylightNeeded, string(item.EnergyLevel))
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM custom_activities WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanActivity(row pgx.Row) (activity.Activity, error) {
	var (
		item   activity.Activity
		energy string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.DurationMinutes, &item.DaylightNeeded, &energy); err != nil {
		return activity.Activity{}, err
	}
	item.EnergyLevel = activity.EnergyLevel(energy)
	item.IsCustom = true
	return item, nil
}
