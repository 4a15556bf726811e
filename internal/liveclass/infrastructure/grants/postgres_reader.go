// Package grants reads the platform-owned access grant tables.
package grants

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReader implements domain.GrantReader using PostgreSQL.
type PostgresReader struct {
	pool *pgxpool.Pool
}

// NewPostgresReader creates a new PostgreSQL grant reader.
func NewPostgresReader(pool *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{pool: pool}
}

// SessionRecipients returns users granted access to one session.
func (r *PostgresReader) SessionRecipients(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT recipient_ref
		FROM session_access_grants
		WHERE class_session_id = $1
		ORDER BY granted_at ASC
	`
	return r.queryRecipients(ctx, query, sessionID)
}

// ClassRecipients returns users granted access to the whole class.
func (r *PostgresReader) ClassRecipients(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT recipient_ref
		FROM class_access_grants
		WHERE live_class_id = $1
		ORDER BY granted_at ASC
	`
	return r.queryRecipients(ctx, query, classID)
}

func (r *PostgresReader) queryRecipients(ctx context.Context, query string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := make([]uuid.UUID, 0)
	for rows.Next() {
		var recipient uuid.UUID
		if err := rows.Scan(&recipient); err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recipients, nil
}
