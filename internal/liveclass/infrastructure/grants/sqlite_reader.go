package grants

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SQLiteReader implements domain.GrantReader using SQLite.
type SQLiteReader struct {
	db *sql.DB
}

// NewSQLiteReader creates a new SQLite grant reader.
func NewSQLiteReader(db *sql.DB) *SQLiteReader {
	return &SQLiteReader{db: db}
}

// SessionRecipients returns users granted access to one session.
func (r *SQLiteReader) SessionRecipients(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT recipient_ref
		FROM session_access_grants
		WHERE class_session_id = ?
		ORDER BY granted_at ASC
	`
	return r.queryRecipients(ctx, query, sessionID)
}

// ClassRecipients returns users granted access to the whole class.
func (r *SQLiteReader) ClassRecipients(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT recipient_ref
		FROM class_access_grants
		WHERE live_class_id = ?
		ORDER BY granted_at ASC
	`
	return r.queryRecipients(ctx, query, classID)
}

func (r *SQLiteReader) queryRecipients(ctx context.Context, query string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := make([]uuid.UUID, 0)
	for rows.Next() {
		var recipientStr string
		if err := rows.Scan(&recipientStr); err != nil {
			return nil, err
		}
		recipient, err := uuid.Parse(recipientStr)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, recipient)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recipients, nil
}
