package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/transit-pass/internal/model"
)

// HistoryRepo appends and reads the per-user search history.
type HistoryRepo struct{ db *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// Record appends a search to the history.  Called before the search
// itself runs, so zero-result queries are recorded too.
func (r *HistoryRepo) Record(ctx context.Context, userID uint64, query, searchType string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO search_history (user_id, search_query, search_type) VALUES (?,?,?)",
		userID, query, searchType)
	return err
}

// Recent returns the user's latest searches, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, userID uint64, limit int) ([]model.SearchHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, search_query, search_type, created_at
		 FROM search_history
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SearchHistoryEntry, 0, limit)
	for rows.Next() {
		var e model.SearchHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Query, &e.SearchType, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
