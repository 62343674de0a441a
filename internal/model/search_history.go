package model

import "time"

// SearchHistoryEntry is an append-only record of a search the user ran,
// from the `search_history` table.  Retrieval is capped to the most
// recent entries.
type SearchHistoryEntry struct {
    ID         uint64    `json:"id"`           // search_history.id
    UserID     uint64    `json:"user_id"`      // search_history.user_id
    Query      string    `json:"search_query"` // search_history.search_query
    SearchType string    `json:"search_type"`  // search_history.search_type (route|stop)
    CreatedAt  time.Time `json:"created_at"`   // search_history.created_at
}
