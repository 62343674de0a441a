package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-pass/internal/model"
)

func TestRouteMatchTier(t *testing.T) {
	tests := []struct {
		number string
		query  string
		tier   int
	}{
		{"4", "4", 1},
		{"41", "4", 2},
		{"4к", "4", 2},
		{"14", "4", 3},
		{"80", "4", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, routeMatchTier(tt.number, tt.query),
			"number %q query %q", tt.number, tt.query)
	}
}

func TestRankRoutes(t *testing.T) {
	routes := []model.Route{
		{Number: "14", Name: "Солнечный — Вокзал"},
		{Number: "4к", Name: "Центр — Аэропорт (короткий)"},
		{Number: "4", Name: "Центр — Аэропорт"},
		{Number: "41", Name: "Ново-Ленино — Рынок"},
	}
	rankRoutes(routes, "4")

	got := make([]string, 0, len(routes))
	for _, r := range routes {
		got = append(got, r.Number)
	}
	// exact match first, then prefix matches by number, substring last
	assert.Equal(t, []string{"4", "41", "4к", "14"}, got)
}

func TestRankRoutes_TiesFallBackToName(t *testing.T) {
	routes := []model.Route{
		{Number: "4", Name: "Центр — Аэропорт"},
		{Number: "4", Name: "Аэропорт — Центр"},
	}
	rankRoutes(routes, "4")

	require.Len(t, routes, 2)
	assert.Equal(t, "Аэропорт — Центр", routes[0].Name)
	assert.Equal(t, "Центр — Аэропорт", routes[1].Name)
}

func TestSearch_TierOrderingRunsInSQL(t *testing.T) {
	// The match tier must be part of the query's ORDER BY: with only a
	// LIMIT, the database may return an arbitrary page of a large match
	// set and drop the exact-number route before ranking ever sees it.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM routes.+ORDER BY CASE WHEN route_number = \? THEN 1 WHEN route_number LIKE \? THEN 2 ELSE 3 END.+LIMIT \?`).
		WithArgs("%4%", "%4%", "4", "4%", searchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_number", "route_name", "price", "interval_minutes", "created_at"}).
			AddRow(1, "4", "Центр — Аэропорт", nil, nil, now).
			AddRow(2, "41", "Ново-Ленино — Рынок", nil, nil, now).
			AddRow(3, "14", "Солнечный — Вокзал", nil, nil, now))

	got, err := NewRouteRepo(db).Search(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "4", got[0].Number)
	assert.Equal(t, "41", got[1].Number)
	assert.Equal(t, "14", got[2].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRankRoutes_StableWithinTier(t *testing.T) {
	// Nothing matches the query by number, so the (number, name) fallback
	// alone dictates order.
	routes := []model.Route{
		{Number: "90", Name: "B"},
		{Number: "16", Name: "A"},
		{Number: "20", Name: "C"},
	}
	rankRoutes(routes, "trolley")

	got := make([]string, 0, len(routes))
	for _, r := range routes {
		got = append(got, r.Number)
	}
	assert.Equal(t, []string{"16", "20", "90"}, got)
}
