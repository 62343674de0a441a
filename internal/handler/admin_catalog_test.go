package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-pass/internal/repository"
)

// newValidationCatalogHandler builds a handler whose repositories are
// never reached: every test below must fail validation first.
func newValidationCatalogHandler() *CatalogHandler {
	return NewCatalogHandler(
		repository.NewRouteRepo(nil),
		repository.NewStopRepo(nil),
		repository.NewScheduleRepo(nil),
	)
}

func postJSON(t *testing.T, target, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestCreateRoute_Validation(t *testing.T) {
	h := newValidationCatalogHandler()
	tests := []struct {
		name string
		body string
	}{
		{"empty number", `{"route_number":"","route_name":"Центр — Аэропорт"}`},
		{"empty name", `{"route_number":"4","route_name":"  "}`},
		{"negative price", `{"route_number":"4","route_name":"Центр — Аэропорт","price":-5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, "/v1/admin/routes", tt.body, h.CreateRoute)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateStop_Validation(t *testing.T) {
	h := newValidationCatalogHandler()
	rec := postJSON(t, "/v1/admin/stops", `{"stop_name":"   "}`, h.CreateStop)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateScheduleEntry_Validation(t *testing.T) {
	h := newValidationCatalogHandler()
	tests := []struct {
		name string
		body string
	}{
		{"missing ids", `{"arrival_time":"10:00:00","stop_order":1,"day_type":"weekday"}`},
		{"bad arrival time", `{"route_id":1,"stop_id":1,"arrival_time":"25:00","stop_order":1,"day_type":"weekday"}`},
		{"zero stop order", `{"route_id":1,"stop_id":1,"arrival_time":"10:00","stop_order":0,"day_type":"weekday"}`},
		{"unknown day type", `{"route_id":1,"stop_id":1,"arrival_time":"10:00","stop_order":1,"day_type":"holiday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, "/v1/admin/schedule", tt.body, h.CreateScheduleEntry)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestArrivalTimeFormat(t *testing.T) {
	valid := []string{"00:00", "10:30", "23:59", "06:15:30"}
	invalid := []string{"24:00", "9:00", "10:60", "10:00:60", "noon", ""}
	for _, s := range valid {
		assert.True(t, arrivalTimeRe.MatchString(s), "expected %q to be accepted", s)
	}
	for _, s := range invalid {
		assert.False(t, arrivalTimeRe.MatchString(s), "expected %q to be rejected", s)
	}
}
