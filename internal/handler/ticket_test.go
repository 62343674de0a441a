package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/repository"
)

var ticketCols = []string{"id", "user_id", "ticket_type", "price", "rides_remaining", "qr_serial", "expires_at", "status", "created_at"}

func newTicketMock(t *testing.T) (*TicketHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTicketHandler(repository.NewTicketRepo(db)), mock
}

func redeemRequest(t *testing.T, h *TicketHandler, ticketID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets/"+ticketID+"/ride", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(ticketID)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.Redeem(c))
	return rec
}

func activeTicketRow(rides int) *sqlmock.Rows {
	return sqlmock.NewRows(ticketCols).
		AddRow(5, 1, "single", 30.0, rides, "qr-serial", time.Now().Add(time.Hour), "active", time.Now())
}

func TestRedeem_LastRideFlipsTicket(t *testing.T) {
	h, mock := newTicketMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .+ FROM user_tickets.+FOR UPDATE").
		WithArgs(5, uint64(1)).
		WillReturnRows(activeTicketRow(1))
	mock.ExpectExec("INSERT INTO ride_history").
		WithArgs(uint64(1), uint64(5), "BUS-4-A", 30.0).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT ride_date FROM ride_history").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"ride_date"}).AddRow(time.Now()))
	mock.ExpectExec("UPDATE user_tickets").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := redeemRequest(t, h, "5", `{"vehicle_qr":"BUS-4-A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		RidesRemaining int  `json:"rides_remaining"`
		Unlimited      bool `json:"unlimited"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.RidesRemaining)
	assert.False(t, body.Unlimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_UnusableTicketIsNotFound(t *testing.T) {
	// The locking select only matches tickets owned by the caller that
	// are still 'active' and not past their deadline, so a used ticket,
	// an expired-but-still-'active' row and someone else's ticket all
	// come back empty.
	tests := []string{"already used", "expired but status active", "foreign ticket"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			h, mock := newTicketMock(t)

			mock.ExpectBegin()
			mock.ExpectQuery("(?s)SELECT .+ FROM user_tickets.+FOR UPDATE").
				WithArgs(5, uint64(1)).
				WillReturnRows(sqlmock.NewRows(ticketCols))
			mock.ExpectRollback()

			rec := redeemRequest(t, h, "5", `{"vehicle_qr":"BUS-4-A"}`)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedeem_UnlimitedNeverDecrements(t *testing.T) {
	h, mock := newTicketMock(t)

	// No UPDATE expectation: the pass keeps its sentinel ride count.
	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .+ FROM user_tickets.+FOR UPDATE").
		WithArgs(5, uint64(1)).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(5, 1, "day", 100.0, model.UnlimitedRides, "qr-serial", time.Now().Add(time.Hour), "active", time.Now()))
	mock.ExpectExec("INSERT INTO ride_history").
		WithArgs(uint64(1), uint64(5), "BUS-4-A", 0.0).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("SELECT ride_date FROM ride_history").
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"ride_date"}).AddRow(time.Now()))
	mock.ExpectCommit()

	rec := redeemRequest(t, h, "5", `{"vehicle_qr":"BUS-4-A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		RidesRemaining int  `json:"rides_remaining"`
		Unlimited      bool `json:"unlimited"`
		Ride           struct {
			FareAmount float64 `json:"fare_amount"`
		} `json:"ride"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.UnlimitedRides, body.RidesRemaining)
	assert.True(t, body.Unlimited)
	assert.Equal(t, 0.0, body.Ride.FareAmount) // passes were paid up front
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_RacingDebitIsConflict(t *testing.T) {
	// The conditional decrement matched zero rows: another transaction
	// took the last ride between our lock and the update.
	h, mock := newTicketMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .+ FROM user_tickets.+FOR UPDATE").
		WithArgs(5, uint64(1)).
		WillReturnRows(activeTicketRow(1))
	mock.ExpectExec("INSERT INTO ride_history").
		WithArgs(uint64(1), uint64(5), "BUS-4-A", 30.0).
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectQuery("SELECT ride_date FROM ride_history").
		WithArgs(uint64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"ride_date"}).AddRow(time.Now()))
	mock.ExpectExec("UPDATE user_tickets").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	rec := redeemRequest(t, h, "5", `{"vehicle_qr":"BUS-4-A"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_FailedRideInsertRollsBack(t *testing.T) {
	h, mock := newTicketMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("(?s)SELECT .+ FROM user_tickets.+FOR UPDATE").
		WithArgs(5, uint64(1)).
		WillReturnRows(activeTicketRow(1))
	mock.ExpectExec("INSERT INTO ride_history").
		WithArgs(uint64(1), uint64(5), "BUS-4-A", 30.0).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	rec := redeemRequest(t, h, "5", `{"vehicle_qr":"BUS-4-A"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// the rollback expectation above is the point: no partial write survives
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeem_MissingVehicleQR(t *testing.T) {
	h, mock := newTicketMock(t)

	rec := redeemRequest(t, h, "5", `{"vehicle_qr":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuy_UnknownTypeRejected(t *testing.T) {
	h, mock := newTicketMock(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(`{"ticket_type":"annual"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	require.NoError(t, h.Buy(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuy_IssuesSingleTicket(t *testing.T) {
	h, mock := newTicketMock(t)

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec("INSERT INTO user_tickets").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT .+ FROM user_tickets WHERE id=").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(7, 1, "single", 30.0, 1, "qr-serial", expires, "active", time.Now()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tickets", strings.NewReader(`{"ticket_type":"single"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	require.NoError(t, h.Buy(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body ticketResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "single", body.Type)
	assert.Equal(t, 30.0, body.Price)
	assert.Equal(t, 1, body.RidesRemaining)
	assert.False(t, body.Unlimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}
