package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-pass/internal/model"
)

func at(t *testing.T, hhmmss string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02 15:04:05", "2026-03-02 "+hhmmss) // a Monday
	require.NoError(t, err)
	return tm
}

func TestCurrentDayType(t *testing.T) {
	monday := at(t, "10:00:00")
	assert.Equal(t, model.DayTypeWeekday, CurrentDayType(monday))
	assert.Equal(t, model.DayTypeWeekday, CurrentDayType(monday.AddDate(0, 0, 4))) // Friday
	assert.Equal(t, model.DayTypeWeekend, CurrentDayType(monday.AddDate(0, 0, 5))) // Saturday
	assert.Equal(t, model.DayTypeWeekend, CurrentDayType(monday.AddDate(0, 0, 6))) // Sunday
}

func TestUpcomingDepartures_OrderAndWait(t *testing.T) {
	rows := []ScheduleStopRow{
		{StopName: "Central Market", ArrivalTime: "10:45:00"},
		{StopName: "Central Market", ArrivalTime: "10:15:00"},
		{StopName: "University", ArrivalTime: "11:00:00"},
	}
	got := UpcomingDepartures(rows, at(t, "10:00:00"), 5)

	require.Len(t, got, 3)
	assert.Equal(t, "10:15:00", got[0].ArrivalTime)
	assert.Equal(t, 15, got[0].MinutesUntil)
	assert.Equal(t, "10:45:00", got[1].ArrivalTime)
	assert.Equal(t, 45, got[1].MinutesUntil)
	assert.Equal(t, "11:00:00", got[2].ArrivalTime)
	assert.Equal(t, 60, got[2].MinutesUntil)
}

func TestUpcomingDepartures_MidnightWrap(t *testing.T) {
	// Late in the evening an early-morning arrival counts as tomorrow's
	// occurrence, not a negative wait.
	rows := []ScheduleStopRow{
		{StopName: "Depot", ArrivalTime: "06:30:00"},
		{StopName: "Depot", ArrivalTime: "23:50:00"},
	}
	got := UpcomingDepartures(rows, at(t, "23:40:00"), 5)

	require.Len(t, got, 2)
	assert.Equal(t, "23:50:00", got[0].ArrivalTime)
	assert.Equal(t, 10, got[0].MinutesUntil)
	assert.Equal(t, "06:30:00", got[1].ArrivalTime)
	assert.Equal(t, 6*60+50, got[1].MinutesUntil)
}

func TestUpcomingDepartures_DropsDueNow(t *testing.T) {
	rows := []ScheduleStopRow{
		{StopName: "Depot", ArrivalTime: "10:00:00"}, // exactly now: not upcoming
		{StopName: "Depot", ArrivalTime: "10:00:30"},
	}
	got := UpcomingDepartures(rows, at(t, "10:00:00"), 5)

	require.Len(t, got, 1)
	assert.Equal(t, "10:00:30", got[0].ArrivalTime)
	assert.Equal(t, 0, got[0].MinutesUntil) // 30s away rounds down to 0 minutes
}

func TestUpcomingDepartures_SubMinuteOrdering(t *testing.T) {
	// Two arrivals inside the same displayed minute still sort by their
	// actual wait, not by the order the timetable rows came in.
	rows := []ScheduleStopRow{
		{StopName: "University", ArrivalTime: "10:00:40"},
		{StopName: "Central Market", ArrivalTime: "10:00:20"},
	}
	got := UpcomingDepartures(rows, at(t, "10:00:00"), 5)

	require.Len(t, got, 2)
	assert.Equal(t, "10:00:20", got[0].ArrivalTime)
	assert.Equal(t, "10:00:40", got[1].ArrivalTime)
	assert.Equal(t, 0, got[0].MinutesUntil)
	assert.Equal(t, 0, got[1].MinutesUntil)
}

func TestUpcomingDepartures_Limit(t *testing.T) {
	rows := make([]ScheduleStopRow, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, ScheduleStopRow{
			StopName:    "Stop",
			ArrivalTime: time.Date(0, 1, 1, 12+i, 0, 0, 0, time.UTC).Format("15:04:05"),
		})
	}
	got := UpcomingDepartures(rows, at(t, "10:00:00"), 5)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].MinutesUntil, got[i-1].MinutesUntil)
	}
}

func TestUpcomingDepartures_SkipsMalformedTimes(t *testing.T) {
	rows := []ScheduleStopRow{
		{StopName: "Depot", ArrivalTime: "not-a-time"},
		{StopName: "Depot", ArrivalTime: "10:30:00"},
	}
	got := UpcomingDepartures(rows, at(t, "10:00:00"), 5)
	require.Len(t, got, 1)
	assert.Equal(t, "10:30:00", got[0].ArrivalTime)
}
