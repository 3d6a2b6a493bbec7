package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

func mondaySlot() *models.ScheduleSlot {
	return &models.ScheduleSlot{
		UserID:      "barber-1",
		LocationID:  "loc-1",
		DayOfWeek:   int(time.Monday),
		StartTime:   "09:00",
		EndTime:     "12:00",
		IsAvailable: true,
	}
}

func at(h, m int) time.Time {
	return time.Date(2030, time.January, 14, h, m, 0, 0, time.UTC)
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	assert.True(t, Overlaps(at(9, 0), at(9, 30), at(9, 15), at(9, 45)))
	assert.False(t, Overlaps(at(9, 0), at(9, 30), at(9, 30), at(10, 0)), "touching intervals")
}

func TestCheckSlot(t *testing.T) {
	booked := []models.Appointment{*newAppointment(StatusConfirmed, PaymentUnpaid)}
	cancelled := []models.Appointment{*newAppointment(StatusCancelled, PaymentUnpaid)}

	unavailable := mondaySlot()
	unavailable.IsAvailable = false

	tests := []struct {
		name     string
		slot     *models.ScheduleSlot
		existing []models.Appointment
		start    time.Time
		reason   ConflictReason
	}{
		{"free", mondaySlot(), nil, at(10, 0), ""},
		{"no slot", nil, nil, at(10, 0), ReasonOutsideSchedule},
		{"slot off", unavailable, nil, at(10, 0), ReasonSlotUnavailable},
		{"before opening", mondaySlot(), nil, at(8, 45), ReasonOutsideSchedule},
		{"runs past closing", mondaySlot(), nil, at(11, 45), ReasonOutsideSchedule},
		{"ends at closing", mondaySlot(), nil, at(11, 30), ""},
		{"overlaps booking", mondaySlot(), booked, at(9, 15), ReasonDoubleBooked},
		{"after booking", mondaySlot(), booked, at(9, 30), ""},
		{"cancelled frees time", mondaySlot(), cancelled, at(9, 0), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := CheckSlot(tt.slot, tt.existing, tt.start, tt.start.Add(30*time.Minute), time.UTC)
			assert.Equal(t, tt.reason == "", ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFreeSlots(t *testing.T) {
	booked := []models.Appointment{*newAppointment(StatusPending, PaymentUnpaid)}

	slots := FreeSlots(mondaySlot(), booked, at(0, 0), 30*time.Minute, at(0, 0), time.UTC)

	var starts []string
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00", "11:30"}, starts)

	later := FreeSlots(mondaySlot(), nil, at(0, 0), time.Hour, at(10, 30), time.UTC)
	require.Len(t, later, 1)
	assert.Equal(t, "11:00", later[0].Start)
	assert.Equal(t, "12:00", later[0].End)

	assert.Empty(t, FreeSlots(nil, nil, at(0, 0), time.Hour, at(0, 0), time.UTC))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	_, err = ParseClock("9h")
	assert.Error(t, err)
}
