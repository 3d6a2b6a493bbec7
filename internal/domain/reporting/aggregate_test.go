package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

var january = Window{
	From: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
}

func sale(barberID, name string, day int, cents int64, status, pay string) models.Appointment {
	start := time.Date(2030, 1, day, 10, 0, 0, 0, time.UTC)
	return models.Appointment{
		ID:            barberID + start.Format("02"),
		ClientID:      "client-" + barberID,
		BarberID:      barberID,
		Barber:        &models.User{ID: barberID, Name: name},
		StartAt:       start,
		EndAt:         start.Add(30 * time.Minute),
		Status:        status,
		PaymentStatus: pay,
		TotalCents:    cents,
	}
}

func fixture() []models.Appointment {
	return []models.Appointment{
		sale("b1", "Bruno", 3, 3500, "completed", "paid_at_shop"),
		sale("b2", "Carla", 4, 5000, "completed", "prepaid_online"),
		sale("b1", "Bruno", 5, 3500, "completed", "prepaid_online"),
		sale("b3", "Dora", 6, 1000, "completed", "paid_at_shop"),
		// Not sales
		sale("b2", "Carla", 7, 9999, "completed", "refunded"),
		sale("b3", "Dora", 8, 9999, "confirmed", "prepaid_online"),
		sale("b1", "Bruno", 9, 9999, "cancelled", "refunded"),
		// Outside window
		{
			BarberID: "b1", Status: "completed", PaymentStatus: "paid_at_shop", TotalCents: 9999,
			StartAt: time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestRevenueCountsCompletedAndCollectedOnly(t *testing.T) {
	total, count := Revenue(fixture(), january)
	assert.Equal(t, int64(13000), total)
	assert.Equal(t, 4, count)
}

func TestEarnersRanking(t *testing.T) {
	earners := Earners(fixture(), january)
	require.Len(t, earners, 3)

	top := TopEarners(earners, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b1", top[0].BarberID)
	assert.Equal(t, int64(7000), top[0].TotalCents)
	assert.Equal(t, 2, top[0].SalesCount)
	assert.Equal(t, "Bruno", top[0].BarberName)
	assert.Equal(t, "b2", top[1].BarberID)

	low := LowestEarners(earners, 5)
	require.Len(t, low, 3)
	assert.Equal(t, "b3", low[0].BarberID)
	assert.Equal(t, "b1", low[2].BarberID)
}

func TestBuildReportEmpty(t *testing.T) {
	r := BuildReport(PeriodMonth, january, nil)
	assert.Zero(t, r.TotalRevenueCents)
	assert.NotNil(t, r.TopEarners)
	assert.NotNil(t, r.LowestEarners)
	assert.Empty(t, r.TopEarners)
}

func TestClientHistory(t *testing.T) {
	aps := []models.Appointment{
		sale("b1", "Bruno", 3, 3500, "completed", "paid_at_shop"),
		sale("b1", "Bruno", 10, 3500, "confirmed", "unpaid"),
		sale("b2", "Carla", 5, 3500, "cancelled", "unpaid"),
	}

	rows := ClientHistory(aps)
	require.Len(t, rows, 1, "cancelled appointments are not history")
	assert.Equal(t, "client-b1", rows[0].ClientID)
	assert.Equal(t, 2, rows[0].AppointmentCount)
	assert.Equal(t, 10, rows[0].LastAppointmentAt.Day())
}

func TestScheduledCuts(t *testing.T) {
	cuts := ScheduledCuts(fixture(), january)
	for _, c := range cuts {
		assert.NotEqual(t, "cancelled", c.Status)
		assert.True(t, january.Contains(c.StartAt))
	}
	assert.Len(t, cuts, 6)
}

func TestPayrollPreviewFloorsCommission(t *testing.T) {
	aps := []models.Appointment{
		sale("b1", "Bruno", 3, 3333, "completed", "paid_at_shop"),
	}

	lines := PayrollPreview(aps, january, 40)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3333), lines[0].GrossCents)
	assert.Equal(t, int64(1333), lines[0].CommissionCents)
	assert.Equal(t, 40, lines[0].CommissionRatePercent)
}
