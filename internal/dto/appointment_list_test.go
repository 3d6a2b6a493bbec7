package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

func TestFromAppointmentCarriesStamps(t *testing.T) {
	created := time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)
	cancelled := created.Add(time.Hour)
	refunder := "e0000000-0000-0000-0000-000000000001"

	ap := models.Appointment{
		ID:            "ap-1",
		Status:        "cancelled",
		PaymentStatus: "refunded",
		TotalCents:    3500,
		RefundCents:   3500,
		CreatedBy:     "c0000000-0000-0000-0000-000000000001",
		CreatedAt:     created,
		CancelledAt:   &cancelled,
		RefundedAt:    &cancelled,
		RefundedBy:    &refunder,
		Client:        &models.User{Name: "Ana"},
		Barber:        &models.User{Name: "Bruno"},
		Service:       &models.Service{Name: "Cut"},
	}

	out := FromAppointments([]models.Appointment{ap})
	require.Len(t, out, 1)
	assert.Equal(t, "Ana", out[0].ClientName)
	assert.Equal(t, "Bruno", out[0].BarberName)
	assert.Equal(t, "Cut", out[0].ServiceName)

	raw, err := json.Marshal(out[0])
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "2030-01-07T08:00:00Z", fields["createdAt"])
	assert.Equal(t, "2030-01-07T09:00:00Z", fields["cancelledAt"])
	assert.Equal(t, "2030-01-07T09:00:00Z", fields["refundedAt"])
	assert.Equal(t, refunder, fields["refundedBy"])
	assert.Equal(t, ap.CreatedBy, fields["createdBy"])
}

func TestFromAppointmentsEmpty(t *testing.T) {
	raw, err := json.Marshal(FromAppointments(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}
