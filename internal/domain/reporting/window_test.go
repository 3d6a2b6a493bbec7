package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("decade")
	assert.True(t, httperr.IsBusiness(err, "invalid_period"))
}

func TestWindowFor(t *testing.T) {
	// Thursday
	ref := time.Date(2030, time.January, 17, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		period   Period
		from, to time.Time
	}{
		{PeriodDay, time.Date(2030, 1, 17, 0, 0, 0, 0, time.UTC), time.Date(2030, 1, 18, 0, 0, 0, 0, time.UTC)},
		{PeriodWeek, time.Date(2030, 1, 14, 0, 0, 0, 0, time.UTC), time.Date(2030, 1, 21, 0, 0, 0, 0, time.UTC)},
		{PeriodMonth, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)},
		{PeriodYear, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			w := WindowFor(tt.period, ref, time.UTC)
			assert.True(t, tt.from.Equal(w.From), "from %s", w.From)
			assert.True(t, tt.to.Equal(w.To), "to %s", w.To)
			assert.True(t, w.Contains(ref))
			assert.False(t, w.Contains(w.To))
		})
	}
}

func TestWindowForSundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2030, time.January, 20, 23, 0, 0, 0, time.UTC)
	w := WindowFor(PeriodWeek, sunday, time.UTC)
	assert.Equal(t, time.Monday, w.From.Weekday())
	assert.Equal(t, 14, w.From.Day())
}

func TestWindowForUsesLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 03:00 UTC on the 18th is still the 17th in Chicago.
	ref := time.Date(2030, time.January, 18, 3, 0, 0, 0, time.UTC)
	w := WindowFor(PeriodDay, ref, chicago)
	assert.Equal(t, 17, w.From.Day())
	assert.Equal(t, chicago, w.From.Location())
}
