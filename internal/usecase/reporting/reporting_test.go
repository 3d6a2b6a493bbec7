package reporting

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	rdomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/reporting"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
	tf "github.com/BruksfildServices01/barbershop-engine/internal/testfixtures"
)

func seeded(t *testing.T) (*tf.Store, *tf.Clock) {
	t.Helper()

	store := tf.NewStore()
	tf.Seed(store)

	paid := tf.Appointment("ap-1", tf.At(9, 0), domain.StatusCompleted, domain.PaymentPaidAtShop)
	online := tf.Appointment("ap-2", tf.At(10, 0), domain.StatusCompleted, domain.PaymentPrepaidOnline)
	online.BarberID = tf.OtherBarberID
	online.TotalCents = 5000
	refunded := tf.Appointment("ap-3", tf.At(11, 0), domain.StatusCompleted, domain.PaymentRefunded)
	upcoming := tf.Appointment("ap-4", tf.At(12, 0), domain.StatusConfirmed, domain.PaymentUnpaid)
	upcoming.ClientID = tf.OtherClientID
	cancelled := tf.Appointment("ap-5", tf.At(13, 0), domain.StatusCancelled, domain.PaymentUnpaid)

	store.PutAppointment(paid)
	store.PutAppointment(online)
	store.PutAppointment(refunded)
	store.PutAppointment(upcoming)
	store.PutAppointment(cancelled)

	// Mid-January so the month window covers BookingDay in any zone.
	return store, tf.NewClock(time.Date(2030, time.January, 16, 12, 0, 0, 0, time.UTC))
}

func TestAnalyticsMonth(t *testing.T) {
	store, clock := seeded(t)
	uc := NewGetAnalytics(store, nil, clock)

	report, err := uc.Execute(context.Background(), AnalyticsInput{Principal: tf.Owner(), Period: "month"})
	require.NoError(t, err)

	assert.Equal(t, rdomain.PeriodMonth, report.Period)
	assert.Equal(t, int64(8500), report.TotalRevenueCents)
	assert.Equal(t, 2, report.SalesCount)
	require.Len(t, report.TopEarners, 2)
	assert.Equal(t, tf.OtherBarberID, report.TopEarners[0].BarberID)
	assert.Equal(t, "Carla", report.TopEarners[0].BarberName)
	assert.Equal(t, tf.BarberID, report.LowestEarners[0].BarberID)
}

func TestAnalyticsScopeAndPeriod(t *testing.T) {
	store, clock := seeded(t)
	uc := NewGetAnalytics(store, nil, clock)
	ctx := context.Background()

	_, err := uc.Execute(ctx, AnalyticsInput{Principal: tf.Barber(), Period: "month"})
	assert.True(t, httperr.IsBusiness(err, "admin_only"))

	_, err = uc.Execute(ctx, AnalyticsInput{Principal: tf.Owner(), Period: "fortnight"})
	assert.True(t, httperr.IsBusiness(err, "invalid_period"))

	report, err := uc.Execute(ctx, AnalyticsInput{Principal: tf.Manager(), Period: "week"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.SalesCount)

	report, err = uc.Execute(ctx, AnalyticsInput{Principal: tf.Manager(), Period: "day"})
	require.NoError(t, err)
	assert.Zero(t, report.SalesCount, "nothing completed today")

	_, err = uc.Execute(ctx, AnalyticsInput{Principal: tf.Manager(), LocationID: tf.OtherLocationID})
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
}

func TestAnalyticsUsesCache(t *testing.T) {
	store, clock := seeded(t)
	cache := tf.NewCache()
	uc := NewGetAnalytics(store, cache, clock)
	ctx := context.Background()

	first, err := uc.Execute(ctx, AnalyticsInput{Principal: tf.Owner(), Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Sets)

	store.PutAppointment(tf.Appointment("ap-9", tf.At(15, 0), domain.StatusCompleted, domain.PaymentPaidAtShop))

	second, err := uc.Execute(ctx, AnalyticsInput{Principal: tf.Owner(), Period: "month"})
	require.NoError(t, err)
	assert.Equal(t, first.TotalRevenueCents, second.TotalRevenueCents, "served from cache")
	assert.Equal(t, 1, cache.Sets)
}

func TestExportAnalytics(t *testing.T) {
	store, clock := seeded(t)
	archive := tf.NewArchive()
	rec := &tf.AuditRecorder{}
	d := audit.NewDispatcher(rec)

	uc := NewExportAnalytics(NewGetAnalytics(store, nil, clock), archive, d, clock)
	out, err := uc.Execute(context.Background(), AnalyticsInput{Principal: tf.Owner(), Period: "month"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.Key, "reports/analytics/all/month/"))
	body, ok := archive.Objects[out.Key]
	require.True(t, ok)

	var report rdomain.Report
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, int64(8500), report.TotalRevenueCents)

	d.Close()
	assert.Equal(t, []string{"analytics_exported"}, rec.Actions())
}

func TestExportAnalyticsWithoutArchive(t *testing.T) {
	store, clock := seeded(t)
	uc := NewExportAnalytics(NewGetAnalytics(store, nil, clock), nil, nil, clock)

	_, err := uc.Execute(context.Background(), AnalyticsInput{Principal: tf.Owner()})
	assert.Equal(t, httperr.KindUnavailable, httperr.KindOf(err))
}

func TestClientHistoryView(t *testing.T) {
	store, _ := seeded(t)
	uc := NewClientHistory(store)

	rows, err := uc.Execute(context.Background(), ClientHistoryInput{Principal: tf.Barber()})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tf.OtherClientID, rows[0].ClientID, "most recent first")
	assert.Equal(t, "Dan", rows[0].ClientName)
	assert.Equal(t, tf.ClientID, rows[1].ClientID)
	assert.Equal(t, 2, rows[1].AppointmentCount)

	_, err = uc.Execute(context.Background(), ClientHistoryInput{Principal: tf.Client()})
	assert.True(t, httperr.IsBusiness(err, "staff_only"))
}

func TestScheduledCutsView(t *testing.T) {
	store, _ := seeded(t)
	clock := tf.NewClock(tf.BookingDay())
	uc := NewScheduledCuts(store, clock)

	aps, err := uc.Execute(context.Background(), ScheduledCutsInput{Principal: tf.Manager()})
	require.NoError(t, err)

	var ids []string
	for _, ap := range aps {
		ids = append(ids, ap.ID)
	}
	assert.Equal(t, []string{"ap-1", "ap-2", "ap-3", "ap-4"}, ids)

	from, to := tf.At(12, 0), tf.At(9, 0)
	_, err = uc.Execute(context.Background(), ScheduledCutsInput{Principal: tf.Owner(), From: &from, To: &to})
	assert.Error(t, err)
}

func TestPayrollPreviewUseCase(t *testing.T) {
	store, clock := seeded(t)
	uc := NewPayrollPreview(store, clock)
	ctx := context.Background()

	out, err := uc.Execute(ctx, PayrollPreviewInput{Principal: tf.Owner(), Period: "month", CommissionRatePercent: 50})
	require.NoError(t, err)
	require.Len(t, out.Lines, 2)

	byBarber := map[string]rdomain.PayrollLine{}
	for _, l := range out.Lines {
		byBarber[l.BarberID] = l
	}
	assert.Equal(t, int64(1750), byBarber[tf.BarberID].CommissionCents)
	assert.Equal(t, int64(2500), byBarber[tf.OtherBarberID].CommissionCents)

	_, err = uc.Execute(ctx, PayrollPreviewInput{Principal: tf.Manager(), Period: "month"})
	assert.True(t, httperr.IsBusiness(err, "admin_only"))

	_, err = uc.Execute(ctx, PayrollPreviewInput{Principal: tf.Owner(), CommissionRatePercent: 101})
	assert.True(t, httperr.IsBusiness(err, "invalid_commission_rate"))
}

func TestDashboardStats(t *testing.T) {
	store, clock := seeded(t)
	ctx := context.Background()

	elsewhere := tf.Appointment("ap-6", tf.At(9, 0), domain.StatusCompleted, domain.PaymentPaidAtShop)
	elsewhere.LocationID = tf.OtherLocationID
	elsewhere.BarberID = "b0000000-0000-0000-0000-00000000aaaa"
	store.PutAppointment(elsewhere)

	uptown := tf.OtherLocationID
	store.AddUser(models.User{ID: "u-uptown", LocationID: &uptown, Name: "Eli", Email: "eli@example.com", Role: "barber", IsActive: true})
	store.AddUser(models.User{ID: "u-gone", LocationID: &uptown, Name: "Fay", Email: "fay@example.com", Role: "barber"})

	// Today is BookingDay 10:30: ap-1 and ap-2 have started, ap-3 has not.
	clock.Set(tf.At(10, 30))
	uc := NewGetDashboardStats(store, store, clock)

	stats, err := uc.Execute(ctx, DashboardInput{Principal: tf.Owner(), LocationID: tf.LocationID})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalAppointments, "completed only")
	assert.Equal(t, 2, stats.CompletedToday)
	assert.Equal(t, int64(8500), stats.TotalRevenueCents, "refunded ap-3 excluded")
	assert.Equal(t, int64(3), stats.StaffCount, "two barbers and a manager")

	all, err := uc.Execute(ctx, DashboardInput{Principal: tf.Owner()})
	require.NoError(t, err)
	assert.Equal(t, 4, all.TotalAppointments)
	assert.Equal(t, int64(12000), all.TotalRevenueCents)
	assert.Equal(t, int64(4), all.StaffCount, "inactive staff not counted")

	clock.Set(time.Date(2030, time.January, 16, 12, 0, 0, 0, time.UTC))
	later, err := uc.Execute(ctx, DashboardInput{Principal: tf.Owner(), LocationID: tf.LocationID})
	require.NoError(t, err)
	assert.Zero(t, later.CompletedToday)
	assert.Equal(t, 3, later.TotalAppointments)

	_, err = uc.Execute(ctx, DashboardInput{Principal: tf.Manager()})
	assert.True(t, httperr.IsBusiness(err, "admin_only"))
}
