package reporting

import (
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

const DefaultEarnersLimit = 5

type Earner struct {
	BarberID   string `json:"barberId"`
	BarberName string `json:"barberName"`
	TotalCents int64  `json:"totalCents"`
	SalesCount int    `json:"salesCount"`
}

type Report struct {
	Period            Period    `json:"period"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	TotalRevenueCents int64     `json:"totalRevenueCents"`
	SalesCount        int       `json:"salesCount"`
	TopEarners        []Earner  `json:"topEarners"`
	LowestEarners     []Earner  `json:"lowestEarners"`
}

// IsSale reports whether ap counts toward revenue: the service was rendered
// and money is held for it.
func IsSale(ap *models.Appointment) bool {
	return domain.Status(ap.Status) == domain.StatusCompleted &&
		domain.PaymentStatus(ap.PaymentStatus).IsCollected()
}

func sales(aps []models.Appointment, w Window) []models.Appointment {
	out := make([]models.Appointment, 0, len(aps))
	for i := range aps {
		if IsSale(&aps[i]) && w.Contains(aps[i].StartAt) {
			out = append(out, aps[i])
		}
	}
	return out
}

// Revenue sums totalCents over sales in w.
func Revenue(aps []models.Appointment, w Window) (int64, int) {
	var total int64
	s := sales(aps, w)
	for i := range s {
		total += s[i].TotalCents
	}
	return total, len(s)
}

// Earners groups sales in w by barber, keeping first-seen order.
func Earners(aps []models.Appointment, w Window) []Earner {
	idx := make(map[string]int)
	var out []Earner
	for _, ap := range sales(aps, w) {
		i, ok := idx[ap.BarberID]
		if !ok {
			i = len(out)
			idx[ap.BarberID] = i
			out = append(out, Earner{BarberID: ap.BarberID, BarberName: barberName(&ap)})
		}
		out[i].TotalCents += ap.TotalCents
		out[i].SalesCount++
	}
	return out
}

func TopEarners(earners []Earner, limit int) []Earner {
	sorted := append([]Earner(nil), earners...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCents > sorted[j].TotalCents
	})
	return head(sorted, limit)
}

func LowestEarners(earners []Earner, limit int) []Earner {
	sorted := append([]Earner(nil), earners...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCents < sorted[j].TotalCents
	})
	return head(sorted, limit)
}

func head(e []Earner, limit int) []Earner {
	if limit > 0 && len(e) > limit {
		e = e[:limit]
	}
	if e == nil {
		return []Earner{}
	}
	return e
}

// BuildReport folds aps into the analytics view for w.
func BuildReport(period Period, w Window, aps []models.Appointment) Report {
	total, count := Revenue(aps, w)
	earners := Earners(aps, w)

	return Report{
		Period:            period,
		From:              w.From,
		To:                w.To,
		TotalRevenueCents: total,
		SalesCount:        count,
		TopEarners:        TopEarners(earners, DefaultEarnersLimit),
		LowestEarners:     LowestEarners(earners, DefaultEarnersLimit),
	}
}

// ===============================
// Dashboard
// ===============================

type DashboardStats struct {
	TotalAppointments int   `json:"totalAppointments"`
	CompletedToday    int   `json:"completedToday"`
	TotalRevenueCents int64 `json:"totalRevenueCents"`
	StaffCount        int64 `json:"staffCount"`
}

// Dashboard folds completed appointments into the headline counters.
// CompletedToday counts starts inside today up to now.
func Dashboard(aps []models.Appointment, today Window, now time.Time, staffCount int64) DashboardStats {
	out := DashboardStats{StaffCount: staffCount}
	for i := range aps {
		ap := &aps[i]
		if domain.Status(ap.Status) != domain.StatusCompleted {
			continue
		}
		out.TotalAppointments++
		if today.Contains(ap.StartAt) && !ap.StartAt.After(now) {
			out.CompletedToday++
		}
		if IsSale(ap) {
			out.TotalRevenueCents += ap.TotalCents
		}
	}
	return out
}

// ===============================
// Client history
// ===============================

type ClientHistoryRow struct {
	ClientID          string    `json:"clientId"`
	ClientName        string    `json:"clientName"`
	ClientEmail       string    `json:"clientEmail"`
	LastAppointmentAt time.Time `json:"lastAppointmentAt"`
	LastServiceID     string    `json:"lastServiceId"`
	LastServiceName   string    `json:"lastServiceName"`
	AppointmentCount  int       `json:"appointmentCount"`
}

// ClientHistory summarises each client's active appointments, most recent
// client first.
func ClientHistory(aps []models.Appointment) []ClientHistoryRow {
	idx := make(map[string]int)
	rows := []ClientHistoryRow{}

	for i := range aps {
		ap := &aps[i]
		if !domain.Status(ap.Status).IsActive() {
			continue
		}

		j, ok := idx[ap.ClientID]
		if !ok {
			j = len(rows)
			idx[ap.ClientID] = j
			rows = append(rows, ClientHistoryRow{ClientID: ap.ClientID})
		}

		row := &rows[j]
		row.AppointmentCount++
		if row.AppointmentCount == 1 || ap.StartAt.After(row.LastAppointmentAt) {
			row.LastAppointmentAt = ap.StartAt
			row.LastServiceID = ap.ServiceID
			if ap.Service != nil {
				row.LastServiceName = ap.Service.Name
			}
		}
		if ap.Client != nil {
			row.ClientName = ap.Client.Name
			row.ClientEmail = ap.Client.Email
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LastAppointmentAt.After(rows[j].LastAppointmentAt)
	})
	return rows
}

// ScheduledCuts returns active appointments starting in w, soonest first.
func ScheduledCuts(aps []models.Appointment, w Window) []models.Appointment {
	out := []models.Appointment{}
	for i := range aps {
		if domain.Status(aps[i].Status).IsActive() && w.Contains(aps[i].StartAt) {
			out = append(out, aps[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartAt.Before(out[j].StartAt)
	})
	return out
}

// ===============================
// Payroll
// ===============================

type PayrollLine struct {
	BarberID              string `json:"barberId"`
	BarberName            string `json:"barberName"`
	SalesCount            int    `json:"salesCount"`
	GrossCents            int64  `json:"grossCents"`
	CommissionRatePercent int    `json:"commissionRatePercent"`
	CommissionCents       int64  `json:"commissionCents"`
}

// PayrollPreview computes per-barber gross and commission for sales in w.
// Commission is floored to whole cents.
func PayrollPreview(aps []models.Appointment, w Window, ratePercent int) []PayrollLine {
	earners := Earners(aps, w)
	lines := make([]PayrollLine, 0, len(earners))
	for _, e := range earners {
		lines = append(lines, PayrollLine{
			BarberID:              e.BarberID,
			BarberName:            e.BarberName,
			SalesCount:            e.SalesCount,
			GrossCents:            e.TotalCents,
			CommissionRatePercent: ratePercent,
			CommissionCents:       e.TotalCents * int64(ratePercent) / 100,
		})
	}
	return lines
}

func barberName(ap *models.Appointment) string {
	if ap.Barber != nil {
		return ap.Barber.Name
	}
	return ""
}
