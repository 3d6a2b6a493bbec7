package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

type ConflictReason string

const (
	ReasonOutsideSchedule ConflictReason = "outside_schedule"
	ReasonSlotUnavailable ConflictReason = "slot_unavailable"
	ReasonDoubleBooked    ConflictReason = "double_booked"
)

func (r ConflictReason) Err() error {
	return httperr.ConflictErr(string(r))
}

type AvailabilityInput struct {
	BarberID   string
	LocationID string
	ServiceID  string
	Date       string
}

type TimeSlot struct {
	Start   string    `json:"start"`
	End     string    `json:"end"`
	StartAt time.Time `json:"startAt"`
}

// Overlaps is half-open interval intersection: [aStart,aEnd) ∩ [bStart,bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ParseClock parses an HH:MM time of day into minutes after midnight.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SlotWindow anchors a weekly slot to the calendar day of day in loc.
func SlotWindow(slot *models.ScheduleSlot, day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	startMin, err := ParseClock(slot.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMin, err := ParseClock(slot.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	d := day.In(loc)
	at := func(min int) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), min/60, min%60, 0, 0, loc)
	}
	return at(startMin), at(endMin), nil
}

// CheckSlot is the advisory bookability check for [start, end) against the
// barber's slot for that weekday and the barber's active appointments.
// A nil slot means the barber does not work that day at that location.
func CheckSlot(
	slot *models.ScheduleSlot,
	existing []models.Appointment,
	start, end time.Time,
	loc *time.Location,
) (ConflictReason, bool) {
	if slot == nil {
		return ReasonOutsideSchedule, false
	}
	if !slot.IsAvailable {
		return ReasonSlotUnavailable, false
	}

	winStart, winEnd, err := SlotWindow(slot, start, loc)
	if err != nil || !winStart.Before(winEnd) {
		return ReasonOutsideSchedule, false
	}
	if start.Before(winStart) || end.After(winEnd) {
		return ReasonOutsideSchedule, false
	}

	if HasOverlap(existing, start, end) {
		return ReasonDoubleBooked, false
	}
	return "", true
}

// HasOverlap reports whether any active appointment intersects [start, end).
func HasOverlap(existing []models.Appointment, start, end time.Time) bool {
	for i := range existing {
		ap := &existing[i]
		if !Status(ap.Status).IsActive() {
			continue
		}
		if Overlaps(start, end, ap.StartAt, ap.EndAt) {
			return true
		}
	}
	return false
}

// FreeSlots walks the slot window for day in steps of duration and returns
// the starts that are bookable and not before notBefore.
func FreeSlots(
	slot *models.ScheduleSlot,
	existing []models.Appointment,
	day time.Time,
	duration time.Duration,
	notBefore time.Time,
	loc *time.Location,
) []TimeSlot {
	slots := []TimeSlot{}
	if slot == nil || !slot.IsAvailable || duration <= 0 {
		return slots
	}

	winStart, winEnd, err := SlotWindow(slot, day, loc)
	if err != nil {
		return slots
	}

	for cur := winStart; !cur.Add(duration).After(winEnd); cur = cur.Add(duration) {
		end := cur.Add(duration)
		if cur.Before(notBefore) || HasOverlap(existing, cur, end) {
			continue
		}
		slots = append(slots, TimeSlot{
			Start:   cur.Format("15:04"),
			End:     end.Format("15:04"),
			StartAt: cur,
		})
	}
	return slots
}
