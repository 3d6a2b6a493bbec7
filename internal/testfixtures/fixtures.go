package testfixtures

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

const (
	LocationID      = "11111111-1111-1111-1111-111111111111"
	OtherLocationID = "22222222-2222-2222-2222-222222222222"

	BarberID      = "b0000000-0000-0000-0000-000000000001"
	OtherBarberID = "b0000000-0000-0000-0000-000000000002"
	ClientID      = "c0000000-0000-0000-0000-000000000001"
	OtherClientID = "c0000000-0000-0000-0000-000000000002"
	ManagerID     = "d0000000-0000-0000-0000-000000000001"
	OwnerID       = "e0000000-0000-0000-0000-000000000001"

	CutServiceID = "5e000000-0000-0000-0000-000000000001"
	CutPrice     = int64(3500)
	CutMinutes   = 30
)

// BookingDay is the Monday one week after ReferenceTime.
func BookingDay() time.Time {
	return time.Date(2030, time.January, 14, 0, 0, 0, 0, time.UTC)
}

// At returns hh:mm on BookingDay in UTC.
func At(hour, minute int) time.Time {
	d := BookingDay()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

// Seed fills s with two UTC locations, staff, clients and a 30 minute
// cut. Barber works Mondays 09:00-18:00 at LocationID.
func Seed(s *Store) {
	s.AddLocation(models.Location{ID: LocationID, Name: "Downtown", Timezone: "UTC", IsActive: true})
	s.AddLocation(models.Location{ID: OtherLocationID, Name: "Uptown", Timezone: "UTC", IsActive: true})

	home := LocationID
	s.AddUser(models.User{ID: BarberID, LocationID: &home, Name: "Bruno", Email: "bruno@example.com", Role: "barber", IsActive: true})
	s.AddUser(models.User{ID: OtherBarberID, LocationID: &home, Name: "Carla", Email: "carla@example.com", Role: "barber", IsActive: true})
	s.AddUser(models.User{ID: ManagerID, LocationID: &home, Name: "Mia", Email: "mia@example.com", Role: "manager", IsActive: true})
	s.AddUser(models.User{ID: OwnerID, Name: "Otto", Email: "otto@example.com", Role: "owner", IsActive: true})
	s.AddUser(models.User{ID: ClientID, Name: "Ana", Email: "ana@example.com", Role: "client", IsActive: true})
	s.AddUser(models.User{ID: OtherClientID, Name: "Dan", Email: "dan@example.com", Role: "client", IsActive: true})

	s.AddService(models.Service{
		ID:              CutServiceID,
		Name:            "Cut",
		DurationMinutes: CutMinutes,
		PriceCents:      CutPrice,
		IsActive:        true,
	})

	for _, barber := range []string{BarberID, OtherBarberID} {
		_ = s.UpsertScheduleSlot(context.Background(), &models.ScheduleSlot{
			UserID:      barber,
			LocationID:  LocationID,
			DayOfWeek:   int(time.Monday),
			StartTime:   "09:00",
			EndTime:     "18:00",
			IsAvailable: true,
		})
	}
}

func Client() domain.Principal {
	return domain.Principal{UserID: ClientID, Role: domain.RoleClient}
}

func OtherClient() domain.Principal {
	return domain.Principal{UserID: OtherClientID, Role: domain.RoleClient}
}

func Barber() domain.Principal {
	return domain.Principal{UserID: BarberID, Role: domain.RoleBarber, LocationID: LocationID}
}

func OtherBarber() domain.Principal {
	return domain.Principal{UserID: OtherBarberID, Role: domain.RoleBarber, LocationID: LocationID}
}

func Manager() domain.Principal {
	return domain.Principal{UserID: ManagerID, Role: domain.RoleManager, LocationID: LocationID}
}

func Owner() domain.Principal {
	return domain.Principal{UserID: OwnerID, Role: domain.RoleOwner}
}

// Appointment builds a cut for Barber and Client starting at start.
func Appointment(id string, start time.Time, status domain.Status, pay domain.PaymentStatus) models.Appointment {
	return models.Appointment{
		ID:            id,
		LocationID:    LocationID,
		ClientID:      ClientID,
		BarberID:      BarberID,
		ServiceID:     CutServiceID,
		StartAt:       start,
		EndAt:         start.Add(CutMinutes * time.Minute),
		Status:        string(status),
		PaymentStatus: string(pay),
		TotalCents:    CutPrice,
		CreatedBy:     ClientID,
		CreatedAt:     ReferenceTime(),
	}
}
