package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// Store is an in-memory Repository, ScheduleRepository and report Source.
// A single mutex stands in for the row and advisory locks of the database.
type Store struct {
	mu sync.Mutex

	services     map[string]models.Service
	locations    map[string]models.Location
	users        map[string]models.User
	slots        map[string]models.ScheduleSlot
	appointments map[string]models.Appointment

	// Mutations counts successful MutateAppointment commits.
	Mutations int
}

func NewStore() *Store {
	return &Store{
		services:     make(map[string]models.Service),
		locations:    make(map[string]models.Location),
		users:        make(map[string]models.User),
		slots:        make(map[string]models.ScheduleSlot),
		appointments: make(map[string]models.Appointment),
	}
}

// ======================================================
// Seeding
// ======================================================

func (s *Store) AddService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) AddLocation(loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

func (s *Store) AddUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutAppointment stores ap as-is, bypassing the overlap check.
func (s *Store) PutAppointment(ap models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	s.appointments[ap.ID] = ap
}

// Appointment returns a copy of the stored appointment.
func (s *Store) Appointment(id string) (models.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.appointments[id]
	return ap, ok
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appointments)
}

func slotKey(userID, locationID string, day int) string {
	return fmt.Sprintf("%s|%s|%d", userID, locationID, day)
}

// ======================================================
// Catalog
// ======================================================

func (s *Store) GetService(_ context.Context, id string) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return &svc, nil
}

func (s *Store) GetLocation(_ context.Context, id string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, httperr.NotFoundErr("location_not_found")
	}
	return &loc, nil
}

// ======================================================
// Schedule
// ======================================================

func (s *Store) GetScheduleSlot(_ context.Context, userID, locationID string, dayOfWeek int) (*models.ScheduleSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotKey(userID, locationID, dayOfWeek)]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (s *Store) UpsertScheduleSlot(_ context.Context, slot *models.ScheduleSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := slotKey(slot.UserID, slot.LocationID, slot.DayOfWeek)
	if prev, ok := s.slots[key]; ok {
		slot.ID = prev.ID
		slot.CreatedAt = prev.CreatedAt
	} else if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	s.slots[key] = *slot
	return nil
}

func (s *Store) ListScheduleSlots(_ context.Context, userID, locationID string) ([]models.ScheduleSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.ScheduleSlot{}
	for _, slot := range s.slots {
		if userID != "" && slot.UserID != userID {
			continue
		}
		if locationID != "" && slot.LocationID != locationID {
			continue
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// ======================================================
// Appointments
// ======================================================

func (s *Store) activeForBarber(barberID string, from, to time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.BarberID != barberID || !domain.Status(ap.Status).IsActive() {
			continue
		}
		if domain.Overlaps(ap.StartAt, ap.EndAt, from, to) {
			out = append(out, ap)
		}
	}
	sortAppointments(out)
	return out
}

func (s *Store) ListActiveForBarber(_ context.Context, barberID string, from, to time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeForBarber(barberID, from, to), nil
}

func (s *Store) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.activeForBarber(ap.BarberID, ap.StartAt, ap.EndAt)) > 0 {
		return domain.ReasonDoubleBooked.Err()
	}
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	s.appointments[ap.ID] = *ap
	return nil
}

func (s *Store) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.appointments[id]
	if !ok {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return &ap, nil
}

func (s *Store) FindByPaymentIntent(_ context.Context, intentID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range s.appointments {
		if ap.PaymentIntentID != nil && *ap.PaymentIntentID == intentID {
			return &ap, nil
		}
	}
	return nil, httperr.NotFoundErr("appointment_not_found")
}

// MutateAppointment works on a copy and commits it only when fn succeeds.
func (s *Store) MutateAppointment(
	_ context.Context,
	id string,
	fn func(ap *models.Appointment) error,
) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	if err := fn(&ap); err != nil {
		return nil, err
	}
	s.appointments[id] = ap
	s.Mutations++

	out := ap
	return &out, nil
}

func (s *Store) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[string]bool, len(f.Statuses))
	for _, st := range f.Statuses {
		statuses[string(st)] = true
	}

	out := []models.Appointment{}
	for _, ap := range s.appointments {
		switch {
		case f.LocationID != "" && ap.LocationID != f.LocationID,
			f.ClientID != "" && ap.ClientID != f.ClientID,
			f.BarberID != "" && ap.BarberID != f.BarberID,
			f.From != nil && ap.StartAt.Before(*f.From),
			f.To != nil && !ap.StartAt.Before(*f.To),
			f.ActiveOnly && !domain.Status(ap.Status).IsActive(),
			len(statuses) > 0 && !statuses[ap.Status]:
			continue
		}
		out = append(out, s.preload(ap))
	}
	sortAppointments(out)
	return out, nil
}

func (s *Store) CountStaff(_ context.Context, locationID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, u := range s.users {
		if !u.IsActive || (u.Role != string(domain.RoleBarber) && u.Role != string(domain.RoleManager)) {
			continue
		}
		if locationID != "" && (u.LocationID == nil || *u.LocationID != locationID) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *Store) preload(ap models.Appointment) models.Appointment {
	if u, ok := s.users[ap.ClientID]; ok {
		ap.Client = &u
	}
	if u, ok := s.users[ap.BarberID]; ok {
		ap.Barber = &u
	}
	if svc, ok := s.services[ap.ServiceID]; ok {
		ap.Service = &svc
	}
	return ap
}

func sortAppointments(aps []models.Appointment) {
	sort.SliceStable(aps, func(i, j int) bool {
		if !aps[i].StartAt.Equal(aps[j].StartAt) {
			return aps[i].StartAt.Before(aps[j].StartAt)
		}
		return aps[i].CreatedAt.Before(aps[j].CreatedAt)
	})
}

var (
	_ domain.Repository         = (*Store)(nil)
	_ domain.ScheduleRepository = (*Store)(nil)
)
