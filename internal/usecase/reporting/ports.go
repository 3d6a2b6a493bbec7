package reporting

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// Source is the read model the reports fold over.
type Source interface {
	ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
}

// StaffDirectory counts active barbers and managers, at one location or
// everywhere when locationID is empty.
type StaffDirectory interface {
	CountStaff(ctx context.Context, locationID string) (int64, error)
}

// Cache holds computed reports for a short time.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Archive stores exported report documents.
type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
