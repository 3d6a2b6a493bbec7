package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

type ListAppointmentsInput struct {
	Principal  domain.Principal
	LocationID string
	From       *time.Time
	To         *time.Time
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "appointment.List")
	defer span.End()

	if in.From != nil && in.To != nil && !in.From.Before(*in.To) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	f, err := ScopeFilter(in.Principal, domain.ListFilter{
		LocationID: in.LocationID,
		From:       in.From,
		To:         in.To,
	})
	if err != nil {
		return nil, err
	}

	return uc.repo.ListAppointments(ctx, f)
}

// ScopeFilter narrows f to what p may see: clients their own bookings,
// barbers their own chair, managers their location.
func ScopeFilter(p domain.Principal, f domain.ListFilter) (domain.ListFilter, error) {
	switch p.Role {
	case domain.RoleClient:
		f.ClientID = p.UserID
	case domain.RoleBarber:
		f.BarberID = p.UserID
	case domain.RoleManager:
		if p.LocationID == "" {
			return f, httperr.ForbiddenErr("manager_without_location")
		}
		if f.LocationID != "" && f.LocationID != p.LocationID {
			return f, httperr.ForbiddenErr("location_out_of_scope")
		}
		f.LocationID = p.LocationID
	case domain.RoleOwner, domain.RoleAdmin:
	default:
		return f, httperr.ForbiddenErr("forbidden")
	}
	return f, nil
}
