package reporting

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
)

// adminLocation resolves the location an analytics caller may read:
// owners and admins pick freely, managers are pinned to their own.
func adminLocation(p domain.Principal, requested string) (string, error) {
	switch p.Role {
	case domain.RoleOwner, domain.RoleAdmin:
		return requested, nil
	case domain.RoleManager:
		if p.LocationID == "" || (requested != "" && requested != p.LocationID) {
			return "", httperr.ForbiddenErr("location_out_of_scope")
		}
		return p.LocationID, nil
	default:
		return "", httperr.ForbiddenErr("admin_only")
	}
}

// staffFilter scopes staff read views: barbers see their own chair,
// managers their location.
func staffFilter(p domain.Principal, barberID, locationID string) (domain.ListFilter, error) {
	f := domain.ListFilter{BarberID: barberID, LocationID: locationID}
	switch p.Role {
	case domain.RoleBarber:
		f.BarberID = p.UserID
	case domain.RoleManager:
		if p.LocationID == "" || (locationID != "" && locationID != p.LocationID) {
			return f, httperr.ForbiddenErr("location_out_of_scope")
		}
		f.LocationID = p.LocationID
	case domain.RoleOwner, domain.RoleAdmin:
	default:
		return f, httperr.ForbiddenErr("staff_only")
	}
	return f, nil
}

func locationTZ(ctx context.Context, src Source, locationID string) *time.Location {
	if locationID == "" {
		return timezone.Location("")
	}
	location, err := src.GetLocation(ctx, locationID)
	if err != nil {
		return timezone.Location("")
	}
	return timezone.Location(location.Timezone)
}
