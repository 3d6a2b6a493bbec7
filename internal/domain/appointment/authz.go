package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

type Role string

const (
	RoleClient  Role = "client"
	RoleBarber  Role = "barber"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleClient, RoleBarber, RoleManager, RoleOwner, RoleAdmin:
		return r, true
	}
	return "", false
}

// Principal is the authenticated caller as supplied by the identity layer.
type Principal struct {
	UserID     string
	Role       Role
	LocationID string
}

func (p Principal) IsStaff() bool {
	return p.Role != RoleClient && p.Role != ""
}

// IsGlobal reports whether the principal sees every location.
func (p Principal) IsGlobal() bool {
	return p.Role == RoleOwner || p.Role == RoleAdmin
}

type Action string

const (
	ActionView              Action = "view"
	ActionCancel            Action = "cancel"
	ActionMarkNoShow        Action = "mark_no_show"
	ActionEditStatus        Action = "edit_status"
	ActionEditPayment       Action = "edit_payment"
	ActionEditNotes         Action = "edit_notes"
	ActionAdjustMoney       Action = "adjust_money"
	ActionConfirmPrepaid    Action = "confirm_prepaid"
	ActionConfirmPaidAtShop Action = "confirm_paid_at_shop"
)

type scope int

const (
	scopeNone     scope = iota
	scopeSelf           // client owns the appointment
	scopeAssigned       // barber is assigned to the appointment
	scopeLocation       // appointment is at the principal's location
	scopeAny
)

var staffScopes = map[Role]scope{
	RoleBarber:  scopeAssigned,
	RoleManager: scopeLocation,
	RoleOwner:   scopeAny,
	RoleAdmin:   scopeAny,
}

var clientSelf = map[Role]scope{RoleClient: scopeSelf}

// authzTable is the single source of truth for who may do what.
var authzTable = map[Action]map[Role]scope{
	ActionView:              merge(clientSelf, staffScopes),
	ActionCancel:            merge(clientSelf, staffScopes),
	ActionConfirmPrepaid:    merge(clientSelf, staffScopes),
	ActionMarkNoShow:        staffScopes,
	ActionEditStatus:        staffScopes,
	ActionEditPayment:       staffScopes,
	ActionEditNotes:         staffScopes,
	ActionAdjustMoney:       staffScopes,
	ActionConfirmPaidAtShop: staffScopes,
}

func merge(maps ...map[Role]scope) map[Role]scope {
	out := make(map[Role]scope)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Authorize checks every action against the table for the current state of
// ap. It never mutates ap.
func Authorize(p Principal, ap *models.Appointment, actions ...Action) error {
	for _, action := range actions {
		sc := authzTable[action][p.Role]
		if !inScope(p, sc, ap) {
			return httperr.ForbiddenErr("forbidden")
		}

		if action == ActionAdjustMoney && p.Role == RoleBarber && !barberMayAdjust(ap) {
			return httperr.ForbiddenErr("adjustment_requires_completed_or_paid")
		}
	}
	return nil
}

func inScope(p Principal, sc scope, ap *models.Appointment) bool {
	switch sc {
	case scopeSelf:
		return p.UserID != "" && ap.ClientID == p.UserID
	case scopeAssigned:
		return p.UserID != "" && ap.BarberID == p.UserID
	case scopeLocation:
		return p.LocationID != "" && ap.LocationID == p.LocationID
	case scopeAny:
		return true
	default:
		return false
	}
}

func barberMayAdjust(ap *models.Appointment) bool {
	return Status(ap.Status) == StatusCompleted ||
		PaymentStatus(ap.PaymentStatus).IsSettled()
}

// AuthorizeCreate decides whether p may book clientID at locationID.
func AuthorizeCreate(p Principal, locationID, clientID string) error {
	switch p.Role {
	case RoleClient:
		if clientID != p.UserID {
			return httperr.ForbiddenErr("client_mismatch")
		}
	case RoleBarber, RoleManager:
		if p.LocationID != "" && p.LocationID != locationID {
			return httperr.ForbiddenErr("location_out_of_scope")
		}
	case RoleOwner, RoleAdmin:
	default:
		return httperr.ForbiddenErr("forbidden")
	}
	return nil
}

// AuthorizeIntent gates payment intent creation. The appointment's client may
// always ask; within grace of creation the principal that placed the booking
// may ask on the client's behalf. A zero grace disables that relaxation.
func AuthorizeIntent(p Principal, ap *models.Appointment, now time.Time, grace time.Duration) error {
	if p.UserID == "" {
		return httperr.ForbiddenErr("forbidden")
	}
	if ap.ClientID == p.UserID {
		return nil
	}
	if grace > 0 &&
		ap.CreatedBy == p.UserID &&
		!now.Before(ap.CreatedAt) &&
		now.Sub(ap.CreatedAt) <= grace {
		return nil
	}
	return httperr.ForbiddenErr("intent_requester_mismatch")
}
