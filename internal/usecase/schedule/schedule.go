package schedule

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// ======================================================
// UPSERT
// ======================================================

type UpsertSlotInput struct {
	Principal   domain.Principal
	UserID      string
	LocationID  string
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable *bool
}

type UpsertSlot struct {
	repo  domain.ScheduleRepository
	audit *audit.Dispatcher
}

func NewUpsertSlot(repo domain.ScheduleRepository, audit *audit.Dispatcher) *UpsertSlot {
	return &UpsertSlot{repo: repo, audit: audit}
}

// Execute creates or updates the slot keyed by (user, location, day).
func (uc *UpsertSlot) Execute(ctx context.Context, in UpsertSlotInput) (*models.ScheduleSlot, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" && in.Principal.Role == domain.RoleBarber {
		userID = in.Principal.UserID
	}

	if err := authorizeSlot(in.Principal, userID, in.LocationID); err != nil {
		return nil, err
	}
	if err := validateSlot(userID, in); err != nil {
		return nil, err
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	slot := &models.ScheduleSlot{
		ID:          uuid.NewString(),
		UserID:      userID,
		LocationID:  in.LocationID,
		DayOfWeek:   in.DayOfWeek,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsAvailable: available,
	}

	if err := uc.repo.UpsertScheduleSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: slot.LocationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "schedule_slot_upserted",
		Entity:     "schedule_slot",
		EntityID:   audit.Ref(slot.ID),
		Metadata: map[string]any{
			"userId":      slot.UserID,
			"dayOfWeek":   slot.DayOfWeek,
			"startTime":   slot.StartTime,
			"endTime":     slot.EndTime,
			"isAvailable": slot.IsAvailable,
		},
	})

	return slot, nil
}

func authorizeSlot(p domain.Principal, userID, locationID string) error {
	switch p.Role {
	case domain.RoleBarber:
		if userID != p.UserID {
			return httperr.ForbiddenErr("own_schedule_only")
		}
	case domain.RoleManager:
		if p.LocationID == "" || p.LocationID != locationID {
			return httperr.ForbiddenErr("location_out_of_scope")
		}
	case domain.RoleOwner, domain.RoleAdmin:
	default:
		return httperr.ForbiddenErr("staff_only")
	}
	return nil
}

func validateSlot(userID string, in UpsertSlotInput) error {
	if userID == "" {
		return httperr.ErrBusiness("user_id_required")
	}
	if strings.TrimSpace(in.LocationID) == "" {
		return httperr.ErrBusiness("location_id_required")
	}
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return httperr.ErrBusiness("invalid_day_of_week")
	}

	start, err := domain.ParseClock(in.StartTime)
	if err != nil || len(in.StartTime) != 5 {
		return httperr.ErrBusiness("invalid_start_time")
	}
	end, err := domain.ParseClock(in.EndTime)
	if err != nil || len(in.EndTime) != 5 {
		return httperr.ErrBusiness("invalid_end_time")
	}
	if start >= end {
		return httperr.ErrBusiness("start_after_end")
	}
	return nil
}

// ======================================================
// LIST
// ======================================================

type ListSlots struct {
	repo domain.ScheduleRepository
}

func NewListSlots(repo domain.ScheduleRepository) *ListSlots {
	return &ListSlots{repo: repo}
}

func (uc *ListSlots) Execute(
	ctx context.Context,
	p domain.Principal,
	userID string,
	locationID string,
) ([]models.ScheduleSlot, error) {
	if userID == "" && p.Role == domain.RoleBarber {
		userID = p.UserID
	}
	return uc.repo.ListScheduleSlots(ctx, userID, locationID)
}
