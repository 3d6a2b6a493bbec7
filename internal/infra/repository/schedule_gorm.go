package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// UpsertScheduleSlot updates the row for (user, location, day) in place and
// reloads slot so its ID is the persisted one.
func (r *ScheduleGormRepository) UpsertScheduleSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "location_id"},
				{Name: "day_of_week"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"start_time", "end_time", "is_available", "updated_at",
			}),
		}).
		Create(slot).Error
	if err != nil {
		return fmt.Errorf("upsert schedule slot: %w", err)
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ? AND day_of_week = ?",
			slot.UserID, slot.LocationID, slot.DayOfWeek).
		First(slot).Error
}

func (r *ScheduleGormRepository) ListScheduleSlots(
	ctx context.Context,
	userID string,
	locationID string,
) ([]models.ScheduleSlot, error) {
	q := r.db.WithContext(ctx).Model(&models.ScheduleSlot{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}

	var slots []models.ScheduleSlot
	if err := q.Order("user_id ASC").Order("day_of_week ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return slots, nil
}

var _ domain.ScheduleRepository = (*ScheduleGormRepository)(nil)
