package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-engine/internal/config"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// exclusionDDL makes Postgres the final arbiter of double booking: no two
// active appointments of one barber may overlap.
const exclusionDDL = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
	) THEN
		ALTER TABLE appointments
		ADD CONSTRAINT appointments_no_overlap
		EXCLUDE USING gist (
			barber_id WITH =,
			tstzrange(start_at, end_at, '[)') WITH &&
		) WHERE (status NOT IN ('cancelled', 'no_show'));
	END IF;
END
$$;`

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("failed to enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Location{},
		&models.User{},
		&models.Service{},
		&models.ScheduleSlot{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if err := db.Exec(exclusionDDL).Error; err != nil {
		return fmt.Errorf("failed to add overlap constraint: %w", err)
	}

	logging.GetLogger().Info("database migrated", zap.String("constraint", "appointments_no_overlap"))
	return nil
}
