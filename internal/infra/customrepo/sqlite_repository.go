package customrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yanqian/pocket-activities/internal/domain/activity"
)

type customActivityRow struct {
	OwnerID         string `gorm:"primaryKey"`
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	DurationMinutes int    `gorm:"not null"`
	DaylightNeeded  bool
	EnergyLevel     string
	CreatedAt       time.Time `gorm:"index"`
}

func (customActivityRow) TableName() string { return "custom_activities" }

// SQLiteRepository implements activity.Repository on a local SQLite file via GORM.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens (and migrates) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&customActivityRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying connection pool.
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]activity.Activity, error) {
	var rows []customActivityRow
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toActivity())
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (activity.Activity, bool, error) {
	var row customActivityRow
	err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return activity.Activity{}, false, nil
		}
		return activity.Activity{}, false, err
	}
	return row.toActivity(), true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, ownerID string, item activity.Activity) error {
	row := customActivityRow{
		OwnerID:         ownerID,
		ID:              item.ID,
		Name:            item.Name,
		DurationMinutes: item.DurationMinutes,
		DaylightNeeded:  item.DaylightNeeded,
		EnergyLevel:     string(item.EnergyLevel),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "duration_minutes", "daylight_needed", "energy_level"}),
	}).Create(&row).Error
}

func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&customActivityRow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (row customActivityRow) toActivity() activity.Activity {
	return activity.Activity{
		ID:              row.ID,
		Name:            row.Name,
		DurationMinutes: row.DurationMinutes,
		DaylightNeeded:  row.DaylightNeeded,
		IsCustom:        true,
		EnergyLevel:     activity.EnergyLevel(row.EnergyLevel),
	}
}
