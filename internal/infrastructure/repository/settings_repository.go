package repository

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	domainRepo "github.com/sangkips/evdekor-api/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) domainRepo.SettingsRepository {
	return &settingsRepository{db: db}
}

// NewSequenceRepository creates counters stored as rows of the settings table
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &settingsRepository{db: db}
}

// Get decodes the setting stored under key into dest
func (r *settingsRepository) Get(ctx context.Context, key string, dest any) (bool, error) {
	var setting entity.Setting
	err := conn(ctx, r.db).Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(setting.Value, dest); err != nil {
		return false, errors.Wrapf(err, "decode setting %q", key)
	}
	return true, nil
}

// Set upserts the setting stored under key
func (r *settingsRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode setting %q", key)
	}
	return upsertSetting(conn(ctx, r.db), key, data)
}

// Next locks the counter row, returns its value and stores value+1
func (r *settingsRepository) Next(ctx context.Context, name string) (int64, error) {
	var current int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		setting, err := lockSetting(tx, name)
		if err != nil {
			return err
		}
		if setting == nil {
			// First use: insert the starting value, tolerating a concurrent
			// insert, then take the lock on whichever row won.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&entity.Setting{Key: name, Value: datatypes.JSON("1")}).Error; err != nil {
				return err
			}
			if setting, err = lockSetting(tx, name); err != nil {
				return err
			}
			if setting == nil {
				return errors.Errorf("counter %q vanished after insert", name)
			}
		}

		if err := json.Unmarshal(setting.Value, &current); err != nil {
			return errors.Wrapf(err, "decode counter %q", name)
		}
		next, _ := json.Marshal(current + 1)
		return upsertSetting(tx, name, next)
	})
	if err != nil {
		return 0, err
	}
	return current, nil
}

func lockSetting(tx *gorm.DB, key string) (*entity.Setting, error) {
	var setting entity.Setting
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("setting_key = ?", key).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func upsertSetting(db *gorm.DB, key string, data []byte) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entity.Setting{Key: key, Value: datatypes.JSON(data)}).Error
}
