// Package setting provides access to the key value settings table.
package setting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting
	if err := db.Where(nameQueryPattern, name).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, err
	}

	return &setting, nil
}

// Set creates or updates a setting by name.
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(nameQueryPattern, name).First(&setting).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = models.Setting{Name: name, Value: value}

			return tx.Create(&setting).Error
		case err != nil:
			return err
		}

		setting.Value = value

		return tx.Save(&setting).Error
	})
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", name, err)
	}

	return &setting, nil
}

// GetOrInit returns the named setting, storing the output of init first if it does not exist yet.
// A concurrent writer winning the insert is tolerated, its value is returned.
func GetOrInit(db *gorm.DB, name string, init func() []byte) (*models.Setting, error) {
	setting, err := Get(db, name)
	if !errors.Is(err, ErrSettingNotFound) {
		return setting, err
	}

	setting = &models.Setting{Name: name, Value: init()}
	if err = db.Create(setting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Get(db, name)
		}

		return nil, fmt.Errorf("init %s: %w", name, err)
	}

	return setting, nil
}

// Delete deletes a setting by name.
func Delete(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
