// Package sysfunc manages the global catalog of system functions.
package sysfunc

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrSystemFunctionNotFound is returned when no (active) system function has the name.
	ErrSystemFunctionNotFound = fmt.Errorf("system function %w", controller.ErrNotFound)
	// ErrSystemFunctionNameEmpty is returned for an empty name.
	ErrSystemFunctionNameEmpty = fmt.Errorf("system function name %w", controller.ErrInvalidInput)
)

// List returns all active system functions ordered by name.
func List(db *gorm.DB) ([]models.SystemFunction, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var functions []models.SystemFunction
	if err := db.Where("active = ?", true).Order("name").Find(&functions).Error; err != nil {
		return nil, fmt.Errorf("list system functions: %w", err)
	}

	return functions, nil
}

// Get returns a system function by name, active or not.
func Get(db *gorm.DB, name string) (*models.SystemFunction, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrSystemFunctionNameEmpty
	}

	var function models.SystemFunction
	if err := db.Where(nameQueryPattern, name).First(&function).Error; err != nil {
		return nil, controller.Translate(err, ErrSystemFunctionNotFound, err)
	}

	return &function, nil
}

// GetActive returns a system function by name if it is active.
// Inactive functions are reported as not found so they can not be granted.
func GetActive(db *gorm.DB, name string) (*models.SystemFunction, error) {
	function, err := Get(db, name)
	if err != nil {
		return nil, err
	}

	if !function.Active {
		return nil, ErrSystemFunctionNotFound
	}

	return function, nil
}

// EnsureCatalog inserts every catalog entry whose name is missing, as active.
// Existing rows keep their state, a deactivated function stays deactivated.
func EnsureCatalog(db *gorm.DB, catalog []models.SystemFunction) (int, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	created := 0

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range catalog {
			if entry.Name == "" {
				return ErrSystemFunctionNameEmpty
			}

			var existing models.SystemFunction

			err := tx.Where(nameQueryPattern, entry.Name).First(&existing).Error
			if err == nil {
				continue
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			row := models.SystemFunction{Name: entry.Name, Description: entry.Description, Active: true}
			if err = tx.Create(&row).Error; err != nil {
				return err
			}

			created++
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ensure catalog: %w", err)
	}

	return created, nil
}

// SetActive switches a system function on or off. Functions are never deleted.
func SetActive(db *gorm.DB, name string, active bool) error {
	function, err := Get(db, name)
	if err != nil {
		return err
	}

	if err = db.Model(function).Update("active", active).Error; err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}

	return nil
}
