// Package user provides CRUD for company users. Users are deactivated, never deleted.
package user

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/models"
)

var (
	// ErrUserNotFound is returned when the company has no user with the username.
	ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = fmt.Errorf("username %w", controller.ErrAlreadyExists)
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = fmt.Errorf("email %w", controller.ErrAlreadyExists)
	// ErrUsernameEmpty is returned for an empty username.
	ErrUsernameEmpty = fmt.Errorf("username %w", controller.ErrInvalidInput)
	// ErrPasswordEmpty is returned when a user is created without password.
	ErrPasswordEmpty = fmt.Errorf("password %w", controller.ErrInvalidInput)
	// ErrSuperuserProtected is returned when deactivating a superuser.
	ErrSuperuserProtected = fmt.Errorf("superuser can not be deactivated: %w", controller.ErrForbidden)
)

// Profile holds the descriptive user fields.
type Profile struct {
	FirstName string
	LastName  string
	Gender    string
	Phone     string
	Address   string
}

// CreateInput describes a new user.
type CreateInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
	Profile
}

// UpdateInput describes changes to a user. Empty values keep the current one.
type UpdateInput struct {
	Email    string
	Password string
	// IsAdmin is only honoured by UpdateMember.
	IsAdmin *bool
	Profile
}

// Create registers a user in the creator's company.
func Create(db *gorm.DB, creator *models.User, in CreateInput) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if in.Username == "" {
		return nil, ErrUsernameEmpty
	}

	if in.Password == "" {
		return nil, ErrPasswordEmpty
	}

	u := models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  models.HashPassword(in.Password),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Gender:    in.Gender,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		IsAdmin:   in.IsAdmin,
		CompanyID: creator.CompanyID,
		CreatedBy: creator.Username,
	}

	if err := Insert(db, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Insert stores a prepared user after checking that username and email are free.
func Insert(db *gorm.DB, u *models.User) error {
	if db == nil {
		return controller.ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrUsernameTaken
		}

		if u.Email != "" {
			if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				return ErrEmailTaken
			}
		}

		return tx.Create(u).Error
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
		return err
	default:
		return controller.Translate(err, ErrUserNotFound, ErrUsernameTaken)
	}
}

// Get returns a user of the company by username, active or not.
func Get(db *gorm.DB, companyID uint, username string) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var u models.User

	err := db.Scopes(models.InCompany(companyID)).Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, controller.Translate(err, ErrUserNotFound, err)
	}

	return &u, nil
}

// GetByLogin returns the user whose username or email equals login, in any company.
func GetByLogin(db *gorm.DB, login string) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if login == "" {
		return nil, ErrUsernameEmpty
	}

	var u models.User

	err := db.Where("username = ? OR email = ?", login, login).First(&u).Error
	if err != nil {
		return nil, controller.Translate(err, ErrUserNotFound, err)
	}

	return &u, nil
}

// List returns the users of a company ordered by username.
func List(db *gorm.DB, companyID uint) ([]models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var users []models.User
	if err := db.Scopes(models.InCompany(companyID)).Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdateSelf applies profile, email and password changes to the given user.
func UpdateSelf(db *gorm.DB, u *models.User, in UpdateInput) (*models.User, error) {
	in.IsAdmin = nil

	return update(db, u, in)
}

// UpdateMember applies changes, including the admin flag, to a user of the company.
func UpdateMember(db *gorm.DB, companyID uint, username string, in UpdateInput) (*models.User, error) {
	u, err := Get(db, companyID, username)
	if err != nil {
		return nil, err
	}

	return update(db, u, in)
}

func update(db *gorm.DB, u *models.User, in UpdateInput) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	updates := map[string]any{}

	set := func(column, value string) {
		if value != "" {
			updates[column] = value
		}
	}

	set("email", in.Email)
	set("first_name", in.FirstName)
	set("last_name", in.LastName)
	set("gender", in.Gender)
	set("phone", in.Phone)
	set("address", in.Address)

	if in.Password != "" {
		updates["password"] = models.HashPassword(in.Password)
	}

	if in.IsAdmin != nil {
		updates["is_admin"] = *in.IsAdmin
	}

	if len(updates) == 0 {
		return u, nil
	}

	if err := db.Model(u).Updates(updates).Error; err != nil {
		return nil, controller.Translate(err, ErrUserNotFound, ErrEmailTaken)
	}

	return reload(db, u.ID)
}

// Deactivate soft deletes a user of the company.
func Deactivate(db *gorm.DB, companyID uint, username string) (*models.User, error) {
	u, err := Get(db, companyID, username)
	if err != nil {
		return nil, err
	}

	if u.IsSuperuser {
		return nil, ErrSuperuserProtected
	}

	if err = db.Model(u).Update("active", false).Error; err != nil {
		return nil, fmt.Errorf("deactivate %s: %w", username, err)
	}

	return reload(db, u.ID)
}

func reload(db *gorm.DB, id uint64) (*models.User, error) {
	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		return nil, controller.Translate(err, ErrUserNotFound, err)
	}

	return &u, nil
}
