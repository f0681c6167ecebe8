package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents an account of one company.
// Users are never hard-deleted: deactivation flips Active to false.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Username is the unique login name.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is the unique email address, also accepted as login name.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100" json:"first_name"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100" json:"last_name"`
	// Gender as entered by the creating user.
	Gender string `gorm:"size:20" json:"gender"`
	// Phone is the user's phone number.
	Phone string `gorm:"size:30" json:"phone"`
	// Address is a free form postal address.
	Address string `gorm:"size:255" json:"address"`
	// Active is false once the user was deactivated.
	Active bool `gorm:"not null" json:"active"`
	// IsSuperuser marks the bootstrap account. Superusers cannot be deactivated.
	IsSuperuser bool `gorm:"not null;default:false" json:"is_superuser"`
	// IsAdmin is a company level admin marker maintained by privileged users.
	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`
	// CompanyID is the tenant the user belongs to.
	CompanyID uint `gorm:"index;not null" json:"company_id"`
	// CreatedBy is the username of the creating user.
	CreatedBy string `gorm:"size:100" json:"created_by"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("username", u.Username).Msg("failed to verify password")
		return false
	}

	return match
}
