package bootstrap

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/controller/group"
	"github.com/complyhub/complyhub/internal/db/controller/role"
	"github.com/complyhub/complyhub/internal/db/controller/sysfunc"
	"github.com/complyhub/complyhub/internal/db/controller/user"
	"github.com/complyhub/complyhub/internal/db/models"
)

const (
	// AccessControlRole is granted every active system function.
	AccessControlRole = "Access Control Role"
	// AdminGroup holds the AccessControlRole and the company's administrator.
	AdminGroup = "Admin Group"
)

// Provisioned reports what Provision found or created.
type Provisioned struct {
	Role    *models.Role
	Group   *models.Group
	Granted int
}

// Provision gives a company its access control role and admin group and puts the user in it.
// Running it again only adds what is missing, for example system functions added to the catalog since.
func Provision(db *gorm.DB, companyID uint, username string) (*Provisioned, error) {
	member, err := user.Get(db, companyID, username)
	if err != nil {
		return nil, err
	}

	functions, err := sysfunc.List(db)
	if err != nil {
		return nil, err
	}

	r, err := role.Get(db, companyID, AccessControlRole)
	if errors.Is(err, role.ErrRoleNotFound) {
		r, err = role.Create(db, companyID, AccessControlRole, "Grants every system function")
	}

	if err != nil {
		return nil, fmt.Errorf("provision role: %w", err)
	}

	out := Provisioned{Role: r}

	for _, function := range functions {
		_, err = role.Grant(db, companyID, r.ID, function.ID)

		switch {
		case err == nil:
			out.Granted++
		case errors.Is(err, controller.ErrAlreadyExists):
		default:
			return nil, fmt.Errorf("provision grant %s: %w", function.Name, err)
		}
	}

	g, err := group.Get(db, companyID, AdminGroup)
	if errors.Is(err, group.ErrGroupNotFound) {
		g, err = group.Create(db, companyID, AdminGroup, "Company administrators")
	}

	if err != nil {
		return nil, fmt.Errorf("provision group: %w", err)
	}

	out.Group = g

	if _, err = group.BindRole(db, companyID, g.ID, r.ID); err != nil && !errors.Is(err, controller.ErrAlreadyExists) {
		return nil, fmt.Errorf("provision group role: %w", err)
	}

	if _, err = group.BindUser(db, companyID, g.ID, member.ID); err != nil && !errors.Is(err, controller.ErrAlreadyExists) {
		return nil, fmt.Errorf("provision group user: %w", err)
	}

	log.Info().
		Uint("company", companyID).
		Str("user", username).
		Int("granted", out.Granted).
		Msg("company provisioned")

	return &out, nil
}
