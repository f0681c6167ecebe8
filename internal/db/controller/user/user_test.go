package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/complyhub/complyhub/internal/db/controller"
	"github.com/complyhub/complyhub/internal/db/dbtest"
	"github.com/complyhub/complyhub/internal/db/models"
)

func seedCreator(t *testing.T, db *gorm.DB, companyID uint) *models.User {
	t.Helper()

	creator := models.User{
		Username:    "root7",
		Email:       "root7@example.com",
		Active:      true,
		IsSuperuser: true,
		CompanyID:   companyID,
	}
	require.NoError(t, db.Create(&creator).Error)

	return &creator
}

func TestCreate(t *testing.T) {
	db := dbtest.New(t)
	creator := seedCreator(t, db, 7)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		in            CreateInput
		expectedError error
	}{
		{name: "nil database", in: CreateInput{Username: "alice", Password: "pw"}, expectedError: controller.ErrDBNil},
		{name: "empty username", dbParam: db, in: CreateInput{Password: "pw"}, expectedError: ErrUsernameEmpty},
		{name: "empty password", dbParam: db, in: CreateInput{Username: "alice"}, expectedError: ErrPasswordEmpty},
		{
			name:    "create",
			dbParam: db,
			in: CreateInput{
				Username: "alice", Email: "alice@example.com", Password: "pw",
				Profile: Profile{FirstName: "Alice", LastName: "Auditor"},
			},
		},
		{
			name:          "username taken",
			dbParam:       db,
			in:            CreateInput{Username: "alice", Email: "other@example.com", Password: "pw"},
			expectedError: ErrUsernameTaken,
		},
		{
			name:          "email taken",
			dbParam:       db,
			in:            CreateInput{Username: "alice2", Email: "alice@example.com", Password: "pw"},
			expectedError: ErrEmailTaken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := Create(tc.dbParam, creator, tc.in)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, u)

				return
			}

			require.NoError(t, err)
			assert.True(t, u.Active)
			assert.Equal(t, uint(7), u.CompanyID)
			assert.Equal(t, "root7", u.CreatedBy)
			assert.NotEqual(t, tc.in.Password, u.Password)
			assert.True(t, u.VerifyPassword(tc.in.Password))
			assert.Equal(t, "Alice Auditor", u.FullName())
		})
	}
}

func TestGetScopedToCompany(t *testing.T) {
	db := dbtest.New(t)
	creator := seedCreator(t, db, 7)

	_, err := Create(db, creator, CreateInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	u, err := Get(db, 7, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = Get(db, 9, "alice")
	require.ErrorIs(t, err, ErrUserNotFound)

	users, err := List(db, 7)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = List(db, 9)
	require.NoError(t, err)
	assert.Empty(t, users)

	byEmail, err := GetByLogin(db, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = GetByLogin(db, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate(t *testing.T) {
	db := dbtest.New(t)
	creator := seedCreator(t, db, 7)

	alice, err := Create(db, creator, CreateInput{Username: "alice", Email: "alice@example.com", Password: "old"})
	require.NoError(t, err)

	admin := true

	// the admin flag is ignored for self updates
	updated, err := UpdateSelf(db, alice, UpdateInput{Password: "new", IsAdmin: &admin, Profile: Profile{Phone: "+49 30 1234"}})
	require.NoError(t, err)
	assert.True(t, updated.VerifyPassword("new"))
	assert.False(t, updated.IsAdmin)
	assert.Equal(t, "+49 30 1234", updated.Phone)

	updated, err = UpdateMember(db, 7, "alice", UpdateInput{IsAdmin: &admin})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)

	_, err = UpdateMember(db, 9, "alice", UpdateInput{IsAdmin: &admin})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = UpdateSelf(db, alice, UpdateInput{Email: "root7@example.com"})
	require.ErrorIs(t, err, controller.ErrAlreadyExists)
}

func TestDeactivate(t *testing.T) {
	db := dbtest.New(t)
	creator := seedCreator(t, db, 7)

	_, err := Create(db, creator, CreateInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	u, err := Deactivate(db, 7, "alice")
	require.NoError(t, err)
	assert.False(t, u.Active)

	// deactivated, not deleted
	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = Deactivate(db, 7, "root7")
	require.ErrorIs(t, err, ErrSuperuserProtected)

	_, err = Deactivate(db, 9, "alice")
	require.ErrorIs(t, err, ErrUserNotFound)
}
