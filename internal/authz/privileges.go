package authz

// Privilege names checked by the HTTP handlers. Each must exist in the system function catalog.
const (
	CanCreateUser        = "Can_Create_User"
	CanViewUser          = "Can_View_User"
	CanViewUsers         = "Can_View_Users"
	CanUpdateUser        = "Can_Update_User"
	CanUpdateUserToAdmin = "Can_Update_User_To_Admin"
	CanDeleteUser        = "Can_Delete_User"

	CanViewRoles               = "Can_View_Roles"
	CanViewRole                = "Can_View_Role"
	CanCreateRole              = "Can_Create_Role"
	CanUpdateRole              = "Can_Update_Role"
	CanDeleteRole              = "Can_Delete_Role"
	CanAddSystemFunctionToRole = "Can_Add_SystemFunction_To_Role"

	CanViewGroups     = "Can_View_Groups"
	CanViewGroup      = "Can_View_Group"
	CanCreateGroup    = "Can_Create_Group"
	CanUpdateGroup    = "Can_Update_Group"
	CanDeleteGroup    = "Can_Delete_Group"
	CanAddRoleToGroup = "Can_Add_Role_To_Group"
	CanAddUserToGroup = "Can_Add_User_To_Group"

	CanViewSystemFunctions = "Can_View_System_Functions"
	CanViewSystemFunction  = "Can_View_System_Function"
)

// Checked returns every privilege name a handler checks.
func Checked() []string {
	return []string{
		CanCreateUser, CanViewUser, CanViewUsers, CanUpdateUser, CanUpdateUserToAdmin, CanDeleteUser,
		CanViewRoles, CanViewRole, CanCreateRole, CanUpdateRole, CanDeleteRole, CanAddSystemFunctionToRole,
		CanViewGroups, CanViewGroup, CanCreateGroup, CanUpdateGroup, CanDeleteGroup, CanAddRoleToGroup,
		CanAddUserToGroup,
		CanViewSystemFunctions, CanViewSystemFunction,
	}
}
