// Package authz decides whether a user may invoke a privilege by walking
// user, group, role and system function inside the user's company.
package authz

import "slices"

// PrivilegeSet holds system function ids. Membership ignores order and multiplicity.
type PrivilegeSet map[uint]struct{}

// Has reports whether the set holds the system function id.
func (s PrivilegeSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the ids in ascending order.
func (s PrivilegeSet) IDs() []uint {
	ids := make([]uint, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Graph holds the three adjacency mappings of one company.
type Graph struct {
	GroupsByUser    map[uint64][]uint
	RolesByGroup    map[uint][]uint
	FunctionsByRole map[uint][]uint
}

// NewGraph returns an empty graph ready for Link calls.
func NewGraph() Graph {
	return Graph{
		GroupsByUser:    map[uint64][]uint{},
		RolesByGroup:    map[uint][]uint{},
		FunctionsByRole: map[uint][]uint{},
	}
}

// LinkUser adds a user to a group.
func (g Graph) LinkUser(userID uint64, groupID uint) {
	g.GroupsByUser[userID] = append(g.GroupsByUser[userID], groupID)
}

// LinkRole adds a role to a group.
func (g Graph) LinkRole(groupID, roleID uint) {
	g.RolesByGroup[groupID] = append(g.RolesByGroup[groupID], roleID)
}

// LinkFunction adds a system function to a role.
func (g Graph) LinkFunction(roleID, functionID uint) {
	g.FunctionsByRole[roleID] = append(g.FunctionsByRole[roleID], functionID)
}

// Privileges walks user to groups to roles to functions. Roles reached through
// several groups are visited once. An empty set is a valid result.
func Privileges(g Graph, userID uint64) PrivilegeSet {
	held := PrivilegeSet{}
	seenRoles := map[uint]struct{}{}

	for _, groupID := range g.GroupsByUser[userID] {
		for _, roleID := range g.RolesByGroup[groupID] {
			if _, seen := seenRoles[roleID]; seen {
				continue
			}

			seenRoles[roleID] = struct{}{}

			for _, functionID := range g.FunctionsByRole[roleID] {
				held[functionID] = struct{}{}
			}
		}
	}

	return held
}
