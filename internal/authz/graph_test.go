package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivileges(t *testing.T) {
	tests := []struct {
		name   string
		build  func(g Graph)
		userID uint64
		want   []uint
	}{
		{
			name:   "no memberships",
			build:  func(Graph) {},
			userID: 1,
			want:   []uint{},
		},
		{
			name: "single chain",
			build: func(g Graph) {
				g.LinkUser(1, 10)
				g.LinkRole(10, 100)
				g.LinkFunction(100, 1000)
			},
			userID: 1,
			want:   []uint{1000},
		},
		{
			name: "same role through two groups",
			build: func(g Graph) {
				g.LinkUser(1, 10)
				g.LinkUser(1, 11)
				g.LinkRole(10, 100)
				g.LinkRole(11, 100)
				g.LinkRole(11, 101)
				g.LinkFunction(100, 1000)
				g.LinkFunction(100, 1001)
				g.LinkFunction(101, 1001)
			},
			userID: 1,
			want:   []uint{1000, 1001},
		},
		{
			name: "group without roles",
			build: func(g Graph) {
				g.LinkUser(1, 10)
			},
			userID: 1,
			want:   []uint{},
		},
		{
			name: "other users chain is not reachable",
			build: func(g Graph) {
				g.LinkUser(2, 10)
				g.LinkRole(10, 100)
				g.LinkFunction(100, 1000)
			},
			userID: 1,
			want:   []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			tt.build(g)

			got := Privileges(g, tt.userID)
			assert.Equal(t, tt.want, got.IDs())

			// walking twice yields the same set
			assert.Equal(t, got, Privileges(g, tt.userID))
		})
	}
}

func TestPrivilegeSetHas(t *testing.T) {
	s := PrivilegeSet{3: {}}

	assert.True(t, s.Has(3))
	assert.False(t, s.Has(4))
	assert.False(t, PrivilegeSet(nil).Has(3))
}
