// AngelaMos | 2026
// entity_test.go

package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole("citizen")
	require.NoError(t, err)
	assert.Equal(t, RoleCitizen, role)

	role, err = ParseRole("official")
	require.NoError(t, err)
	assert.Equal(t, RoleOfficial, role)

	_, err = ParseRole("admin")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)

	_, err = ParseRole("Citizen")
	assert.Error(t, err)
}

func TestUserHelpers(t *testing.T) {
	u := &User{
		FirstName: "Amina",
		LastName:  "Khan",
		Role:      RoleOfficial,
	}

	assert.Equal(t, "Amina Khan", u.FullName())
	assert.True(t, u.IsOfficial())
	assert.False(t, u.IsDeleted())

	now := time.Now()
	u.DeletedAt = &now
	assert.True(t, u.IsDeleted())
}

func TestListUsersParamsNormalize(t *testing.T) {
	p := ListUsersParams{Page: 0, PageSize: 0}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = ListUsersParams{Page: 3, PageSize: 500}
	p.Normalize()
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
