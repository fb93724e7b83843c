package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedItems_Regulator(t *testing.T) {
	items := AllowedItems(RoleRegulator)

	require.Len(t, items, 4)
	assert.Equal(t, "/dashboard", items[0].Route)
	assert.Equal(t, "/map", items[1].Route)
	assert.Equal(t, "/fleet", items[2].Route)
	assert.Equal(t, "/history", items[3].Route)
}

func TestAllowedItems_FleetManager(t *testing.T) {
	items := AllowedItems(RoleFleetManager)

	require.Len(t, items, 2)
	assert.Equal(t, "/dashboard", items[0].Route)
	assert.Equal(t, "/fleet", items[1].Route)
}

func TestAllowedItems_UnknownRoleIsEmptyNotError(t *testing.T) {
	items := AllowedItems(UserRole("INTERN"))

	assert.Empty(t, items)
}

func TestRouteAllowed(t *testing.T) {
	assert.True(t, RouteAllowed(RoleRegulator, "/map"))
	assert.False(t, RouteAllowed(RoleFleetManager, "/map"))
	assert.False(t, RouteAllowed(RoleFleetManager, "/history"))
	assert.True(t, RouteAllowed(RoleFleetManager, "/dashboard"))
}

func TestUserSanitized(t *testing.T) {
	u := User{ID: "u1", Email: "regulateur@resq.ma", Password: "regulateur123"}

	clean := u.Sanitized()

	assert.Empty(t, clean.Password)
	// Исходное значение не изменяется
	assert.Equal(t, "regulateur123", u.Password)
}
