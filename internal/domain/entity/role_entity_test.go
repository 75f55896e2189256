package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleInstructor, RoleAdmin} {
		assert.True(t, r.Valid(), r)
	}
	for _, r := range []Role{"", "Student", "teacher", "root"} {
		assert.False(t, r.Valid(), r)
	}
}

func TestRole_Redirect(t *testing.T) {
	assert.Equal(t, "./home.html", RoleStudent.Redirect())
	assert.Equal(t, "./instructor/dashboard.html", RoleInstructor.Redirect())
	assert.Equal(t, "./admin/dashboard.html", RoleAdmin.Redirect())
	assert.Equal(t, DefaultRedirect, Role("guest").Redirect())
}

func TestRole_RequiresProfile(t *testing.T) {
	assert.True(t, RoleInstructor.RequiresProfile())
	assert.False(t, RoleStudent.RequiresProfile())
	assert.False(t, RoleAdmin.RequiresProfile())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@x.com", NormalizeEmail("  Ada@X.com "))
}
