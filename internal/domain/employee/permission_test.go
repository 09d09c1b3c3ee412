package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionDeviceReset))
	assert.True(t, HasPermission(RoleBranchManager, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleBranchManager, PermissionAttendanceCorrect))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveApprove))
	assert.True(t, HasPermission(RoleBranchManager, PermissionAttendanceKiosk))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceKiosk))
	assert.False(t, HasPermission(Role("ghost"), PermissionAttendanceViewAll))
}

func TestRefIsZero(t *testing.T) {
	assert.True(t, Ref{}.IsZero())
	assert.False(t, Ref{Code: "EMP-1"}.IsZero())
	assert.False(t, Ref{ID: 3}.IsZero())
}
