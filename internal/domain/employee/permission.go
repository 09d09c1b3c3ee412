package employee

type Permission string

const (
	// Attendance
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceCorrect Permission = "attendance.correct"
	// PermissionAttendanceKiosk lets a session punch for another employee named by code.
	PermissionAttendanceKiosk Permission = "attendance.kiosk"

	// Leave
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Administration
	PermissionDeviceReset      Permission = "device.reset"
	PermissionWorkZoneManage   Permission = "workzone.manage"
	PermissionNotificationView Permission = "notification.view"
)

// RolePermissions maps roles to their permissions. Acting on one's own records needs none.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewAll,
		PermissionAttendanceCorrect,
		PermissionAttendanceKiosk,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionDeviceReset,
		PermissionWorkZoneManage,
		PermissionNotificationView,
	},
	RoleBranchManager: {
		// Branch managers run the branch kiosk, review leave and watch their branch feed
		PermissionAttendanceViewAll,
		PermissionAttendanceKiosk,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionNotificationView,
	},
	RoleEmployee: {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
