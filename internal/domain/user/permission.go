package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"

	// Student
	PermissionScheduleOnboard   Permission = "schedule.onboard"
	PermissionBookingIzin       Permission = "booking.izin"
	PermissionPortfolioUpload   Permission = "portfolio.upload"
	PermissionViewOwnProgress   Permission = "progress.view_own"
	PermissionRescheduleRequest Permission = "reschedule.request"

	// Teacher
	PermissionAttendanceSubmit      Permission = "attendance.submit"
	PermissionAttendanceLateRequest Permission = "attendance.late_request"
	PermissionCalendarViewOwn       Permission = "calendar.view_own"
	PermissionAvailabilityManageOwn Permission = "availability.manage_own"
	PermissionStudentProgressView   Permission = "progress.view_students"

	// Admin
	PermissionRequestApprove   Permission = "request.approve"
	PermissionCatalogManage    Permission = "catalog.manage"
	PermissionEnrollmentManage Permission = "enrollment.manage"
	PermissionOverrideManage   Permission = "override.manage"
	PermissionTeacherManage    Permission = "teacher.manage"
	PermissionCalendarViewAll  Permission = "calendar.view_all"
	PermissionMessagingStatus  Permission = "messaging.status"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionRescheduleRequest,
		PermissionStudentProgressView,
		PermissionRequestApprove,
		PermissionCatalogManage,
		PermissionEnrollmentManage,
		PermissionOverrideManage,
		PermissionTeacherManage,
		PermissionCalendarViewAll,
		PermissionMessagingStatus,
	},
	RoleTeacher: {
		PermissionViewOwnProfile,
		PermissionRescheduleRequest,
		PermissionAttendanceSubmit,
		PermissionAttendanceLateRequest,
		PermissionCalendarViewOwn,
		PermissionAvailabilityManageOwn,
		PermissionStudentProgressView,
	},
	RoleStudent: {
		PermissionViewOwnProfile,
		PermissionScheduleOnboard,
		PermissionBookingIzin,
		PermissionPortfolioUpload,
		PermissionViewOwnProgress,
		PermissionRescheduleRequest,
	},
	RoleVendor: {
		PermissionViewOwnProfile,
	},
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
