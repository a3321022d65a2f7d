package auth

type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleManager, RoleViewer:
		return Role(s), true
	default:
		return "", false
	}
}

type Permission string

const (
	PermBookingsRead  Permission = "bookings:read"
	PermBookingsWrite Permission = "bookings:write"
	PermStatsRead     Permission = "stats:read"
	PermAdminsManage  Permission = "admins:manage"
)

// rolePermissions is the static role-to-permission table. Checking a
// permission is a pure membership test against the caller's claims.
var rolePermissions = map[Role]map[Permission]bool{
	RoleOwner: {
		PermBookingsRead:  true,
		PermBookingsWrite: true,
		PermStatsRead:     true,
		PermAdminsManage:  true,
	},
	RoleAdmin: {
		PermBookingsRead:  true,
		PermBookingsWrite: true,
		PermStatsRead:     true,
	},
	RoleManager: {
		PermBookingsRead:  true,
		PermBookingsWrite: true,
	},
	RoleViewer: {
		PermBookingsRead: true,
	},
}

func (r Role) Has(p Permission) bool {
	return rolePermissions[r][p]
}

func (c *Claims) Can(p Permission) bool {
	if c == nil {
		return false
	}
	return c.Role.Has(p)
}
