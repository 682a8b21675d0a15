// Package rbac holds the static role/permission matrix the backend enforces.
// The client uses it to gate commands before spending a network round trip;
// the backend remains the authority.
package rbac

type Role string

const (
	RoleSuperUser    Role = "SUPER_USER"
	RoleAdmin        Role = "ADMIN"
	RoleManager      Role = "MANAGER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleTrainer      Role = "TRAINER"
	RoleMember       Role = "MEMBER"
	RoleGuest        Role = "GUEST"
)

type Permission string

const (
	ViewDashboard        Permission = "dashboard:view"
	ViewMembers          Permission = "members:view"
	CreateMember         Permission = "members:create"
	EditMember           Permission = "members:edit"
	ViewMemberDetails    Permission = "members:details"
	AssignMembership     Permission = "memberships:assign"
	ViewMemberships      Permission = "memberships:view"
	CreateMembershipPlan Permission = "plans:create"
	ViewAttendance       Permission = "attendance:view"
	RecordPayment        Permission = "payments:record"
	ViewPayments         Permission = "payments:view"
	ViewProgress         Permission = "progress:view"
	UpdateProgress       Permission = "progress:update"
	ViewTrainers         Permission = "trainers:view"
	ManageTrainers       Permission = "trainers:manage"
	ViewGyms             Permission = "gyms:view"
	ManageGyms           Permission = "gyms:manage"
	ViewReports          Permission = "reports:view"
	ManageUsers          Permission = "users:manage"
	ViewAllMembers       Permission = "members:view-all"
	ViewFinancials       Permission = "financials:view"
)

var matrix = map[Role]map[Permission]bool{
	RoleSuperUser: {
		ViewDashboard: true, ViewMembers: true, CreateMember: true, EditMember: true,
		ViewMemberDetails: true, AssignMembership: true, ViewMemberships: true,
		CreateMembershipPlan: true, ViewAttendance: true, RecordPayment: true,
		ViewPayments: true, ViewProgress: true, UpdateProgress: true,
		ViewTrainers: true, ManageTrainers: true, ViewGyms: true, ManageGyms: true,
		ViewReports: true, ManageUsers: true, ViewAllMembers: true, ViewFinancials: true,
	},
	RoleAdmin: {
		ViewDashboard: true, ViewMembers: true, CreateMember: true, EditMember: true,
		ViewMemberDetails: true, AssignMembership: true, ViewMemberships: true,
		CreateMembershipPlan: true, ViewAttendance: true, RecordPayment: true,
		ViewPayments: true, ViewProgress: true, UpdateProgress: true,
		ViewTrainers: true, ManageTrainers: true, ViewGyms: true, ManageGyms: true,
		ViewReports: true, ManageUsers: true, ViewAllMembers: true, ViewFinancials: true,
	},
	RoleManager: {
		ViewDashboard: true, ViewMembers: true, CreateMember: true, EditMember: true,
		ViewMemberDetails: true, AssignMembership: true, ViewMemberships: true,
		CreateMembershipPlan: true, ViewAttendance: true, RecordPayment: true,
		ViewPayments: true, ViewProgress: true, UpdateProgress: true,
		ViewTrainers: true, ViewReports: true, ViewAllMembers: true, ViewFinancials: true,
	},
	RoleReceptionist: {
		ViewDashboard: true, ViewMembers: true, CreateMember: true,
		ViewMemberDetails: true, ViewAttendance: true, RecordPayment: true,
		ViewPayments: true, ViewAllMembers: true,
	},
	RoleTrainer: {
		ViewDashboard: true, ViewMembers: true, ViewMemberDetails: true,
		ViewProgress: true, UpdateProgress: true,
	},
	RoleMember: {
		ViewAttendance: true, ViewMemberships: true, ViewProgress: true,
	},
	RoleGuest: {
		ViewAttendance: true, ViewMemberships: true, ViewProgress: true,
	},
}

// Normalize maps an unknown role string onto the most restricted staff-less
// role, mirroring the backend fallback.
func Normalize(role string) Role {
	r := Role(role)
	if _, ok := matrix[r]; !ok {
		return RoleMember
	}
	return r
}

func Can(role string, permission Permission) bool {
	return matrix[Normalize(role)][permission]
}

// PermissionsFor returns the full grant set for a role.
func PermissionsFor(role string) []Permission {
	grants := matrix[Normalize(role)]
	out := make([]Permission, 0, len(grants))
	for p, ok := range grants {
		if ok {
			out = append(out, p)
		}
	}
	return out
}
