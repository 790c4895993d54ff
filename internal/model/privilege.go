package model

// Privilege codes carried in the admin token and checked per route.
const (
	PrivilegeProductView   = "product:view"
	PrivilegeProductCreate = "product:create"
	PrivilegeProductUpdate = "product:update"
	PrivilegeProductDelete = "product:delete"
)

// DefaultPrivileges is the full catalog privilege set, granted to operator tokens by default.
var DefaultPrivileges = []string{
	PrivilegeProductView,
	PrivilegeProductCreate,
	PrivilegeProductUpdate,
	PrivilegeProductDelete,
}
