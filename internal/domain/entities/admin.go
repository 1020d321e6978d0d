package entities

// AdminPermission is a named capability gating which admin identities may
// invoke which mutating operation.
type AdminPermission string

const (
	PermManageContent    AdminPermission = "manage_content"
	PermManageFinance    AdminPermission = "manage_finance"
	PermManageUsers      AdminPermission = "manage_users"
	PermManageModeration AdminPermission = "manage_moderation"
)
