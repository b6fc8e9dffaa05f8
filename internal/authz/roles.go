package authz

const (
	RoleSales = 10
	RoleAudit = 30 // только чтение
	RoleAdmin = 50
)

func Valid(roleID int) bool {
	switch roleID {
	case RoleSales, RoleAudit, RoleAdmin:
		return true
	}
	return false
}

func IsElevated(roleID int) bool {
	return roleID == RoleAdmin
}

func IsReadOnly(roleID int) bool {
	return roleID == RoleAudit
}
