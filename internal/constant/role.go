package constant

import "strings"

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleProducer UserRole = "PRODUCER"
	RoleJury     UserRole = "JURY"
)

var UserRoles = []UserRole{RoleAdmin, RoleProducer, RoleJury}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProducer, RoleJury:
		return true
	}
	return false
}

// ParseUserRole is case insensitive. Example: "jury" -> RoleJury
func ParseUserRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}
