package util

import (
	"slices"

	"github.com/SeakMengs/MarsAI/internal/constant"
)

func HasRole(role constant.UserRole, requiredRoles []constant.UserRole) bool {
	return slices.Contains(requiredRoles, role)
}
