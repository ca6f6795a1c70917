package access

import (
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

// El orden de evaluación de cada regla es parte del contrato: determina qué razón se reporta
// cuando varias aplican a la vez.

// AuthorizeCreate decide si el solicitante puede crear una cuenta con targetRole.
// superAdminExists debe leerse en la misma transacción que la inserción.
func AuthorizeCreate(req Requester, target entity.Role, superAdminExists bool) Decision {
	if !target.Valid() {
		return Deny(domain.ErrInvalidInput)
	}
	// Único super admin: independiente del solicitante.
	if target == entity.RoleSuperAdmin && superAdminExists {
		return Deny(domain.ErrDuplicateSuperAdmin)
	}
	role, ok := req.Role()
	if !ok {
		return Allow
	}
	switch role {
	case entity.RoleSuperAdmin:
		return Allow
	case entity.RoleAdmin:
		if target == entity.RoleStaff {
			return Allow
		}
		return Deny(domain.ErrInsufficientPrivilege)
	default:
		// STAFF nunca crea cuentas.
		return Deny(domain.ErrInsufficientPrivilege)
	}
}

// AuthorizeRoleChange decide si el solicitante puede pasar una cuenta de current a next.
// superAdminExists indica si ya hay un SUPER_ADMIN distinto de la cuenta objetivo.
func AuthorizeRoleChange(req Requester, current, next entity.Role, superAdminExists bool) Decision {
	// Un no-op nunca se restringe, sea cual sea el solicitante.
	if current == next {
		return Allow
	}
	if !next.Valid() {
		return Deny(domain.ErrInvalidInput)
	}
	if next == entity.RoleSuperAdmin && current != entity.RoleSuperAdmin && superAdminExists {
		return Deny(domain.ErrDuplicateSuperAdmin)
	}
	role, ok := req.Role()
	if !ok {
		return Allow
	}
	switch role {
	case entity.RoleSuperAdmin:
		return Allow
	case entity.RoleAdmin:
		if next.AtLeast(entity.RoleAdmin) {
			return Deny(domain.ErrInsufficientPrivilege)
		}
		// Tampoco puede tocar a un par o superior, ni siquiera para degradarlo.
		if current.AtLeast(entity.RoleAdmin) {
			return Deny(domain.ErrInsufficientPrivilege)
		}
		return Allow
	default:
		return Deny(domain.ErrInsufficientPrivilege)
	}
}

// AuthorizeDelete decide si el solicitante puede eliminar una cuenta con targetRole.
// No incluye la regla del último admin: ver GuardLastAdmin.
func AuthorizeDelete(req Requester, target entity.Role) Decision {
	if target == entity.RoleSuperAdmin {
		return Deny(domain.ErrProtectedAccount)
	}
	if role, ok := req.Role(); ok && role == entity.RoleAdmin && target == entity.RoleAdmin {
		return Deny(domain.ErrInsufficientPrivilege)
	}
	return Allow
}

// GuardLastAdmin impide eliminar la última cuenta ADMIN. adminCount es el total de cuentas
// ADMIN en el store, leído en la misma transacción que el borrado.
func GuardLastAdmin(candidate entity.Role, adminCount int) Decision {
	if candidate == entity.RoleAdmin && adminCount <= 1 {
		return Deny(domain.ErrLastAdminGuard)
	}
	return Allow
}

// AuthorizeAccountMutation protege cambios de estado y reseteo de contraseña:
// solo System o SUPER_ADMIN pueden tocar al SUPER_ADMIN, un ADMIN no modifica a otro ADMIN
// y STAFF no modifica cuentas ajenas.
func AuthorizeAccountMutation(req Requester, target entity.Role) Decision {
	role, ok := req.Role()
	if !ok {
		return Allow
	}
	if target == entity.RoleSuperAdmin && role != entity.RoleSuperAdmin {
		return Deny(domain.ErrProtectedAccount)
	}
	if role == entity.RoleAdmin && target == entity.RoleAdmin {
		return Deny(domain.ErrInsufficientPrivilege)
	}
	if !role.AtLeast(entity.RoleAdmin) {
		return Deny(domain.ErrInsufficientPrivilege)
	}
	return Allow
}
