// Package access contiene el motor de autorización por roles: decide si un solicitante puede
// crear, cambiar el rol, modificar o eliminar una cuenta según los niveles involucrados.
// Todas las funciones son puras; el caller lee los conteos frescos dentro de la misma
// transacción en la que persiste el cambio.
package access

import "github.com/jhoicas/inventario-admin/internal/domain/entity"

// Requester identifica quién invoca una operación protegida.
// Es System (arranque/seed, sin usuario autenticado) o Actor(role).
type Requester struct {
	system bool
	role   entity.Role
}

// System solicitante del contexto de arranque. No es alcanzable desde la API autenticada.
func System() Requester {
	return Requester{system: true}
}

// Actor solicitante autenticado con el rol resuelto del token.
func Actor(role entity.Role) Requester {
	return Requester{role: role}
}

// IsSystem indica si el solicitante es el contexto de sistema.
func (r Requester) IsSystem() bool {
	return r.system
}

// Role devuelve el rol del actor; ok es false para System.
func (r Requester) Role() (role entity.Role, ok bool) {
	if r.system {
		return "", false
	}
	return r.role, true
}

func (r Requester) String() string {
	if r.system {
		return "system"
	}
	return "actor:" + string(r.role)
}
