// Package access deriva los permisos efectivos de un perfil a partir de su rol
// y de la lista de correos propietarios configurada.
package access

import "strings"

// Role nivel de acceso ordenado: Consulta < Operador < Admin < SuperAdmin.
type Role int

const (
	Consulta Role = iota
	Operador
	Admin
	SuperAdmin
)

var roleNames = [...]string{"consulta", "operador", "admin", "super_admin"}

// ParseRole convierte el texto almacenado en profiles.role. Cualquier valor desconocido es Consulta.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range roleNames {
		if n == s {
			return Role(i)
		}
	}
	return Consulta
}

// ValidRole indica si s es exactamente uno de los roles conocidos.
func ValidRole(s string) bool {
	for _, n := range roleNames {
		if n == s {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	if r < Consulta || r > SuperAdmin {
		return roleNames[Consulta]
	}
	return roleNames[r]
}

// AtLeast compara niveles de acceso.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

// Owners lista de correos propietarios ("main admin"). Se inyecta una sola vez desde config.
type Owners []string

// Contains compara sin distinguir mayúsculas ni espacios.
func (o Owners) Contains(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, e := range o {
		if strings.ToLower(strings.TrimSpace(e)) == email {
			return true
		}
	}
	return false
}

// Permissions permisos efectivos de un perfil.
type Permissions struct {
	Role           Role
	IsMainAdmin    bool
	CanEdit        bool
	CanManageUsers bool
}

// Resolve es una función pura de (email, role) → permisos.
func Resolve(email, role string, owners Owners) Permissions {
	r := ParseRole(role)
	mainAdmin := r == Admin && owners.Contains(email)
	return Permissions{
		Role:           r,
		IsMainAdmin:    mainAdmin,
		CanEdit:        r.AtLeast(Operador) || mainAdmin,
		CanManageUsers: r.AtLeast(Admin),
	}
}

// CanAssign indica si quien tiene permisos p puede asignar el rol target a otro usuario.
// Solo super_admin otorga super_admin; admin lo otorgan el administrador principal o un super_admin.
func (p Permissions) CanAssign(target Role) bool {
	if !p.CanManageUsers {
		return false
	}
	switch target {
	case SuperAdmin:
		return p.Role == SuperAdmin
	case Admin:
		return p.IsMainAdmin || p.Role == SuperAdmin
	default:
		return true
	}
}

// CanModify indica si p puede cambiar rol o estado de un usuario con rol target.
// Nadie se modifica a sí mismo por esta vía; los administradores solo los modifica
// el administrador principal o un super_admin.
func (p Permissions) CanModify(target Role, self bool) bool {
	if !p.CanManageUsers || self {
		return false
	}
	if target.AtLeast(Admin) {
		return p.IsMainAdmin || p.Role == SuperAdmin
	}
	return true
}
