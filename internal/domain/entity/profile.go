package entity

import (
	"strings"
	"time"
)

// Profile perfil de un usuario autenticado por el proveedor de identidad (1:1 con la identidad).
type Profile struct {
	ID        string
	Name      string
	Email     string
	Role      string // consulta, operador, admin, super_admin
	Active    bool
	CreatedAt time.Time
}

// DefaultProfile perfil con el que se registra una identidad sin fila en profiles.
func DefaultProfile(id, email string, createdAt time.Time) *Profile {
	name := email
	if i := strings.Index(email, "@"); i > 0 {
		name = email[:i]
	}
	return &Profile{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      "consulta",
		Active:    true,
		CreatedAt: createdAt,
	}
}
