package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProfileFilter filtros de la gestión de usuarios.
type ProfileFilter struct {
	Search string // nombre o email
	Active *bool
	Role   string
}

// ProfileRepository define el puerto de persistencia para Profile.
type ProfileRepository interface {
	// GetByID devuelve nil, nil si la identidad aún no tiene fila.
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Create(ctx context.Context, profile *entity.Profile) error
	List(ctx context.Context, filter ProfileFilter) ([]*entity.Profile, error)
	UpdateAccess(ctx context.Context, id, role string, active bool) error
	// ListActiveByRoles perfiles activos con rol dentro de roles (destinatarios del barrido).
	ListActiveByRoles(ctx context.Context, roles []string) ([]*entity.Profile, error)
}
