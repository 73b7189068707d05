package dto

import "time"

// ProfileResponse perfil con los permisos resueltos.
type ProfileResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"nome"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Active         bool      `json:"ativo"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	IsMainAdmin    bool      `json:"is_main_admin"`
	CanEdit        bool      `json:"can_edit"`
	CanManageUsers bool      `json:"can_manage_users"`
}

// ProfileFilterRequest filtros de la gestión de usuarios. Status: ativo, inativo o vacío.
type ProfileFilterRequest struct {
	Search string `query:"busca"`
	Status string `query:"status" validate:"omitempty,oneof=ativo inativo todos"`
	Role   string `query:"role" validate:"omitempty,oneof=consulta operador admin super_admin"`
}

// UpdateAccessRequest cambio de rol y/o estado. Campos nil no se modifican.
type UpdateAccessRequest struct {
	Role   *string `json:"role" validate:"omitempty,oneof=consulta operador admin super_admin"`
	Active *bool   `json:"ativo"`
}

// UserStatsResponse contadores de la gestión de usuarios.
type UserStatsResponse struct {
	Total    int            `json:"total"`
	Active   int            `json:"ativos"`
	Inactive int            `json:"inativos"`
	ByRole   map[string]int `json:"por_role"`
}

// ProfileListResponse usuarios filtrados y estadísticas sobre el total.
type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Stats UserStatsResponse `json:"stats"`
}
