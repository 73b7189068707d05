package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// ProfileUseCase perfil del usuario actual y gestión de usuarios.
type ProfileUseCase struct {
	repo   repository.ProfileRepository
	owners access.Owners
	now    func() time.Time
}

// NewProfileUseCase construye el caso de uso. owners se inyecta una vez desde configuración.
func NewProfileUseCase(repo repository.ProfileRepository, owners access.Owners) *ProfileUseCase {
	return &ProfileUseCase{repo: repo, owners: owners, now: time.Now}
}

// Resolve carga el perfil de la identidad y resuelve sus permisos.
// La primera vez que llega una identidad se registra con el perfil por defecto (consulta, activo),
// así aparece en la gestión de usuarios y puede ser promovida.
func (uc *ProfileUseCase) Resolve(ctx context.Context, userID, email string) (*entity.Profile, access.Permissions, error) {
	p, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, access.Permissions{}, err
	}
	if p == nil {
		if p, err = uc.register(ctx, userID, email); err != nil {
			return nil, access.Permissions{}, err
		}
	}
	if p.Email == "" {
		p.Email = email
	}
	return p, access.Resolve(p.Email, p.Role, uc.owners), nil
}

// register inserta el perfil por defecto. Si una petición concurrente lo insertó antes, usa esa fila.
func (uc *ProfileUseCase) register(ctx context.Context, userID, email string) (*entity.Profile, error) {
	p := entity.DefaultProfile(userID, email, uc.now())
	err := uc.repo.Create(ctx, p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, err
	}
	existing, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return existing, nil
}

// Current perfil del usuario autenticado con sus permisos.
func (uc *ProfileUseCase) Current(ctx context.Context, userID, email string) (*dto.ProfileResponse, error) {
	p, perms, err := uc.Resolve(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	out := toProfileResponse(p, perms)
	return &out, nil
}

// List usuarios filtrados por búsqueda, estado y rol. Stats se calcula sobre la lista filtrada.
func (uc *ProfileUseCase) List(ctx context.Context, in dto.ProfileFilterRequest) (*dto.ProfileListResponse, error) {
	filter := repository.ProfileFilter{Search: in.Search, Role: in.Role}
	switch in.Status {
	case "ativo":
		active := true
		filter.Active = &active
	case "inativo":
		inactive := false
		filter.Active = &inactive
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.ProfileListResponse{
		Items: make([]dto.ProfileResponse, 0, len(list)),
		Stats: dto.UserStatsResponse{ByRole: map[string]int{}},
	}
	for _, p := range list {
		perms := access.Resolve(p.Email, p.Role, uc.owners)
		out.Items = append(out.Items, toProfileResponse(p, perms))
		out.Stats.Total++
		if p.Active {
			out.Stats.Active++
		} else {
			out.Stats.Inactive++
		}
		out.Stats.ByRole[perms.Role.String()]++
	}
	return out, nil
}

// UpdateAccess cambia rol y/o estado de target. actor son los permisos de quien ejecuta.
func (uc *ProfileUseCase) UpdateAccess(
	ctx context.Context,
	actor access.Permissions,
	actorID, targetID string,
	in dto.UpdateAccessRequest,
) (*dto.ProfileResponse, error) {
	if in.Role != nil && !access.ValidRole(*in.Role) {
		return nil, domain.NewValidationError("role", "rol inválido")
	}
	target, err := uc.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanModify(access.ParseRole(target.Role), actorID == targetID) {
		return nil, domain.ErrForbidden
	}

	role := target.Role
	if in.Role != nil {
		newRole := access.ParseRole(*in.Role)
		if !actor.CanAssign(newRole) {
			return nil, domain.ErrForbidden
		}
		role = newRole.String()
	}
	active := target.Active
	if in.Active != nil {
		active = *in.Active
	}
	if err := uc.repo.UpdateAccess(ctx, targetID, role, active); err != nil {
		return nil, err
	}
	target.Role, target.Active = role, active
	out := toProfileResponse(target, access.Resolve(target.Email, target.Role, uc.owners))
	return &out, nil
}
