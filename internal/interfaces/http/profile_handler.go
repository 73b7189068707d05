package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// ProfileHandler perfil actual y gestión de usuarios.
type ProfileHandler struct {
	uc   *usecase.ProfileUseCase
	bind binder
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase, v validator.Validator) *ProfileHandler {
	return &ProfileHandler{uc: uc, bind: binder{v: v}}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Description  Sin fila en profiles devuelve el perfil por defecto (consulta).
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/profiles/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext(), GetUserID(c), GetEmail(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        busca   query  string  false  "Nombre o email"
// @Param        status  query  string  false  "ativo | inativo | todos"
// @Param        role    query  string  false  "consulta | operador | admin | super_admin"
// @Success      200  {object}  dto.ProfileListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	var in dto.ProfileFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateAccess godoc
// @Summary      Cambiar rol o estado de un usuario
// @Description  super_admin solo lo asigna un super_admin; admin lo asignan el administrador principal o un super_admin.
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del usuario"
// @Param        body  body  dto.UpdateAccessRequest  true  "role, ativo"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [patch]
func (h *ProfileHandler) UpdateAccess(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in dto.UpdateAccessRequest
	if err := h.bind.body(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateAccess(c.UserContext(), GetPermissions(c), GetUserID(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
