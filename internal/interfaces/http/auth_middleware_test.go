package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/estoque-api/pkg/jwt"
)

func TestAuthMiddleware_Rechazos(t *testing.T) {
	s := newTestServer(t)
	expired, err := pkgjwt.Generate(testJWTSecret, operadorID, "", testIssuer, -time.Minute)
	require.NoError(t, err)
	otherIssuer, err := pkgjwt.Generate(testJWTSecret, operadorID, "", "otro", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sin header", "", fiber.StatusUnauthorized, "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", "Bearer " + expired, fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"issuer distinto", "Bearer " + otherIssuer, fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"perfil inactivo", bearer(t, inactiveID, ""), fiber.StatusForbidden, "INACTIVE_PROFILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/profiles/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := s.app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestAuthMiddleware_PerfilPorDefecto(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/me", nil)
	req.Header.Set("Authorization", bearer(t, newUserID, "nova@empresa.com"))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	me := decode[dto.ProfileResponse](t, resp)
	assert.Equal(t, newUserID, me.ID)
	assert.Equal(t, "nova@empresa.com", me.Email)
	assert.Equal(t, "consulta", me.Role)
	assert.False(t, me.CanEdit)
}

func TestAuthMiddleware_AdministradorPrincipal(t *testing.T) {
	s := newTestServer(t)
	me := decode[dto.ProfileResponse](t, s.do(t, http.MethodGet, "/api/profiles/me", mainAdminID, nil))
	assert.True(t, me.IsMainAdmin)
	assert.True(t, me.CanManageUsers)
}

func TestRequireEdit(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"nome": "Papelaria"}

	resp := s.do(t, http.MethodPost, "/api/categories", consultaID, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/categories", operadorID, body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/categories", operadorID, map[string]any{"nome": "papelaria"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequireRole_UnidadesSoloAdmin(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"nome": "Matriz"}

	resp := s.do(t, http.MethodPost, "/api/units", operadorID, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/units", adminID, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	unit := decode[dto.UnitResponse](t, resp)
	assert.Equal(t, "Matriz", unit.Name)

	resp = s.do(t, http.MethodGet, "/api/units", consultaID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UnitResponse](t, resp), 1)
}

func TestRequireUserManagement(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/profiles", operadorID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/profiles?status=ativo", adminID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.ProfileListResponse](t, resp)
	assert.Equal(t, 4, list.Stats.Total)

	resp = s.do(t, http.MethodPatch, "/api/profiles/"+operadorID, adminID, map[string]any{"role": "admin"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "un admin común no crea otros admins")

	resp = s.do(t, http.MethodPatch, "/api/profiles/"+operadorID, mainAdminID, map[string]any{"role": "admin"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", decode[dto.ProfileResponse](t, resp).Role)

	resp = s.do(t, http.MethodPatch, "/api/profiles/"+consultaID, adminID, map[string]any{"role": "dono"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthMiddleware_IdentidadNuevaPuedeSerPromovida(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/me", nil)
	req.Header.Set("Authorization", bearer(t, newUserID, "nova@empresa.com"))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/profiles?busca=nova", mainAdminID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.ProfileListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, newUserID, list.Items[0].ID)

	resp = s.do(t, http.MethodPatch, "/api/profiles/"+newUserID, mainAdminID, map[string]any{"role": "operador"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "operador", decode[dto.ProfileResponse](t, resp).Role)
}
