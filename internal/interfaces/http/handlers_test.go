package http_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
)

func createProduct(t *testing.T, s *testServer, name string, stock, minimum int64) dto.ProductResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/products", operadorID, map[string]any{
		"nome":           name,
		"unidade_medida": "un",
		"estoque_atual":  stock,
		"estoque_minimo": minimum,
		"valor_unitario": "2.50",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

func TestProductHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	p := createProduct(t, s, "Caneta", 5, 2)
	assert.Equal(t, int64(5), p.CurrentStock)
	assert.Equal(t, "normal", p.StockStatus)

	resp := s.do(t, http.MethodGet, "/api/products/"+p.ID, consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Caneta", decode[dto.ProductResponse](t, resp).Name)

	resp = s.do(t, http.MethodPut, "/api/products/"+p.ID, operadorID, map[string]any{"estoque_minimo": 10})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "baixo", decode[dto.ProductResponse](t, resp).StockStatus)

	resp = s.do(t, http.MethodGet, "/api/products?busca=can", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.ProductListResponse](t, resp).Items, 1)

	resp = s.do(t, http.MethodDelete, "/api/products/"+p.ID, operadorID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products", consultaID, nil)
	assert.Empty(t, decode[dto.ProductListResponse](t, resp).Items)
}

func TestProductHandler_Errores(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/products/no-es-uuid", consultaID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products/"+newUserID, consultaID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products", operadorID, map[string]any{"nome": "  ", "estoque_atual": -1})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "nome")
	assert.Contains(t, body.Fields, "unidade_medida")
	assert.Contains(t, body.Fields, "estoque_atual")

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, operadorID, ""))
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestMovementHandler_SalidaSinStock(t *testing.T) {
	s := newTestServer(t)
	p := createProduct(t, s, "Caneta", 5, 2)

	resp := s.do(t, http.MethodPost, "/api/movements", operadorID, map[string]any{
		"produto_id":        p.ID,
		"tipo_movimentacao": "saida",
		"quantidade":        10,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.NotNil(t, body.Available)
	assert.Equal(t, int64(5), *body.Available)
	assert.Equal(t, int64(5), s.store.Stock(p.ID))
}

func TestMovementHandler_RegistroAjusteYListado(t *testing.T) {
	s := newTestServer(t)
	p := createProduct(t, s, "Caneta", 5, 2)

	resp := s.do(t, http.MethodPost, "/api/movements", operadorID, map[string]any{
		"produto_id":        p.ID,
		"tipo_movimentacao": "entrada",
		"quantidade":        3,
		"valor_unitario":    2.5,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, int64(8), mov.StockAfter)
	require.NotNil(t, mov.TotalValue)
	assert.Equal(t, "7.5", mov.TotalValue.String())
	assert.Equal(t, operadorID, mov.ActorID)

	resp = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/adjust", operadorID, map[string]any{
		"tipo_movimentacao": "saida",
		"quantidade":        1,
		"motivo":            "avaria",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Ajuste de estoque: avaria", decode[dto.MovementResponse](t, resp).Notes)

	resp = s.do(t, http.MethodPost, "/api/movements", operadorID, map[string]any{
		"produto_id":        p.ID,
		"tipo_movimentacao": "transferencia",
		"quantidade":        1,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Fields, "tipo_movimentacao")

	resp = s.do(t, http.MethodGet, "/api/movements?tipo=saida", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.MovementListResponse](t, resp).Items, 1)

	resp = s.do(t, http.MethodGet, "/api/movements?de=ontem", consultaID, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Fields, "de")

	resp = s.do(t, http.MethodGet, "/api/movements/stats", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.MovementStatsResponse](t, resp)
	assert.Equal(t, 2, stats.Summary.EntryCount)
	assert.Equal(t, 1, stats.Summary.ExitCount)

	resp = s.do(t, http.MethodPost, "/api/movements", consultaID, map[string]any{
		"produto_id": p.ID, "tipo_movimentacao": "entrada", "quantidade": 1,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDashboardHandler(t *testing.T) {
	s := newTestServer(t)
	createProduct(t, s, "Caneta", 1, 5)
	createProduct(t, s, "Papel", 0, 5)
	createProduct(t, s, "Lápis", 50, 5)

	resp := s.do(t, http.MethodGet, "/api/dashboard", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.DashboardResponse](t, resp)
	assert.Equal(t, 3, out.TotalProducts)
	assert.Equal(t, 2, out.LowStockCount)
	assert.Equal(t, 1, out.ZeroStockCount)
	assert.Len(t, out.Alerts, 2)
}

func TestNotificationHandler_Flujo(t *testing.T) {
	s := newTestServer(t)
	createProduct(t, s, "Caneta", 1, 5)
	createProduct(t, s, "Papel", 0, 5)

	resp := s.do(t, http.MethodPost, "/api/notifications/reconcile", operadorID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ReconcileResponse](t, resp).Created)

	resp = s.do(t, http.MethodPost, "/api/notifications/reconcile", operadorID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	second := decode[dto.ReconcileResponse](t, resp)
	assert.Zero(t, second.Created)
	assert.Equal(t, 2, second.Skipped)

	resp = s.do(t, http.MethodGet, "/api/notifications", operadorID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	inbox := decode[dto.NotificationListResponse](t, resp)
	require.Len(t, inbox.Items, 2)
	assert.Equal(t, 2, inbox.Unread)
	assert.Equal(t, 2, inbox.UnreadLowStock)

	resp = s.do(t, http.MethodPatch, "/api/notifications/"+inbox.Items[0].ID+"/read", adminID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "no se marca una notificación ajena")

	resp = s.do(t, http.MethodPatch, "/api/notifications/"+inbox.Items[0].ID+"/read", operadorID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/notifications/unread-count", operadorID, nil)
	assert.Equal(t, 1, decode[dto.UnreadCountResponse](t, resp).Unread)

	resp = s.do(t, http.MethodPatch, "/api/notifications/read-all", operadorID, nil)
	assert.Equal(t, int64(1), decode[dto.MarkAllReadResponse](t, resp).Updated)

	resp = s.do(t, http.MethodPost, "/api/notifications/reconcile", consultaID, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestNotificationHandler_StreamSinFeed(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/api/notifications/stream", consultaID, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STREAM_UNAVAILABLE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestReportHandler(t *testing.T) {
	s := newTestServer(t)
	createProduct(t, s, "Caneta", 1, 5)
	createProduct(t, s, "Papel", 20, 5)

	resp := s.do(t, http.MethodGet, "/api/reports/products", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Regexp(t, `^attachment; filename="relatorio-produtos-\d{4}-\d{2}-\d{2}\.csv"$`, resp.Header.Get(fiber.HeaderContentDisposition))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw[3:])), "\n")
	assert.Len(t, lines, 3, "cabecera más dos productos")

	resp = s.do(t, http.MethodGet, "/api/reports/restock?formato=xlsx", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "relatorio-estoque-baixo-")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")

	resp = s.do(t, http.MethodGet, "/api/reports/movements?formato=pdf", consultaID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))

	resp = s.do(t, http.MethodGet, "/api/reports/products?formato=docx", consultaID, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FORMAT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestNewErrorHandler(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{&domain.InsufficientStockError{Available: 2}, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("envuelto: %w", domain.NewValidationError("x", "mal")), fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrInactiveProfile, fiber.StatusForbidden, "INACTIVE_PROFILE"},
		{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("producto: %w", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{errors.New("pool cerrado"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(zerolog.Nop())})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			if tt.code == "INTERNAL" {
				assert.NotContains(t, body.Message, "pool", "no se filtran detalles internos")
			}
		})
	}
}
