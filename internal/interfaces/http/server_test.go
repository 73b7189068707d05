package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/estoque-api/pkg/jwt"
	"github.com/jhoicas/estoque-api/pkg/logger"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "estoque-test"

	mainAdminID = "00000000-0000-0000-0000-000000000001"
	adminID     = "00000000-0000-0000-0000-000000000002"
	operadorID  = "00000000-0000-0000-0000-000000000003"
	consultaID  = "00000000-0000-0000-0000-000000000004"
	inactiveID  = "00000000-0000-0000-0000-000000000005"
	newUserID   = "00000000-0000-0000-0000-000000000009"
)

var testProfiles = []*entity.Profile{
	{ID: mainAdminID, Name: "Admin", Email: "admin@admin.com", Role: "admin", Active: true},
	{ID: adminID, Name: "Ana", Email: "ana@empresa.com", Role: "admin", Active: true},
	{ID: operadorID, Name: "Bia", Email: "bia@empresa.com", Role: "operador", Active: true},
	{ID: consultaID, Name: "Caio", Email: "caio@empresa.com", Role: "consulta", Active: true},
	{ID: inactiveID, Name: "Davi", Email: "davi@empresa.com", Role: "operador", Active: false},
}

type testServer struct {
	app   *fiber.App
	store *memory.Store
}

// newTestServer arma la API completa sobre el store en memoria, sin feed en tiempo real.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	for _, p := range testProfiles {
		require.NoError(t, store.Profiles().Create(context.Background(), p))
	}

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)
	policy := stockrules.RelativePolicy{}
	ledger := inventory.NewRegisterMovementUseCase(store.TxRunner(), store.Units())
	query := inventory.NewMovementQueryUseCase(store.Movements(), time.UTC)
	profileUC := usecase.NewProfileUseCase(store.Profiles(), access.Owners{"admin@admin.com"})

	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(log.Component("http"))})
	apphttp.Router(app, apphttp.RouterDeps{
		Auth: apphttp.AuthConfig{
			Secret:   testJWTSecret,
			Verify:   pkgjwt.VerifyOptions{Issuer: testIssuer},
			Profiles: profileUC,
		},
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Categories(), ledger, policy),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories()),
		MovementUC:  usecase.NewMovementUseCase(ledger, query, time.UTC),
		UnitUC:      usecase.NewUnitUseCase(store.Units(), store.UnitStock()),
		ProfileUC:   profileUC,
		DashboardUC: usecase.NewDashboardUseCase(store.Products(), query, policy),
		ReportUC:    report.NewUseCase(store.Products(), store.Movements(), policy, time.UTC),
		Inbox:       notification.NewInboxUseCase(store.Notifications()),
		Reconciler:  notification.NewReconciler(store.Products(), store.Notifications(), store.Profiles(), policy, log.Zerolog()),
		Validator:   v,
		Log:         log.Zerolog(),
	})
	return &testServer{app: app, store: store}
}

func bearer(t *testing.T, userID, email string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, email, testIssuer, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

// do ejecuta la petición como userID (vacío = sin Authorization).
func (s *testServer) do(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", bearer(t, userID, ""))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
