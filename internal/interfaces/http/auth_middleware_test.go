package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-backoffice/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOrgID     = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "pos-backoffice-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// buildCapabilityApp ruta protegida por una capacidad.
func buildCapabilityApp(capability entity.Capability) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequireCapability(capability),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func signToken(t *testing.T, role, tokenType string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(pkgjwt.Params{
		Secret:         testJWTSecret,
		Issuer:         testIssuer,
		UserID:         testUserID,
		OrganizationID: testOrgID,
		Role:           role,
		TokenType:      tokenType,
		ExpMinutes:     expMin,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// tokenForRole genera un access token con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return "Bearer " + signToken(t, role, pkgjwt.TypeAccess, testExpMin)
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestRequireRole_OperadorAccedeRutaAdminUOperador(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleOperator)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleOperator))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_StaffBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireCapability
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireCapability_MatrizDeRoles(t *testing.T) {
	cases := []struct {
		role       string
		capability entity.Capability
		want       int
	}{
		{entity.RoleAdmin, entity.CapManageOperators, http.StatusOK},
		{entity.RoleManager, entity.CapManageOrganization, http.StatusOK},
		{entity.RoleStaff, entity.CapRecordSales, http.StatusOK},
		{entity.RoleOperator, entity.CapAdjustStock, http.StatusOK},
		{entity.RoleStaff, entity.CapManageOperators, http.StatusForbidden},
		{entity.RoleOperator, entity.CapManageOrganization, http.StatusForbidden},
		{"desconocido", entity.CapViewReports, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.capability.String(), func(t *testing.T) {
			resp := doRequest(t, buildCapabilityApp(tc.capability), tokenForRole(t, tc.role))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireCapability_MensajeNombraLaCapacidad(t *testing.T) {
	resp := doRequest(t, buildCapabilityApp(entity.CapManageOperators), tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Contains(t, bodyString(t, resp), "manage_operators")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":         apphttp.GetUserID(c),
			"organization_id": apphttp.GetOrganizationID(c),
			"role":            apphttp.GetRole(c),
			"capabilities":    apphttp.GetCapabilities(c).Names(),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleStaff))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		UserID         string   `json:"user_id"`
		OrganizationID string   `json:"organization_id"`
		Role           string   `json:"role"`
		Capabilities   []string `json:"capabilities"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testOrgID, body.OrganizationID)
	assert.Equal(t, entity.RoleStaff, body.Role)
	assert.Contains(t, body.Capabilities, "record_sales")
	assert.NotContains(t, body.Capabilities, "manage_operators")
}

func TestAuthMiddleware_RefreshTokenRechazado(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, "Bearer "+signToken(t, entity.RoleAdmin, pkgjwt.TypeRefresh, testExpMin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un refresh token no sirve como access token")
}

func TestAuthMiddleware_TokenRevocado(t *testing.T) {
	tok := signToken(t, entity.RoleAdmin, pkgjwt.TypeAccess, testExpMin)
	claims, err := pkgjwt.Parse(testJWTSecret, tok, pkgjwt.TypeAccess)
	require.NoError(t, err)

	blacklist := redis.NewMemoryTokenBlacklist()
	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))

	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, blacklist), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "TOKEN_REVOKED")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok := signToken(t, entity.RoleManager, pkgjwt.TypeAccess, testExpMin)

	claims, err := pkgjwt.Parse(testJWTSecret, tok, pkgjwt.TypeAccess)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testOrgID, claims.OrganizationID)
	assert.Equal(t, entity.RoleManager, claims.Role)
	assert.NotEmpty(t, claims.ID, "cada token lleva jti para poder revocarlo")
	assert.Greater(t, claims.Remaining(), 59*time.Minute)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok := signToken(t, entity.RoleAdmin, pkgjwt.TypeAccess, -1)

	_, err := pkgjwt.Parse(testJWTSecret, tok, pkgjwt.TypeAccess)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok := signToken(t, entity.RoleAdmin, pkgjwt.TypeAccess, testExpMin)

	_, err := pkgjwt.Parse("otro-secret-completamente-distinto", tok, "")
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_TipoIncorrecto(t *testing.T) {
	tok := signToken(t, entity.RoleAdmin, pkgjwt.TypeRefresh, testExpMin)

	_, err := pkgjwt.Parse(testJWTSecret, tok, pkgjwt.TypeAccess)
	assert.ErrorIs(t, err, pkgjwt.ErrWrongType)
}
