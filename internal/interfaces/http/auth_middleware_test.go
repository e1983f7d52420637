package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain/entity"
	apphttp "github.com/jhoicas/crm-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/crm-api/pkg/jwt"
)

const (
	mwSecret = "secret-solo-para-tests"
	mwUserID = "00000000-0000-0000-0000-000000000001"
	mwEmail  = "rep@crm-pro.local"
	mwIssuer = "crm-pro-test"
	mwExpMin = 60
)

// protectedApp arma una app Fiber con la cadena completa AuthMiddleware +
// RequireRole sobre GET /protected. El handler final responde el rol resuelto
// desde locals para poder verificarlo en las aserciones.
func protectedApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(mwSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	return app
}

// bearerFor emite un JWT firmado con mwSecret para el rol dado, ya con el
// prefijo Bearer.
func bearerFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwEmail, role, mwIssuer, mwExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// hitProtected ejecuta GET /protected con el header Authorization dado; vacío
// significa sin header.
func hitProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// La matriz rol emitido x roles permitidos cubre acceso directo, multi-rol y
// los dos sentidos del bloqueo entre manager y rep.
func TestRequireRole_MatrizDeRoles(t *testing.T) {
	cases := []struct {
		name       string
		allowed    []string
		tokenRole  string
		wantStatus int
	}{
		{"admin entra a ruta de admin", []string{entity.RoleAdmin}, entity.RoleAdmin, http.StatusOK},
		{"manager entra a ruta admin o manager", []string{entity.RoleAdmin, entity.RoleSalesManager}, entity.RoleSalesManager, http.StatusOK},
		{"rep bloqueado en ruta de admin", []string{entity.RoleAdmin}, entity.RoleSalesRep, http.StatusForbidden},
		{"manager bloqueado en ruta solo rep", []string{entity.RoleSalesRep}, entity.RoleSalesManager, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := protectedApp(tc.allowed...)
			resp := hitProtected(t, app, bearerFor(t, tc.tokenRole))
			defer resp.Body.Close()

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantStatus == http.StatusForbidden {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), "FORBIDDEN",
					"el cuerpo debe llevar el código FORBIDDEN")
			}
		})
	}
}

// Cuando el acceso pasa, el handler ve el rol del token en locals.
func TestRequireRole_ExponeRolEnLocals(t *testing.T) {
	app := protectedApp(entity.RoleAdmin)
	resp := hitProtected(t, app, bearerFor(t, entity.RoleAdmin))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

// Un token firmado pero sin claim de rol no alcanza para autorizar: 401 con
// MISSING_ROLE, no 403.
func TestRequireRole_TokenSinRol(t *testing.T) {
	app := protectedApp(entity.RoleAdmin)
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwEmail, "", mwIssuer, mwExpMin)
	require.NoError(t, err)

	resp := hitProtected(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := protectedApp(entity.RoleAdmin)
	resp := hitProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenMalformado(t *testing.T) {
	app := protectedApp(entity.RoleAdmin)
	resp := hitProtected(t, app, "Bearer no.es.un.jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// Los tres claims quedan disponibles vía los getters GetUserID, GetEmail y
// GetRole una vez que el middleware valida el token.
func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(mwSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"email":   apphttp.GetEmail(c),
			"role":    apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearerFor(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, mwUserID, body["user_id"])
	assert.Equal(t, mwEmail, body["email"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestJWT_GenerarYParsearConRol(t *testing.T) {
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwEmail, entity.RoleSalesManager, mwIssuer, mwExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, email, role, err := pkgjwt.Parse(mwSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, mwUserID, userID)
	assert.Equal(t, mwEmail, email)
	assert.Equal(t, entity.RoleSalesManager, role)
}

func TestJWT_TokenExpirado(t *testing.T) {
	// Expiración -1 minuto: nace vencido.
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwEmail, entity.RoleAdmin, mwIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(mwSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SecretDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, mwEmail, entity.RoleAdmin, mwIssuer, mwExpMin)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro-secret-que-no-firma-nada", tok)
	assert.Error(t, err, "un secret distinto debe invalidar la firma")
}
