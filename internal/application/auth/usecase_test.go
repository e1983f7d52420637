package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/crm-api/pkg/jwt"
)

// memUserRepo implementa el puerto UserRepository sobre un mapa por email.
type memUserRepo struct {
	byEmail map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

const authTestSecret = "test-secret-key-for-unit-tests"

func newAuthUC(repo *memUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     authTestSecret,
		ExpMinutes: 60,
		Issuer:     "crm-pro-test",
	})
}

func registerReq() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:    "rep@crm-pro.local",
		Password: "secreto-fuerte",
		Name:     "Vendedor Uno",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_EmiteTokenConClaims(t *testing.T) {
	uc := newAuthUC(newMemUserRepo())

	resp, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	userID, email, role, err := pkgjwt.Parse(authTestSecret, resp.Token)
	require.NoError(t, err, "el token emitido debe validarse con el mismo secret")
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, "rep@crm-pro.local", email)
	assert.Equal(t, entity.RoleSalesRep, role, "el rol por defecto es sales_rep")
}

func TestRegister_EmailDuplicado_Retorna409(t *testing.T) {
	uc := newAuthUC(newMemUserRepo())

	_, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)

	_, err = uc.RegisterUser(registerReq())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_HashNuncaEnRespuesta(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUC(repo)

	resp, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)

	guardado := repo.byEmail["rep@crm-pro.local"]
	require.NotNil(t, guardado)
	assert.NotEmpty(t, guardado.PasswordHash, "el hash sí se persiste")
	assert.NotEqual(t, "secreto-fuerte", guardado.PasswordHash,
		"nunca se guarda el password en claro")
	_ = resp // UserResponse no tiene campo de credenciales; se verifica por tipo
}

func TestRegister_RolInvalido_Rechazado(t *testing.T) {
	uc := newAuthUC(newMemUserRepo())

	req := registerReq()
	req.Role = "superuser"
	_, err := uc.RegisterUser(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesValidas(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUC(repo)

	_, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "rep@crm-pro.local", Password: "secreto-fuerte"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotNil(t, resp.User.LastLoginAt, "login debe registrar el último acceso")
}

// Email inexistente y password incorrecto deben producir exactamente el mismo
// error: la respuesta no filtra cuál de los dos falló, y no hay bloqueo por
// intentos repetidos.
func TestLogin_CredencialesMalas_MismoError(t *testing.T) {
	uc := newAuthUC(newMemUserRepo())

	_, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)

	_, errPassword := uc.Login(dto.LoginRequest{Email: "rep@crm-pro.local", Password: "incorrecto"})
	_, errEmail := uc.Login(dto.LoginRequest{Email: "nadie@crm-pro.local", Password: "secreto-fuerte"})

	assert.ErrorIs(t, errPassword, domain.ErrUnauthorized)
	assert.ErrorIs(t, errEmail, domain.ErrUnauthorized)
	assert.Equal(t, errPassword, errEmail, "ambos fallos deben ser indistinguibles")

	// Un segundo intento fallido no cambia nada: sin política de lockout.
	_, err = uc.Login(dto.LoginRequest{Email: "rep@crm-pro.local", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// El usuario sigue pudiendo entrar con el password correcto.
	_, err = uc.Login(dto.LoginRequest{Email: "rep@crm-pro.local", Password: "secreto-fuerte"})
	assert.NoError(t, err)
}

func TestLogin_UsuarioInactivo_Forbidden(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUC(repo)

	_, err := uc.RegisterUser(registerReq())
	require.NoError(t, err)
	repo.byEmail["rep@crm-pro.local"].IsActive = false

	_, err = uc.Login(dto.LoginRequest{Email: "rep@crm-pro.local", Password: "secreto-fuerte"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
