package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/redis"
	"github.com/jhoicas/pos-backoffice/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "auth-test-secret"
	phone      = "3001234567"
	password   = "clave-segura-1"
)

type env struct {
	uc      *auth.AuthUseCase
	users   *memUsers
	orgs    *memOrgs
	ver     *memVerifications
	otp     *captureSender
	storage *memStorage
	metrics *loginMetrics
}

// envOpts permite sustituir la lista negra o envolver el repositorio de verificaciones.
type envOpts struct {
	storage   bool
	blacklist ports.TokenBlacklist
	wrapVer   func(*memVerifications) repository.VerificationRepository
}

func newEnv(withStorage bool) *env {
	return newEnvWith(envOpts{storage: withStorage})
}

func newEnvWith(opts envOpts) *env {
	e := &env{
		users:   newMemUsers(),
		orgs:    &memOrgs{orgs: map[string]*entity.Organization{}},
		ver:     &memVerifications{tokens: map[string]*entity.PasswordResetToken{}},
		otp:     &captureSender{},
		metrics: &loginMetrics{results: map[string]int{}},
	}
	var ver repository.VerificationRepository = e.ver
	if opts.wrapVer != nil {
		ver = opts.wrapVer(e.ver)
	}
	blacklist := opts.blacklist
	if blacklist == nil {
		blacklist = redis.NewMemoryTokenBlacklist()
	}
	deps := auth.Deps{
		Users:         e.users,
		Organizations: e.orgs,
		Verifications: ver,
		TxRunner: &memTx{repos: repository.TxRepositories{
			Users:         e.users,
			Organizations: e.orgs,
			Verifications: ver,
		}},
		Blacklist: blacklist,
		OTPSender: e.otp,
		Metrics:   e.metrics,
	}
	if opts.storage {
		e.storage = &memStorage{objects: map[string]int64{}}
		deps.Storage = e.storage
	}
	e.uc = auth.NewAuthUseCase(deps, auth.Config{
		Secret:            testSecret,
		Issuer:            "test",
		ExpMinutes:        15,
		RefreshExpMinutes: 60,
	})
	return e
}

// verifiedUser registra y verifica un dueño; devuelve su ID.
func (e *env) verifiedUser(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	out, created, err := e.uc.Signup(ctx, dto.SignupRequest{Phone: phone, FullName: "Ana Pérez", Password: password, Email: "ana@example.com"})
	require.NoError(t, err)
	require.True(t, created)
	_, err = e.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: e.otp.last().code})
	require.NoError(t, err)
	return out.UserID
}

func (e *env) login(t *testing.T) *dto.LoginResponse {
	t.Helper()
	out, err := e.uc.Login(context.Background(), dto.LoginRequest{Phone: phone, Password: password})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup / OTP
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_CreaOrganizacionYUsuarioSinVerificar(t *testing.T) {
	e := newEnv(false)
	out, created, err := e.uc.Signup(context.Background(), dto.SignupRequest{Phone: phone, FullName: "Ana Pérez", Password: password})
	require.NoError(t, err)
	assert.True(t, created)

	user := e.users.users[out.UserID]
	require.NotNil(t, user)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsOwner)
	assert.Equal(t, entity.RoleManager, user.Role)
	assert.Equal(t, phone, user.Username)
	assert.NotEqual(t, password, user.PasswordHash, "se guarda el hash")
	require.Contains(t, e.orgs.orgs, user.OrganizationID)

	sent := e.otp.last()
	assert.Equal(t, phone, sent.phone)
	assert.Len(t, sent.code, 6)
	assert.Equal(t, entity.OTPPurposePhoneVerification, sent.purpose)
}

func TestSignup_TelefonoVerificadoDuplicado(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)

	_, _, err := e.uc.Signup(context.Background(), dto.SignupRequest{Phone: phone, FullName: "Otra", Password: password})
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists)
}

func TestSignup_ReintentoSinVerificarActualizaYReenvia(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	first, _, err := e.uc.Signup(ctx, dto.SignupRequest{Phone: phone, FullName: "Ana", Password: password})
	require.NoError(t, err)

	second, created, err := e.uc.Signup(ctx, dto.SignupRequest{Phone: phone, FullName: "Ana María", Password: password})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, "Ana María", e.users.users[first.UserID].FullName)
	assert.Len(t, e.otp.sent, 2)
	assert.Len(t, e.orgs.orgs, 1, "no crea otra organización")
}

func TestSignup_EmailDeOtroUsuario(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)

	_, _, err := e.uc.Signup(context.Background(), dto.SignupRequest{Phone: "3009999999", FullName: "Beto", Password: password, Email: "ANA@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el email se compara en minúsculas")
}

func TestVerifyOTP_CodigoIncorrecto(t *testing.T) {
	e := newEnv(false)
	_, _, err := e.uc.Signup(context.Background(), dto.SignupRequest{Phone: phone, FullName: "Ana", Password: password})
	require.NoError(t, err)

	wrong := "000000"
	if e.otp.last().code == wrong {
		wrong = "111111"
	}
	_, err = e.uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Phone: phone, OTP: wrong})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
}

func TestVerifyOTP_CodigoVencido(t *testing.T) {
	e := newEnv(false)
	_, _, err := e.uc.Signup(context.Background(), dto.SignupRequest{Phone: phone, FullName: "Ana", Password: password})
	require.NoError(t, err)
	e.ver.otps[len(e.ver.otps)-1].ExpiresAt = time.Now().Add(-time.Second)

	_, err = e.uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Phone: phone, OTP: e.otp.last().code})
	assert.ErrorIs(t, err, domain.ErrOTPExpired)
}

func TestVerifyOTP_UsoUnico(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)

	_, err := e.uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Phone: phone, OTP: e.otp.last().code})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
}

func TestVerifyOTP_TelefonoDesconocido(t *testing.T) {
	e := newEnv(false)
	_, err := e.uc.VerifyOTP(context.Background(), dto.VerifyOTPRequest{Phone: "3000000000", OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResendOTP_CuentaYaVerificada(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)

	_, err := e.uc.ResendOTP(context.Background(), dto.PhoneRequest{Phone: phone})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResendOTP_InvalidaElCodigoAnterior(t *testing.T) {
	e := newEnv(false)
	ctx := context.Background()
	_, _, err := e.uc.Signup(ctx, dto.SignupRequest{Phone: phone, FullName: "Ana", Password: password})
	require.NoError(t, err)
	old := e.otp.last().code

	_, err = e.uc.ResendOTP(ctx, dto.PhoneRequest{Phone: phone})
	require.NoError(t, err)
	assert.Len(t, e.ver.otps, 1, "solo queda el último código")
	if fresh := e.otp.last().code; fresh != old {
		_, err = e.uc.VerifyOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: old})
		assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / tokens
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)

	out := e.login(t)
	assert.Equal(t, userID, out.UserInfo.ID)
	assert.Equal(t, "Ana Pérez", out.UserInfo.FullName)
	assert.Equal(t, entity.DefaultOrganizationName("Ana Pérez"), out.UserInfo.OrganizationName)
	assert.Contains(t, out.UserInfo.Capabilities, "manage_operators")

	claims, err := jwt.Parse(testSecret, out.Access, jwt.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleManager, claims.Role)
	_, err = jwt.Parse(testSecret, out.Refresh, jwt.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, 1, e.metrics.results["success"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)

	_, err := e.uc.Login(context.Background(), dto.LoginRequest{Phone: phone, Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = e.uc.Login(context.Background(), dto.LoginRequest{Phone: "3000000000", Password: password})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "mismo error para usuario inexistente")
	assert.Equal(t, 2, e.metrics.results["invalid_credentials"])
}

func TestLogin_CuentaBloqueada(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*entity.User)
		want   error
	}{
		{"sin verificar", func(u *entity.User) { u.IsVerified = false }, domain.ErrNotVerified},
		{"inactiva", func(u *entity.User) { u.IsActive = false }, domain.ErrAccountInactive},
		{"dada de baja", func(u *entity.User) { u.IsTerminated = true }, domain.ErrAccountTerminated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(false)
			id := e.verifiedUser(t)
			e.users.mutate(id, tc.mutate)

			_, err := e.uc.Login(context.Background(), dto.LoginRequest{Phone: phone, Password: password})
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, e.metrics.results["blocked"])
		})
	}
}

func TestRefresh_RotaElToken(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)
	session := e.login(t)
	ctx := context.Background()

	pair, err := e.uc.Refresh(ctx, dto.RefreshRequest{Refresh: session.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEqual(t, session.Refresh, pair.Refresh)

	_, err = e.uc.Refresh(ctx, dto.RefreshRequest{Refresh: session.Refresh})
	assert.ErrorIs(t, err, domain.ErrTokenRevoked, "el refresh usado queda revocado")
}

// staleBlacklist simula dos rotaciones simultáneas: ambas leen "no revocado".
type staleBlacklist struct {
	*redis.MemoryTokenBlacklist
}

func (staleBlacklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func TestRefresh_RotacionConcurrenteSoloUnaGana(t *testing.T) {
	e := newEnvWith(envOpts{blacklist: staleBlacklist{redis.NewMemoryTokenBlacklist()}})
	e.verifiedUser(t)
	session := e.login(t)
	ctx := context.Background()

	_, err := e.uc.Refresh(ctx, dto.RefreshRequest{Refresh: session.Refresh})
	require.NoError(t, err)
	_, err = e.uc.Refresh(ctx, dto.RefreshRequest{Refresh: session.Refresh})
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestRefresh_AccessTokenNoSirve(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)
	session := e.login(t)

	_, err := e.uc.Refresh(context.Background(), dto.RefreshRequest{Refresh: session.Access})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_RevocaAmbosTokens(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)
	session := e.login(t)
	ctx := context.Background()

	current, err := jwt.Parse(testSecret, session.Access, jwt.TypeAccess)
	require.NoError(t, err)
	require.NoError(t, e.uc.Logout(ctx, current, dto.RefreshRequest{Refresh: session.Refresh}))

	_, err = e.uc.Refresh(ctx, dto.RefreshRequest{Refresh: session.Refresh})
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestLogout_RefreshDeOtroUsuario(t *testing.T) {
	e := newEnv(false)
	e.verifiedUser(t)
	session := e.login(t)

	other := &jwt.Claims{UserID: "otro"}
	err := e.uc.Logout(context.Background(), other, dto.RefreshRequest{Refresh: session.Refresh})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contraseñas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecuperarPassword_FlujoCompleto(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	ctx := context.Background()

	_, err := e.uc.ForgetPassword(ctx, dto.PhoneRequest{Phone: phone})
	require.NoError(t, err)
	sent := e.otp.last()
	assert.Equal(t, entity.OTPPurposePasswordReset, sent.purpose)

	reset, err := e.uc.VerifyResetOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: sent.code})
	require.NoError(t, err)
	assert.Equal(t, userID, reset.UserID)

	_, err = e.uc.SetNewPassword(ctx, dto.NewPasswordRequest{UserID: userID, TokenID: reset.TokenID, Password: "nueva-clave-99"})
	require.NoError(t, err)

	_, err = e.uc.Login(ctx, dto.LoginRequest{Phone: phone, Password: "nueva-clave-99"})
	require.NoError(t, err)

	_, err = e.uc.SetNewPassword(ctx, dto.NewPasswordRequest{UserID: userID, TokenID: reset.TokenID, Password: "otra-clave-00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el token se consume")
}

// staleOTPs devuelve el OTP tal como estaba antes de que otro request lo marcara usado.
type staleOTPs struct {
	*memVerifications
}

func (r staleOTPs) LatestOTP(ctx context.Context, userID, purpose string) (*entity.VerificationOTP, error) {
	o, err := r.memVerifications.LatestOTP(ctx, userID, purpose)
	if o == nil || err != nil {
		return o, err
	}
	snapshot := *o
	snapshot.Used = false
	return &snapshot, nil
}

func TestVerifyResetOTP_CanjeConcurrenteSoloUnoGana(t *testing.T) {
	e := newEnvWith(envOpts{wrapVer: func(m *memVerifications) repository.VerificationRepository { return staleOTPs{m} }})
	e.verifiedUser(t)
	ctx := context.Background()

	_, err := e.uc.ForgetPassword(ctx, dto.PhoneRequest{Phone: phone})
	require.NoError(t, err)
	code := e.otp.last().code

	_, err = e.uc.VerifyResetOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: code})
	require.NoError(t, err)
	_, err = e.uc.VerifyResetOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: code})
	assert.ErrorIs(t, err, domain.ErrOTPInvalid)
	assert.Len(t, e.ver.tokens, 1, "un solo token de restablecimiento")
}

// staleTokens sigue viendo el token aunque otro request ya lo consumió.
type staleTokens struct {
	*memVerifications
	seen *entity.PasswordResetToken
}

func (r *staleTokens) GetResetToken(ctx context.Context, id, userID string) (*entity.PasswordResetToken, error) {
	if r.seen == nil {
		t, err := r.memVerifications.GetResetToken(ctx, id, userID)
		if t == nil || err != nil {
			return t, err
		}
		copied := *t
		r.seen = &copied
	}
	return r.seen, nil
}

func TestSetNewPassword_TokenConsumidoPorOtroRequest(t *testing.T) {
	e := newEnvWith(envOpts{wrapVer: func(m *memVerifications) repository.VerificationRepository { return &staleTokens{memVerifications: m} }})
	userID := e.verifiedUser(t)
	ctx := context.Background()
	_, err := e.uc.ForgetPassword(ctx, dto.PhoneRequest{Phone: phone})
	require.NoError(t, err)
	reset, err := e.uc.VerifyResetOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: e.otp.last().code})
	require.NoError(t, err)

	_, err = e.uc.SetNewPassword(ctx, dto.NewPasswordRequest{UserID: userID, TokenID: reset.TokenID, Password: "nueva-clave-99"})
	require.NoError(t, err)
	_, err = e.uc.SetNewPassword(ctx, dto.NewPasswordRequest{UserID: userID, TokenID: reset.TokenID, Password: "otra-clave-00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Login(ctx, dto.LoginRequest{Phone: phone, Password: "nueva-clave-99"})
	assert.NoError(t, err, "la segunda no pisa la contraseña")
}

func TestSetNewPassword_ClaveCortaNoConsumeElToken(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	e.ver.tokens["tok"] = &entity.PasswordResetToken{ID: "tok", UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}

	_, err := e.uc.SetNewPassword(context.Background(), dto.NewPasswordRequest{UserID: userID, TokenID: "tok", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, e.ver.tokens, "tok")
}

func TestSetNewPassword_TokenVencido(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	e.ver.tokens["tok"] = &entity.PasswordResetToken{ID: "tok", UserID: userID, ExpiresAt: time.Now().Add(-time.Minute)}

	_, err := e.uc.SetNewPassword(context.Background(), dto.NewPasswordRequest{UserID: userID, TokenID: "tok", Password: "nueva-clave-99"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotContains(t, e.ver.tokens, "tok", "el token vencido se borra")
}

func TestChangePassword(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	ctx := context.Background()

	_, err := e.uc.ChangePassword(ctx, userID, dto.ChangePasswordRequest{OldPassword: "no-es", NewPassword: "nueva-clave-99"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.ChangePassword(ctx, userID, dto.ChangePasswordRequest{OldPassword: password, NewPassword: "nueva-clave-99"})
	require.NoError(t, err)
	_, err = e.uc.Login(ctx, dto.LoginRequest{Phone: phone, Password: "nueva-clave-99"})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_InformaCamposCambiados(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	name := "Ana Pérez"
	addr := "Calle 1 # 2-3"

	out, err := e.uc.UpdateProfile(context.Background(), userID, dto.UpdateProfileRequest{FullName: &name, Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, []string{"address"}, out.UpdatedFields, "full_name no cambió")
	assert.Equal(t, addr, out.Profile.Address)
}

func TestUpdateProfile_NombreVacio(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)
	empty := "  "

	_, err := e.uc.UpdateProfile(context.Background(), userID, dto.UpdateProfileRequest{FullName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadPicture_ReemplazaLaAnterior(t *testing.T) {
	e := newEnv(true)
	userID := e.verifiedUser(t)
	ctx := context.Background()
	upload := func() *dto.ProfilePictureResponse {
		out, err := e.uc.UploadPicture(ctx, userID, auth.PictureUpload{
			Filename: "Foto.PNG", ContentType: "image/png", Size: 4, Body: strings.NewReader("fake"),
		})
		require.NoError(t, err)
		return out
	}

	first := upload()
	assert.Contains(t, first.ProfilePicture, "profile-pictures/"+userID+"/")
	assert.Contains(t, first.ProfilePicture, ".png")
	upload()

	assert.Len(t, e.storage.objects, 1)
	assert.Len(t, e.storage.deleted, 1)

	profile, err := e.uc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(profile.ProfilePicture, "https://storage.test/"))
}

func TestUploadPicture_Validaciones(t *testing.T) {
	e := newEnv(true)
	userID := e.verifiedUser(t)

	_, err := e.uc.UploadPicture(context.Background(), userID, auth.PictureUpload{Filename: "a.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.UploadPicture(context.Background(), userID, auth.PictureUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: auth.MaxPictureSize + 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadPicture_SinStorage(t *testing.T) {
	e := newEnv(false)
	userID := e.verifiedUser(t)

	_, err := e.uc.UploadPicture(context.Background(), userID, auth.PictureUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestDeletePicture(t *testing.T) {
	e := newEnv(true)
	userID := e.verifiedUser(t)
	ctx := context.Background()

	_, err := e.uc.DeletePicture(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin foto")

	_, err = e.uc.UploadPicture(ctx, userID, auth.PictureUpload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 1, Body: strings.NewReader("x")})
	require.NoError(t, err)
	_, err = e.uc.DeletePicture(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, e.storage.objects)
	assert.Empty(t, e.users.users[userID].ProfilePicture)
}
