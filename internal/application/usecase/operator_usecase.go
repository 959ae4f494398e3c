package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

const (
	generatedPasswordLen = 10
	passwordAlphabet     = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	usernameSuffixLen    = 4
	usernameAttempts     = 5
)

// OperatorUseCase gestión de operadores dentro de la organización del usuario autenticado.
type OperatorUseCase struct {
	repo repository.UserRepository
}

// NewOperatorUseCase construye el caso de uso.
func NewOperatorUseCase(repo repository.UserRepository) *OperatorUseCase {
	return &OperatorUseCase{repo: repo}
}

// Create da de alta un operador verificado y activo. Si no viene password se genera
// una y se devuelve una sola vez en la respuesta.
func (uc *OperatorUseCase) Create(ctx context.Context, organizationID string, in dto.CreateOperatorRequest) (*dto.OperatorCreatedResponse, error) {
	fullName := strings.TrimSpace(in.FullName)
	phone := strings.TrimSpace(in.Phone)
	if fullName == "" || phone == "" {
		return nil, domain.ErrInvalidInput
	}

	password, generated := in.Password, ""
	if password == "" {
		p, err := randomString(generatedPasswordLen, passwordAlphabet)
		if err != nil {
			return nil, err
		}
		password, generated = p, p
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	username, err := uc.uniqueUsername(ctx, fullName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Username:       username,
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          phone,
		FullName:       fullName,
		Address:        in.Address,
		PasswordHash:   string(hash),
		Role:           entity.RoleOperator,
		IsVerified:     true,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &dto.OperatorCreatedResponse{Operator: *ToUserResponse(user), Password: generated}, nil
}

// List operadores de la organización con filtros opcionales.
func (uc *OperatorUseCase) List(ctx context.Context, organizationID string, q dto.OperatorListQuery) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListOperators(ctx, organizationID, repository.OperatorFilter{
		FullName:   strings.TrimSpace(q.FullName),
		Phone:      strings.TrimSpace(q.Phone),
		IsActive:   q.IsActive,
		IsVerified: q.IsVerified,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un operador; otro rol u otra organización = 404.
func (uc *OperatorUseCase) GetByID(ctx context.Context, organizationID, id string) (*dto.UserResponse, error) {
	u, err := uc.operator(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Delete baja lógica: is_active=false, is_terminated=true.
func (uc *OperatorUseCase) Delete(ctx context.Context, organizationID, id string) error {
	u, err := uc.operator(ctx, organizationID, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	u.IsTerminated = true
	u.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, u)
}

func (uc *OperatorUseCase) operator(ctx context.Context, organizationID, id string) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.OrganizationID != organizationID || u.Role != entity.RoleOperator {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (uc *OperatorUseCase) uniqueUsername(ctx context.Context, fullName string) (string, error) {
	base := UsernameBase(fullName)
	for i := 0; i < usernameAttempts; i++ {
		suffix, err := randomString(usernameSuffixLen, "0123456789")
		if err != nil {
			return "", err
		}
		candidate := base + suffix
		exists, err := uc.repo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.ErrDuplicate
}

// UsernameBase quita acentos, espacios y símbolos del nombre: "José Pérez" -> "joseperez".
func UsernameBase(fullName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, fullName)
	if err != nil {
		folded = fullName
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "operator"
	}
	return b.String()
}

func randomString(n int, alphabet string) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
