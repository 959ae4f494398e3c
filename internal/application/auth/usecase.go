package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

// Config vigencias de tokens y códigos.
type Config struct {
	Secret            string
	Issuer            string
	ExpMinutes        int
	RefreshExpMinutes int
	OTPTTL            time.Duration
	ResetTokenTTL     time.Duration
}

// TxRunner ejecuta fn dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// Deps puertos que necesita el caso de uso. Storage puede ser nil (fotos deshabilitadas).
type Deps struct {
	Users         repository.UserRepository
	Organizations repository.OrganizationRepository
	Verifications repository.VerificationRepository
	TxRunner      TxRunner
	Blacklist     ports.TokenBlacklist
	OTPSender     ports.OTPSender
	Storage       ports.ObjectStorage
	Metrics       ports.BusinessMetrics
	Log           *logger.Logger
}

// AuthUseCase casos de uso de autenticación: registro con OTP, login, tokens y perfil.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	orgRepo   repository.OrganizationRepository
	verRepo   repository.VerificationRepository
	txRunner  TxRunner
	blacklist ports.TokenBlacklist
	otp       ports.OTPSender
	storage   ports.ObjectStorage
	metrics   ports.BusinessMetrics
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(d Deps, cfg Config) *AuthUseCase {
	if d.Metrics == nil {
		d.Metrics = ports.NopMetrics{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 5 * time.Minute
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 180 * time.Minute
	}
	return &AuthUseCase{
		userRepo:  d.Users,
		orgRepo:   d.Organizations,
		verRepo:   d.Verifications,
		txRunner:  d.TxRunner,
		blacklist: d.Blacklist,
		otp:       d.OTPSender,
		storage:   d.Storage,
		metrics:   d.Metrics,
		log:       d.Log.Named("auth"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Signup registra al dueño de una organización nueva. La cuenta queda sin verificar y se
// envía un OTP al teléfono. Si el teléfono ya existe sin verificar se actualizan los datos
// y se reenvía el código (created=false).
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.SignupResponse, bool, error) {
	phone := strings.TrimSpace(in.Phone)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	if phone == "" || fullName == "" || len(in.Password) < minPasswordLen {
		return nil, false, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && existing.IsVerified {
		return nil, false, domain.ErrPhoneAlreadyExists
	}
	if email != "" {
		other, err := uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if other != nil && (existing == nil || other.ID != existing.ID) {
			return nil, false, domain.ErrEmailAlreadyExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	now := uc.now()
	var (
		user    *entity.User
		code    string
		created = existing == nil
	)
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if existing != nil {
			existing.FullName = fullName
			existing.Email = email
			existing.PasswordHash = string(hash)
			existing.UpdatedAt = now
			if err := repos.Users.Update(ctx, existing); err != nil {
				return err
			}
			if err := repos.Users.UpdatePassword(ctx, existing.ID, existing.PasswordHash); err != nil {
				return err
			}
			user = existing
		} else {
			orgName := strings.TrimSpace(in.OrganizationName)
			if orgName == "" {
				orgName = entity.DefaultOrganizationName(fullName)
			}
			org := &entity.Organization{
				ID:        uuid.New().String(),
				Name:      orgName,
				Email:     email,
				Phone:     phone,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Organizations.Create(ctx, org); err != nil {
				return err
			}
			user = &entity.User{
				ID:             uuid.New().String(),
				OrganizationID: org.ID,
				Username:       phone,
				Email:          email,
				Phone:          phone,
				FullName:       fullName,
				PasswordHash:   string(hash),
				Role:           entity.RoleManager,
				IsOwner:        true,
				IsActive:       true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := repos.Users.Create(ctx, user); err != nil {
				return err
			}
		}
		var err error
		code, err = uc.issueOTP(ctx, repos.Verifications, user.ID, entity.OTPPurposePhoneVerification)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	uc.deliverOTP(ctx, user, code, entity.OTPPurposePhoneVerification)

	uc.log.Info().Str("user_id", user.ID).Bool("created", created).Msg("registro pendiente de verificación")
	return &dto.SignupResponse{
		Message: "Se envió un código de verificación al teléfono",
		UserID:  user.ID,
		Phone:   user.Phone,
	}, created, nil
}

// VerifyOTP valida el código de verificación del teléfono y marca la cuenta como verificada.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) (*dto.MessageResponse, error) {
	user, err := uc.userByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if err := uc.consumeOTP(ctx, user.ID, entity.OTPPurposePhoneVerification, in.OTP); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.UpdatedAt = uc.now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Cuenta verificada"}, nil
}

// ResendOTP emite un nuevo código de verificación. Una cuenta ya verificada devuelve ErrConflict.
func (uc *AuthUseCase) ResendOTP(ctx context.Context, in dto.PhoneRequest) (*dto.MessageResponse, error) {
	user, err := uc.userByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, domain.ErrConflict
	}
	code, err := uc.issueOTP(ctx, uc.verRepo, user.ID, entity.OTPPurposePhoneVerification)
	if err != nil {
		return nil, err
	}
	uc.deliverOTP(ctx, user, code, entity.OTPPurposePhoneVerification)
	return &dto.MessageResponse{Message: "Se envió un nuevo código"}, nil
}

func (uc *AuthUseCase) userByPhone(ctx context.Context, phone string) (*entity.User, error) {
	user, err := uc.userRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// issueOTP borra los códigos previos del usuario y guarda uno nuevo de 6 dígitos.
func (uc *AuthUseCase) issueOTP(ctx context.Context, repo repository.VerificationRepository, userID, purpose string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	if err := repo.DeleteOTPs(ctx, userID); err != nil {
		return "", err
	}
	now := uc.now()
	otp := &entity.VerificationOTP{
		ID:        uuid.New().String(),
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(uc.cfg.OTPTTL),
		CreatedAt: now,
	}
	if err := repo.CreateOTP(ctx, otp); err != nil {
		return "", err
	}
	return code, nil
}

// consumeOTP compara el código con el último emitido y lo marca usado.
func (uc *AuthUseCase) consumeOTP(ctx context.Context, userID, purpose, code string) error {
	otp, err := uc.verRepo.LatestOTP(ctx, userID, purpose)
	if err != nil {
		return err
	}
	if otp == nil || otp.Used || subtle.ConstantTimeCompare([]byte(otp.Code), []byte(strings.TrimSpace(code))) != 1 {
		return domain.ErrOTPInvalid
	}
	if !otp.IsValid(uc.now()) {
		return domain.ErrOTPExpired
	}
	return uc.verRepo.MarkOTPUsed(ctx, otp.ID)
}

// deliverOTP la entrega es best-effort: el código ya quedó guardado y puede reenviarse.
func (uc *AuthUseCase) deliverOTP(ctx context.Context, user *entity.User, code, purpose string) {
	if uc.otp == nil {
		return
	}
	if err := uc.otp.SendOTP(ctx, user.Phone, code, purpose); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Str("purpose", purpose).Msg("no se pudo enviar el OTP")
	}
}
