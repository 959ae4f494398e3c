package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `
	id, COALESCE(organization_id::text, ''), username, email, phone, full_name, first_name, last_name, address,
	password_hash, role, profile_picture, is_owner, is_verified, is_active, is_terminated, last_login_at,
	created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.Username, &u.Email, &u.Phone, &u.FullName, &u.FirstName, &u.LastName, &u.Address,
		&u.PasswordHash, &u.Role, &u.ProfilePicture, &u.IsOwner, &u.IsVerified, &u.IsActive, &u.IsTerminated, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// userUniqueError traduce la violación de unicidad al error de dominio según el índice.
func userUniqueError(err error) error {
	switch violatedConstraint(err) {
	case "users_phone_key":
		return domain.ErrPhoneAlreadyExists
	case "users_email_key":
		return domain.ErrEmailAlreadyExists
	}
	return domain.ErrDuplicate
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, organization_id, username, email, phone, full_name, first_name, last_name, address,
			password_hash, role, profile_picture, is_owner, is_verified, is_active, is_terminated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		u.ID, nullIfEmpty(u.OrganizationID), u.Username, u.Email, u.Phone, u.FullName, u.FirstName, u.LastName, u.Address,
		u.PasswordHash, u.Role, u.ProfilePicture, u.IsOwner, u.IsVerified, u.IsActive, u.IsTerminated, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return userUniqueError(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// GetByPhone obtiene un usuario por teléfono (credencial de login).
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.findOne(ctx, "phone = $1", phone)
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, nil
	}
	return r.findOne(ctx, "email <> '' AND lower(email) = lower($1)", email)
}

// UsernameExists indica si el username ya está tomado.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// Update persiste perfil y flags de la cuenta. La contraseña va por UpdatePassword.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE users SET organization_id = $2, email = $3, phone = $4, full_name = $5, first_name = $6, last_name = $7,
			address = $8, role = $9, profile_picture = $10, is_owner = $11, is_verified = $12, is_active = $13,
			is_terminated = $14, updated_at = $15
		WHERE id = $1`,
		u.ID, nullIfEmpty(u.OrganizationID), u.Email, u.Phone, u.FullName, u.FirstName, u.LastName,
		u.Address, u.Role, u.ProfilePicture, u.IsOwner, u.IsVerified, u.IsActive,
		u.IsTerminated, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return userUniqueError(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin registra la fecha del último login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// ListByOrganization todos los usuarios de la organización.
func (r *UserRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.User, error) {
	return r.list(ctx, newWhere("organization_id = $1", organizationID))
}

// ListOperators usuarios con rol operator de la organización, con filtros opcionales.
func (r *UserRepo) ListOperators(ctx context.Context, organizationID string, f repository.OperatorFilter) ([]*entity.User, error) {
	w := newWhere("organization_id = $1", organizationID)
	w.add("role = ?", entity.RoleOperator)
	if f.FullName != "" {
		w.add("full_name ILIKE ?", likePattern(f.FullName))
	}
	if f.Phone != "" {
		w.add("phone ILIKE ?", likePattern(f.Phone))
	}
	if f.IsActive != nil {
		w.add("is_active = ?", *f.IsActive)
	}
	if f.IsVerified != nil {
		w.add("is_verified = ?", *f.IsVerified)
	}
	return r.list(ctx, w)
}

func (r *UserRepo) list(ctx context.Context, w *whereBuilder) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+w.String()+` ORDER BY created_at DESC, id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
