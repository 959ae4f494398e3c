package auth_test

import (
	"context"
	"io"
	"sync"

	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/domain"
	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
	"github.com/jhoicas/pos-backoffice/internal/domain/repository"
)

// ── usuarios ─────────────────────────────────────────────────────────────────

type memUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (r *memUsers) find(match func(*entity.User) bool) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Phone == u.Phone {
			return domain.ErrPhoneAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *memUsers) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Phone == phone }), nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, nil
	}
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }) != nil, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	hash := stored.PasswordHash
	cp := *u
	cp.PasswordHash = hash
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUsers) TouchLastLogin(context.Context, string) error { return nil }

func (r *memUsers) ListByOrganization(context.Context, string) ([]*entity.User, error) {
	return nil, nil
}

func (r *memUsers) ListOperators(context.Context, string, repository.OperatorFilter) ([]*entity.User, error) {
	return nil, nil
}

// mutate cambia el usuario guardado (simula cambios hechos por otro proceso).
func (r *memUsers) mutate(id string, fn func(*entity.User)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.users[id])
}

// ── organizaciones ───────────────────────────────────────────────────────────

type memOrgs struct {
	orgs map[string]*entity.Organization
}

func (r *memOrgs) Create(_ context.Context, o *entity.Organization) error {
	r.orgs[o.ID] = o
	return nil
}

func (r *memOrgs) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	return r.orgs[id], nil
}

func (r *memOrgs) Update(_ context.Context, o *entity.Organization) error {
	r.orgs[o.ID] = o
	return nil
}

// ── verificaciones ───────────────────────────────────────────────────────────

type memVerifications struct {
	otps   []*entity.VerificationOTP
	tokens map[string]*entity.PasswordResetToken
}

func (r *memVerifications) CreateOTP(_ context.Context, otp *entity.VerificationOTP) error {
	r.otps = append(r.otps, otp)
	return nil
}

func (r *memVerifications) LatestOTP(_ context.Context, userID, purpose string) (*entity.VerificationOTP, error) {
	for i := len(r.otps) - 1; i >= 0; i-- {
		if o := r.otps[i]; o.UserID == userID && o.Purpose == purpose {
			return o, nil
		}
	}
	return nil, nil
}

func (r *memVerifications) MarkOTPUsed(_ context.Context, id string) error {
	for _, o := range r.otps {
		if o.ID == id && !o.Used {
			o.Used = true
			return nil
		}
	}
	return domain.ErrOTPInvalid
}

func (r *memVerifications) DeleteOTPs(_ context.Context, userID string) error {
	kept := r.otps[:0]
	for _, o := range r.otps {
		if o.UserID != userID {
			kept = append(kept, o)
		}
	}
	r.otps = kept
	return nil
}

func (r *memVerifications) CreateResetToken(_ context.Context, t *entity.PasswordResetToken) error {
	r.tokens[t.ID] = t
	return nil
}

func (r *memVerifications) GetResetToken(_ context.Context, id, userID string) (*entity.PasswordResetToken, error) {
	t, ok := r.tokens[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	return t, nil
}

func (r *memVerifications) DeleteResetToken(_ context.Context, id string) error {
	if _, ok := r.tokens[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, id)
	return nil
}

// ── tx, OTP, storage, métricas ───────────────────────────────────────────────

type memTx struct {
	repos repository.TxRepositories
}

func (t *memTx) Run(_ context.Context, fn func(repository.TxRepositories) error) error {
	return fn(t.repos)
}

type sentOTP struct {
	phone, code, purpose string
}

type captureSender struct {
	sent []sentOTP
}

func (s *captureSender) SendOTP(_ context.Context, phone, code, purpose string) error {
	s.sent = append(s.sent, sentOTP{phone, code, purpose})
	return nil
}

func (s *captureSender) last() sentOTP {
	if len(s.sent) == 0 {
		return sentOTP{}
	}
	return s.sent[len(s.sent)-1]
}

type memStorage struct {
	objects map[string]int64
	deleted []string
}

func (s *memStorage) Put(_ context.Context, key string, body io.Reader, size int64, _ string) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	s.objects[key] = size
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) URL(_ context.Context, key string) (string, error) {
	return "https://storage.test/" + key + "?signed=1", nil
}

type loginMetrics struct {
	ports.NopMetrics
	results map[string]int
}

func (m *loginMetrics) LoginAttempt(result string) { m.results[result]++ }
