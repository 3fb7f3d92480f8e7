package service

import (
	"context"
	"strings"
	"time"

	"dnaarchive/internal/audit"
	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"gorm.io/gorm"
)

type memUsers struct {
	rows   map[uint]*model.User
	nextID uint
}

func newMemUsers(users ...*model.User) *memUsers {
	m := &memUsers{rows: map[uint]*model.User{}}
	for _, u := range users {
		m.nextID++
		if u.ID == 0 {
			u.ID = m.nextID
		}
		m.rows[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.rows {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) List(context.Context, int, int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint) error {
	delete(m.rows, id)
	return nil
}

type memRoles struct {
	rows []model.Role
}

func newMemRoles() *memRoles {
	return &memRoles{rows: []model.Role{
		{ID: 1, RoleName: model.RoleAdmin},
		{ID: 2, RoleName: model.RoleScientificOfficer},
		{ID: 3, RoleName: model.RoleArchiveInCharge},
	}}
}

func (m *memRoles) FindByID(_ context.Context, id uint) (*model.Role, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			r := m.rows[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRoles) FindByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	for i := range m.rows {
		if m.rows[i].RoleName == name {
			r := m.rows[i]
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRoles) ListAll(context.Context) ([]model.Role, error) {
	return m.rows, nil
}

func (m *memRoles) Ensure(ctx context.Context, name model.RoleName) (*model.Role, error) {
	if r, err := m.FindByName(ctx, name); err == nil {
		return r, nil
	}
	r := model.Role{ID: uint(len(m.rows) + 1), RoleName: name}
	m.rows = append(m.rows, r)
	return &r, nil
}

type memCreds struct {
	tokens   map[string]model.RefreshToken
	tfa      map[uint]*model.TwoFactorAuth
	accounts []model.AuthAccount
	users    *memUsers
}

func newMemCreds(users *memUsers) *memCreds {
	return &memCreds{tokens: map[string]model.RefreshToken{}, tfa: map[uint]*model.TwoFactorAuth{}, users: users}
}

func (m *memCreds) SaveRefreshToken(_ context.Context, t *model.RefreshToken) error {
	m.tokens[t.Token] = *t
	return nil
}

func (m *memCreds) ConsumeRefreshToken(_ context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok || !t.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	delete(m.tokens, token)
	return &t, nil
}

func (m *memCreds) FindTwoFactor(_ context.Context, userID uint) (*model.TwoFactorAuth, error) {
	t, ok := m.tfa[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memCreds) UpsertTwoFactorSecret(_ context.Context, userID uint, secret string) error {
	m.tfa[userID] = &model.TwoFactorAuth{UserID: userID, SecretKey: secret}
	return nil
}

func (m *memCreds) SetTwoFactorEnabled(_ context.Context, userID uint, enabled bool) error {
	t, ok := m.tfa[userID]
	if !ok {
		return nil
	}
	t.IsEnabled = enabled
	if !enabled {
		t.SecretKey = ""
	}
	if m.users != nil {
		if u, ok := m.users.rows[userID]; ok {
			u.TwoFactorEnabled = enabled
		}
	}
	return nil
}

func (m *memCreds) FindAuthAccount(_ context.Context, provider, accountID string) (*model.AuthAccount, error) {
	for _, a := range m.accounts {
		if a.Provider == provider && a.ProviderAccountID == accountID {
			cp := a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCreds) LinkAuthAccount(_ context.Context, a *model.AuthAccount) error {
	m.accounts = append(m.accounts, *a)
	return nil
}

// inlineTx runs fn directly; the in-memory repos have no transactions
type inlineTx struct {
	calls int
}

func (t *inlineTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type memRecorder struct {
	entries []audit.Entry
	err     error
}

func (m *memRecorder) Record(_ context.Context, e audit.Entry) (*model.AuditTrail, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.entries = append(m.entries, e)
	return &model.AuditTrail{ID: uint(len(m.entries)), EntityType: e.EntityType, Action: e.Action, PerformedBy: e.UserID}, nil
}

type stubIssuer struct {
	n int
}

func (s *stubIssuer) AccessToken(userID uint, email, role string) (string, time.Time, error) {
	s.n++
	return "access-" + email + "-" + role, timeNow().Add(time.Hour), nil
}

func (s *stubIssuer) RefreshToken() (string, time.Time) {
	s.n++
	return "refresh-" + strings.Repeat("x", s.n), timeNow().Add(24 * time.Hour)
}

var (
	_ repository.UserRepository       = (*memUsers)(nil)
	_ repository.RoleRepository       = (*memRoles)(nil)
	_ repository.CredentialRepository = (*memCreds)(nil)
	_ repository.TransactionManager   = (*inlineTx)(nil)
	_ audit.Recorder                  = (*memRecorder)(nil)
	_ TokenIssuer                     = (*stubIssuer)(nil)
)
