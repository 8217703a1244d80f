// Package memory implementa core.Repository in-process. Pensado para
// desarrollo y tests; un solo mutex serializa todo, con lo cual las
// garantías de unicidad son las mismas que las del driver postgres.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/idocracy/internal/store/core"
)

type Store struct {
	mu sync.Mutex

	users    map[string]core.User     // id -> user
	apps     map[string]core.App      // id -> app
	appUsers map[string]core.AppUser  // id -> membership
	tokens   map[string]core.RefreshToken // id -> refresh token
}

func New() *Store {
	return &Store{
		users:    make(map[string]core.User),
		apps:     make(map[string]core.App),
		appUsers: make(map[string]core.AppUser),
		tokens:   make(map[string]core.RefreshToken),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

// ---- Users ----

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, e := range s.users {
		if strings.ToLower(e.Email) == email {
			return core.ErrConflict
		}
	}
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	u = cloneUser(u)
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd core.UserUpdate) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if upd.Email != nil {
		email := strings.ToLower(*upd.Email)
		for oid, other := range s.users {
			if oid != id && strings.ToLower(other.Email) == email {
				return nil, core.ErrConflict
			}
		}
		u.Email = email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Roles != nil {
		u.Roles = append([]string(nil), (*upd.Roles)...)
	}
	s.users[id] = u
	u = cloneUser(u)
	return &u, nil
}

func (s *Store) UpdateUserPasswordHash(ctx context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.users, id)
	// cascade: membresías y refresh tokens del usuario
	for mid, m := range s.appUsers {
		if m.UserID == id {
			delete(s.appUsers, mid)
		}
	}
	for tid, t := range s.tokens {
		if t.UserID == id {
			delete(s.tokens, tid)
		}
	}
	return nil
}

// ---- Apps ----

func (s *Store) CreateApp(ctx context.Context, a *core.App) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.apps {
		if e.ClientID == a.ClientID {
			return core.ErrConflict
		}
	}
	s.apps[a.ID] = cloneApp(*a)
	return nil
}

func (s *Store) GetAppByID(ctx context.Context, id string) (*core.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	a = cloneApp(a)
	return &a, nil
}

func (s *Store) GetAppByClientID(ctx context.Context, clientID string) (*core.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.apps {
		if a.ClientID == clientID {
			a = cloneApp(a)
			return &a, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) ListApps(ctx context.Context) ([]core.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.App, 0, len(s.apps))
	for _, a := range s.apps {
		out = append(out, cloneApp(a))
	}
	return out, nil
}

func (s *Store) UpdateApp(ctx context.Context, id string, upd core.AppUpdate) (*core.App, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.apps[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.RedirectURIs != nil {
		a.RedirectURIs = append([]string(nil), (*upd.RedirectURIs)...)
	}
	if upd.Description != nil {
		a.Description = strPtr(*upd.Description)
	}
	if upd.LogoURL != nil {
		a.LogoURL = strPtr(*upd.LogoURL)
	}
	if upd.WebsiteURL != nil {
		a.WebsiteURL = strPtr(*upd.WebsiteURL)
	}
	s.apps[id] = a
	a = cloneApp(a)
	return &a, nil
}

func (s *Store) DeleteApp(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.apps, id)
	for mid, m := range s.appUsers {
		if m.AppID == id {
			delete(s.appUsers, mid)
		}
	}
	return nil
}

// ---- App users ----

func (s *Store) CreateAppUser(ctx context.Context, m *core.AppUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// espejo de las FKs del schema: ambas puntas deben existir
	if _, ok := s.users[m.UserID]; !ok {
		return core.ErrNotFound
	}
	if _, ok := s.apps[m.AppID]; !ok {
		return core.ErrNotFound
	}
	for _, e := range s.appUsers {
		if e.AppID == m.AppID && e.UserID == m.UserID {
			return core.ErrConflict
		}
	}
	s.appUsers[m.ID] = cloneAppUser(*m)
	return nil
}

func (s *Store) GetAppUser(ctx context.Context, appID, userID string) (*core.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.appUsers {
		if m.AppID == appID && m.UserID == userID {
			m = cloneAppUser(m)
			return &m, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) ListAppUsersByApp(ctx context.Context, appID string) ([]core.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.AppUser
	for _, m := range s.appUsers {
		if m.AppID == appID {
			out = append(out, cloneAppUser(m))
		}
	}
	return out, nil
}

func (s *Store) ListAppUsersByUser(ctx context.Context, userID string) ([]core.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.AppUser
	for _, m := range s.appUsers {
		if m.UserID == userID {
			out = append(out, cloneAppUser(m))
		}
	}
	return out, nil
}

func (s *Store) UpdateAppUserRoles(ctx context.Context, appID, userID string, roles []string) (*core.AppUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.appUsers {
		if m.AppID == appID && m.UserID == userID {
			m.Roles = append([]string(nil), roles...)
			s.appUsers[id] = m
			m = cloneAppUser(m)
			return &m, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) DeleteAppUser(ctx context.Context, appID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.appUsers {
		if m.AppID == appID && m.UserID == userID {
			delete(s.appUsers, id)
			return nil
		}
	}
	return core.ErrNotFound
}

// ---- Refresh tokens ----

func (s *Store) CreateRefreshToken(ctx context.Context, t *core.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// espejo de la FK refresh_tokens.user_id
	if _, ok := s.users[t.UserID]; !ok {
		return core.ErrNotFound
	}
	s.tokens[t.ID] = *t
	return nil
}

func (s *Store) GetRefreshToken(ctx context.Context, token string) (*core.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			t := t
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.Token == token {
			delete(s.tokens, id)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteRefreshTokensByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, id)
		}
	}
	return nil
}

func (s *Store) DeleteExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.tokens {
		if t.ExpiresAt.Before(before) {
			delete(s.tokens, id)
			n++
		}
	}
	return n, nil
}

// ---- clones (evitan aliasing de slices hacia afuera) ----

func cloneUser(u core.User) core.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}

func cloneApp(a core.App) core.App {
	a.RedirectURIs = append([]string(nil), a.RedirectURIs...)
	return a
}

func cloneAppUser(m core.AppUser) core.AppUser {
	m.Roles = append([]string(nil), m.Roles...)
	return m
}

func strPtr(s string) *string { return &s }
