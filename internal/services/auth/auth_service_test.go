package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/outreachhq/outreach/internal/services/user"
)

type fakeAdmins struct {
	admins map[string]*Admin
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*Admin, error) {
	if a, ok := f.admins[email]; ok {
		return a, nil
	}
	return nil, ErrAdminNotFound
}

type fakeUsers struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type fakeTokens struct {
	rows map[string]*SessionToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{rows: map[string]*SessionToken{}}
}

func (f *fakeTokens) Record(_ context.Context, rec *SessionToken) error {
	f.rows[rec.Token] = rec
	return nil
}

func (f *fakeTokens) IsActive(_ context.Context, token string) (bool, error) {
	rec, ok := f.rows[token]
	if !ok {
		return false, nil
	}
	return !rec.IsRevoked && rec.ExpiresAt.After(time.Now()), nil
}

func (f *fakeTokens) Revoke(_ context.Context, token string) (bool, error) {
	rec, ok := f.rows[token]
	if !ok || rec.IsRevoked {
		return false, nil
	}
	rec.IsRevoked = true
	return true, nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context) (int64, error) {
	var deleted int64
	for token, rec := range f.rows {
		if !rec.ExpiresAt.After(time.Now()) {
			delete(f.rows, token)
			deleted++
		}
	}
	return deleted, nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

type fixture struct {
	svc    *AuthService
	tokens *fakeTokens
	issuer *Issuer
	users  *fakeUsers
}

func newFixture(t *testing.T, users ...*user.User) *fixture {
	t.Helper()

	admins := &fakeAdmins{admins: map[string]*Admin{
		"root@platform.test": {
			ID:           uuid.New(),
			Email:        "root@platform.test",
			PasswordHash: hashPassword(t, "admin-pass"),
		},
	}}

	fu := &fakeUsers{users: map[uuid.UUID]*user.User{}}
	for _, u := range users {
		fu.users[u.ID] = u
	}

	tokens := newFakeTokens()
	issuer := NewIssuer("test-secret", time.Hour)

	return &fixture{
		svc:    NewAuthService(admins, fu, tokens, issuer),
		tokens: tokens,
		issuer: issuer,
		users:  fu,
	}
}

func testUser(t *testing.T, memberships ...user.WorkspaceMembership) *user.User {
	t.Helper()
	return &user.User{
		ID:           uuid.New(),
		Name:         "Sam",
		Email:        "sam@acme.test",
		PasswordHash: hashPassword(t, "user-pass"),
		Workspaces:   memberships,
	}
}

func membership(name string, role user.WorkspaceRole) user.WorkspaceMembership {
	return user.WorkspaceMembership{
		WorkspaceID:   uuid.New(),
		WorkspaceName: name,
		Role:          role,
	}
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AdminLogin(ctx, "root@platform.test", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, TypeAdmin, resp.User.Type)
	assert.Empty(t, resp.User.WorkspaceID)

	// The session is ledger-backed immediately
	p, err := f.svc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestAdminLoginEnumerationResistance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, wrongPassword := f.svc.AdminLogin(ctx, "root@platform.test", "nope")
	_, unknownEmail := f.svc.AdminLogin(ctx, "ghost@platform.test", "admin-pass")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestUserLoginEnumerationResistance(t *testing.T) {
	f := newFixture(t, testUser(t, membership("Acme", user.RoleEditor)))
	ctx := context.Background()

	_, wrongPassword := f.svc.UserLogin(ctx, "sam@acme.test", "nope")
	_, unknownEmail := f.svc.UserLogin(ctx, "ghost@acme.test", "user-pass")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestUserLoginNoWorkspaces(t *testing.T) {
	f := newFixture(t, testUser(t))

	_, err := f.svc.UserLogin(context.Background(), "sam@acme.test", "user-pass")
	assert.ErrorIs(t, err, ErrNoWorkspaceAccess)
}

func TestUserLoginSingleWorkspace(t *testing.T) {
	m := membership("Acme", user.RoleEditor)
	f := newFixture(t, testUser(t, m))
	ctx := context.Background()

	resp, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)
	assert.False(t, resp.RequiresWorkspaceSelection)
	assert.Empty(t, resp.TempToken)
	assert.Equal(t, m.WorkspaceID.String(), resp.User.WorkspaceID)
	assert.Equal(t, "Editor", resp.User.Role)

	p, err := f.svc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, TypeUser, p.Type)
	assert.Equal(t, m.WorkspaceID.String(), p.WorkspaceID)
}

func TestUserLoginMultipleWorkspaces(t *testing.T) {
	m1 := membership("Acme", user.RoleEditor)
	m2 := membership("Globex", user.RoleViewer)
	f := newFixture(t, testUser(t, m1, m2))
	ctx := context.Background()

	resp, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)
	assert.Equal(t, "Multiple workspaces found. Please select a workspace within 5 minutes", resp.Message)
	assert.True(t, resp.RequiresWorkspaceSelection)
	assert.Empty(t, resp.Token)
	assert.NotEmpty(t, resp.TempToken)
	assert.Len(t, resp.AvailableWorkspaces, 2)

	// The temp token is not ledger-backed, so the standard verify path
	// must reject it
	_, err = f.svc.VerifyToken(ctx, resp.TempToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestSelectWorkspace(t *testing.T) {
	m1 := membership("Acme", user.RoleEditor)
	m2 := membership("Globex", user.RoleViewer)
	f := newFixture(t, testUser(t, m1, m2))
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	resp, err := f.svc.SelectWorkspace(ctx, login.TempToken, m2.WorkspaceID.String())
	require.NoError(t, err)
	assert.Equal(t, "Workspace selected successfully", resp.Message)
	assert.Equal(t, m2.WorkspaceID.String(), resp.User.WorkspaceID)
	assert.Equal(t, "Viewer", resp.User.Role)

	p, err := f.svc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, m2.WorkspaceID.String(), p.WorkspaceID)
}

func TestSelectWorkspaceNotAMember(t *testing.T) {
	m1 := membership("Acme", user.RoleEditor)
	m2 := membership("Globex", user.RoleViewer)
	f := newFixture(t, testUser(t, m1, m2))
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	_, err = f.svc.SelectWorkspace(ctx, login.TempToken, uuid.New().String())
	assert.ErrorIs(t, err, ErrWorkspaceAccessDenied)
}

func TestSelectWorkspaceReusableWithinTTL(t *testing.T) {
	m1 := membership("Acme", user.RoleEditor)
	m2 := membership("Globex", user.RoleViewer)
	f := newFixture(t, testUser(t, m1, m2))
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	_, err = f.svc.SelectWorkspace(ctx, login.TempToken, m1.WorkspaceID.String())
	require.NoError(t, err)

	// The temp token is bounded by its TTL, not by use count
	_, err = f.svc.SelectWorkspace(ctx, login.TempToken, m2.WorkspaceID.String())
	require.NoError(t, err)
}

func TestSelectWorkspaceRejectsFullToken(t *testing.T) {
	m := membership("Acme", user.RoleEditor)
	f := newFixture(t, testUser(t, m))
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	_, err = f.svc.SelectWorkspace(ctx, login.Token, m.WorkspaceID.String())
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestSelectWorkspaceExpiredTempToken(t *testing.T) {
	m1 := membership("Acme", user.RoleEditor)
	m2 := membership("Globex", user.RoleViewer)
	u := testUser(t, m1, m2)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now

	f := newFixture(t, u)
	f.issuer.WithClock(func() time.Time { return *clock })
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	later := now.Add(TempTokenTTL + time.Second)
	clock = &later

	_, err = f.svc.SelectWorkspace(ctx, login.TempToken, m1.WorkspaceID.String())
	assert.ErrorIs(t, err, ErrTempTokenExpired)
}

func TestSelectWorkspaceGarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SelectWorkspace(context.Background(), "not-a-jwt", uuid.New().String())
	assert.ErrorIs(t, err, ErrInvalidTempToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	m := membership("Acme", user.RoleEditor)
	f := newFixture(t, testUser(t, m))
	ctx := context.Background()

	login, err := f.svc.UserLogin(ctx, "sam@acme.test", "user-pass")
	require.NoError(t, err)

	assert.Equal(t, "Logout successful", f.svc.Logout(ctx, login.Token))

	// The token is still cryptographically valid but its ledger row is
	// revoked
	_, err = f.svc.VerifyToken(ctx, login.Token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestLogoutIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, "Logout successful", f.svc.Logout(ctx, "unknown-token"))
	assert.Equal(t, "Logout successful", f.svc.Logout(ctx, "unknown-token"))
}

func TestSweepExpiredTokensKeepsLiveSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AdminLogin(ctx, "root@platform.test", "admin-pass")
	require.NoError(t, err)

	f.tokens.rows["stale"] = &SessionToken{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	f.svc.SweepExpiredTokens(ctx)

	_, stale := f.tokens.rows["stale"]
	assert.False(t, stale)

	// The live session survives the sweep
	_, err = f.svc.VerifyToken(ctx, resp.Token)
	assert.NoError(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
