package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/services/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password. The two cases must stay indistinguishable to the
	// caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoWorkspaceAccess means the credentials were right but the
	// user belongs to no workspace.
	ErrNoWorkspaceAccess = errors.New("no workspaces assigned")

	// ErrWorkspaceAccessDenied means the selected workspace is not in
	// the user's current membership list.
	ErrWorkspaceAccessDenied = errors.New("access denied to this workspace")

	// ErrInvalidOrExpiredToken is the uniform failure of the standard
	// verify path: signature failure, expiry, missing ledger row and
	// revoked ledger row all collapse into it.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// Temp-token failures are the one place expiry and invalidity are
	// distinguished; the temp token is never ledger-backed, so the
	// crypto check is all there is.
	ErrTempTokenExpired = errors.New("temporary token expired")
	ErrInvalidTempToken = errors.New("invalid temporary token")
	ErrWrongTokenType   = errors.New("invalid token type")
)

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type tokenStore interface {
	Record(ctx context.Context, rec *SessionToken) error
	IsActive(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthService orchestrates login, workspace disambiguation, logout and
// token verification for both principal kinds.
type AuthService struct {
	admins adminStore
	users  userStore
	tokens tokenStore
	issuer *Issuer
}

func NewAuthService(admins adminStore, users userStore, tokens tokenStore, issuer *Issuer) *AuthService {
	return &AuthService{
		admins: admins,
		users:  users,
		tokens: tokens,
		issuer: issuer,
	}
}

// AdminLogin authenticates a platform admin and mints a session token
// with no workspace context.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	principal := Principal{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Type:  TypeAdmin,
		Role:  "admin",
	}

	token, err := s.issueSession(ctx, principal, admin.ID, nil)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    &principal,
	}, nil
}

// UserLogin authenticates a workspace user. A single membership yields
// a full session immediately; multiple memberships yield a temporary
// token plus the workspace picker.
func (s *AuthService) UserLogin(ctx context.Context, email, password string) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if len(u.Workspaces) == 0 {
		return nil, ErrNoWorkspaceAccess
	}

	if len(u.Workspaces) == 1 {
		principal := userPrincipal(u, u.Workspaces[0])
		workspaceID := u.Workspaces[0].WorkspaceID

		token, err := s.issueSession(ctx, principal, u.ID, &workspaceID)
		if err != nil {
			return nil, err
		}

		return &LoginResponse{
			Message: "Login successful",
			Token:   token,
			User:    &principal,
		}, nil
	}

	// Multiple workspaces: mint a temp token authorizing only the
	// selection call. It is deliberately not recorded in the ledger.
	tempPrincipal := Principal{
		ID:    u.ID.String(),
		Email: u.Email,
		Type:  TypeTemp,
	}

	tempToken, _, err := s.issuer.IssueTemp(tempPrincipal)
	if err != nil {
		return nil, err
	}

	options := make([]WorkspaceOption, 0, len(u.Workspaces))
	for _, m := range u.Workspaces {
		options = append(options, WorkspaceOption{
			WorkspaceID: m.WorkspaceID.String(),
			Name:        m.WorkspaceName,
			Role:        m.Role,
		})
	}

	return &LoginResponse{
		Message:                    "Multiple workspaces found. Please select a workspace within 5 minutes",
		RequiresWorkspaceSelection: true,
		TempToken:                  tempToken,
		User: &Principal{
			ID:    u.ID.String(),
			Email: u.Email,
			Name:  u.Name,
			Type:  TypeUser,
		},
		AvailableWorkspaces: options,
	}, nil
}

// SelectWorkspace exchanges a temp token plus a workspace choice for a
// full session token. Memberships are re-read from the database; only
// the workspace id is trusted from the client.
func (s *AuthService) SelectWorkspace(ctx context.Context, tempToken, workspaceID string) (*LoginResponse, error) {
	claims, err := s.issuer.Verify(tempToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, ErrTempTokenExpired
		}
		return nil, ErrInvalidTempToken
	}

	if claims.Type != TypeTemp {
		return nil, ErrWrongTokenType
	}

	userID, err := uuid.Parse(claims.Principal.ID)
	if err != nil {
		return nil, ErrInvalidTempToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidTempToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Membership may have been revoked between login and selection;
	// this re-check closes that window.
	var selected *user.WorkspaceMembership
	for i := range u.Workspaces {
		if u.Workspaces[i].WorkspaceID.String() == workspaceID {
			selected = &u.Workspaces[i]
			break
		}
	}
	if selected == nil {
		return nil, ErrWorkspaceAccessDenied
	}

	principal := userPrincipal(u, *selected)

	token, err := s.issueSession(ctx, principal, u.ID, &selected.WorkspaceID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Message: "Workspace selected successfully",
		Token:   token,
		User:    &principal,
	}, nil
}

// Logout revokes the token's ledger row. It never fails visibly: the
// caller's goal is satisfied whether or not a row was changed.
func (s *AuthService) Logout(ctx context.Context, token string) string {
	if _, err := s.tokens.Revoke(ctx, token); err != nil {
		slog.WarnContext(ctx, "Failed to revoke session token", slog.Any("error", err))
	}

	return "Logout successful"
}

// SweepExpiredTokens deletes ledger rows whose expiry has passed.
// Expired rows already fail IsActive, so this only reclaims space.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) {
	deleted, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to sweep expired session tokens", slog.Any("error", err))
		return
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "Swept expired session tokens", slog.Int64("deleted", deleted))
	}
}

// VerifyToken runs the standard verify path: cryptographic check, then
// ledger check. Any failure collapses into ErrInvalidOrExpiredToken.
// The principal is echoed from the claims, not re-read from the
// database.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	active, err := s.tokens.IsActive(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check session token: %w", err)
	}
	if !active {
		return nil, ErrInvalidOrExpiredToken
	}

	principal := claims.Principal
	return &principal, nil
}

func (s *AuthService) issueSession(ctx context.Context, p Principal, principalID uuid.UUID, workspaceID *uuid.UUID) (string, error) {
	token, expiresAt, err := s.issuer.Issue(p)
	if err != nil {
		return "", err
	}

	rec := &SessionToken{
		Token:         token,
		PrincipalID:   principalID,
		PrincipalType: string(p.Type),
		WorkspaceID:   workspaceID,
		ExpiresAt:     expiresAt,
	}

	if err := s.tokens.Record(ctx, rec); err != nil {
		return "", err
	}

	return token, nil
}

func userPrincipal(u *user.User, m user.WorkspaceMembership) Principal {
	return Principal{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Type:          TypeUser,
		Role:          string(m.Role),
		WorkspaceID:   m.WorkspaceID.String(),
		WorkspaceName: m.WorkspaceName,
	}
}
