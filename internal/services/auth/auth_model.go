package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/services/user"
)

type PrincipalType string

const (
	TypeAdmin PrincipalType = "admin"
	TypeUser  PrincipalType = "user"

	// TypeTemp is the short-lived principal minted mid-login for users
	// with more than one workspace. It authorizes workspace selection
	// and nothing else.
	TypeTemp PrincipalType = "temp"
)

// Principal is the identity attached to a request after token
// verification. Guards never inspect optional fields directly; they go
// through IsAdmin/CanEdit/CanView.
type Principal struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name,omitempty"`
	Type          PrincipalType `json:"type"`
	Role          string        `json:"role,omitempty"`
	WorkspaceID   string        `json:"workspaceId,omitempty"`
	WorkspaceName string        `json:"workspaceName,omitempty"`
}

func (p *Principal) IsAdmin() bool {
	return p.Type == TypeAdmin
}

// CanEdit passes for admins and workspace editors. Admin is a platform
// capability, not a membership, so it bypasses the role check.
func (p *Principal) CanEdit() bool {
	return p.IsAdmin() || p.Role == string(user.RoleEditor)
}

func (p *Principal) CanView() bool {
	return p.CanEdit() || p.Role == string(user.RoleViewer)
}

// Admin is a platform-level principal. Admins are seeded out-of-band
// and immutable at runtime.
type Admin struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// SessionToken is the ledger row recorded for every issued session
// token. The signed JWT alone is necessary but not sufficient: a token
// is usable only while its ledger row is unrevoked and unexpired.
type SessionToken struct {
	ID            uuid.UUID  `db:"id"`
	Token         string     `db:"token"`
	PrincipalID   uuid.UUID  `db:"principal_id"`
	PrincipalType string     `db:"principal_type"`
	WorkspaceID   *uuid.UUID `db:"workspace_id"`
	ExpiresAt     time.Time  `db:"expires_at"`
	IsRevoked     bool       `db:"is_revoked"`
	CreatedAt     time.Time  `db:"created_at"`
}

// LoginRequest is the payload for both login endpoints
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SelectWorkspaceRequest is the payload for the workspace-selection
// endpoint
type SelectWorkspaceRequest struct {
	TempToken   string `json:"tempToken"`
	WorkspaceID string `json:"workspaceId"`
}

// WorkspaceOption is one entry of the picker returned to
// multi-workspace users
type WorkspaceOption struct {
	WorkspaceID string             `json:"workspaceId"`
	Name        string             `json:"name"`
	Role        user.WorkspaceRole `json:"role"`
}

// LoginResponse is the shape of every successful login-flow response.
// For multi-workspace users Token is empty and TempToken plus
// AvailableWorkspaces are set instead.
type LoginResponse struct {
	Message                    string            `json:"message"`
	Token                      string            `json:"token,omitempty"`
	User                       *Principal        `json:"user,omitempty"`
	RequiresWorkspaceSelection bool              `json:"requiresWorkspaceSelection,omitempty"`
	TempToken                  string            `json:"tempToken,omitempty"`
	AvailableWorkspaces        []WorkspaceOption `json:"availableWorkspaces,omitempty"`
}

// VerifyResponse echoes the decoded principal back to the caller
type VerifyResponse struct {
	Valid bool       `json:"valid"`
	User  *Principal `json:"user"`
}
