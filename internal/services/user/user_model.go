package user

import (
	"time"

	"github.com/google/uuid"
)

type WorkspaceRole string

const (
	RoleEditor WorkspaceRole = "Editor"
	RoleViewer WorkspaceRole = "Viewer"
)

// Valid reports whether the role is one of the two workspace roles.
// Admin is a separate principal type, never a workspace role.
func (r WorkspaceRole) Valid() bool {
	return r == RoleEditor || r == RoleViewer
}

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Workspaces the user belongs to, with the workspace name resolved.
	Workspaces []WorkspaceMembership `db:"-" json:"workspaces"`
}

type WorkspaceMembership struct {
	WorkspaceID   uuid.UUID     `db:"workspace_id" json:"workspaceId"`
	WorkspaceName string        `db:"workspace_name" json:"workspaceName"`
	Role          WorkspaceRole `db:"role" json:"role"`
}

// CreateUserRequest captures payload for creating a user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest captures payload for updating a user
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ListUsersQuery carries pagination and search parameters for listing users
type ListUsersQuery struct {
	Page   int
	Limit  int
	Search string
}
