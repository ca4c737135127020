package workspace

import (
	"time"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/services/user"
)

// Workspace is a tenant. All campaign data hangs off a workspace and
// every tenant-scoped query filters by its id.
type Workspace struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// UsersCount is populated on single-workspace reads only.
	UsersCount *int `db:"-" json:"usersCount,omitempty"`
}

// Member is a user's view within one workspace: identity plus the role
// held there.
type Member struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	Email     string             `db:"email" json:"email"`
	Name      string             `db:"name" json:"name"`
	Role      user.WorkspaceRole `db:"role" json:"role"`
	CreatedAt time.Time          `db:"created_at" json:"createdAt"`
}

// CreateWorkspaceRequest is the payload for creating a workspace
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// UpdateWorkspaceRequest is the payload for updating a workspace
type UpdateWorkspaceRequest struct {
	Name *string `json:"name"`
}

// ListWorkspacesQuery captures list filters from the query string
type ListWorkspacesQuery struct {
	Page   int
	Limit  int
	Search string
}

// AddMemberRequest adds a user to a workspace. If no user with the
// email exists yet, one is created with the given name and password.
type AddMemberRequest struct {
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Name     string             `json:"name"`
	Role     user.WorkspaceRole `json:"role"`
}

// UpdateMemberRequest updates a member's name and/or workspace role
type UpdateMemberRequest struct {
	Name *string             `json:"name"`
	Role *user.WorkspaceRole `json:"role"`
}
