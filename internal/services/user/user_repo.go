package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrMembershipNotFound = errors.New("workspace membership not found")
)

// UserRepo handles database operations for users and their workspace
// memberships
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByEmail retrieves a user by email with memberships resolved
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users
        WHERE email = $1
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadMemberships(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// GetByID retrieves a user by ID with memberships resolved
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadMemberships(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *UserRepo) loadMemberships(ctx context.Context, u *User) error {
	query := `
        SELECT uw.workspace_id, w.name AS workspace_name, uw.role
        FROM user_workspaces uw
        JOIN workspaces w ON w.id = uw.workspace_id
        WHERE uw.user_id = $1
        ORDER BY uw.created_at ASC
    `

	memberships := []WorkspaceMembership{}
	err := r.db.SelectContext(ctx, &memberships, query, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load workspace memberships: %w", err)
	}

	u.Workspaces = memberships
	return nil
}

// Create inserts a new user with a pre-hashed password
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	query := `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, name, email, password_hash, created_at, updated_at
    `

	var u User
	err := r.db.GetContext(ctx, &u, query, name, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.Workspaces = []WorkspaceMembership{}
	return &u, nil
}

// List retrieves a page of users, optionally filtered by a name/email search
func (r *UserRepo) List(ctx context.Context, q ListUsersQuery) ([]*User, int, error) {
	where := ""
	args := []interface{}{}

	if q.Search != "" {
		where = "WHERE name ILIKE $1 OR email ILIKE $1"
		args = append(args, "%"+q.Search+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users
        %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	var users []*User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if err := r.loadMemberships(ctx, u); err != nil {
			return nil, 0, err
		}
	}

	return users, total, nil
}

// Update updates user fields
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, name, email, passwordHash *string) (*User, error) {
	setParts := []string{}
	args := []interface{}{}

	if name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *name)
	}

	if email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", len(args)+1))
		args = append(args, *email)
	}

	if passwordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", len(args)+1))
		args = append(args, *passwordHash)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        UPDATE users
        SET %s
        WHERE id = $%d
        RETURNING id, name, email, password_hash, created_at, updated_at
    `, strings.Join(setParts, ", "), len(args))

	var u User
	err := r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := r.loadMemberships(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// Delete removes a user by ID
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AssignWorkspace adds a workspace membership for the user
func (r *UserRepo) AssignWorkspace(ctx context.Context, userID, workspaceID uuid.UUID, role WorkspaceRole) error {
	query := `
        INSERT INTO user_workspaces (user_id, workspace_id, role)
        VALUES ($1, $2, $3)
    `

	if _, err := r.db.ExecContext(ctx, query, userID, workspaceID, role); err != nil {
		return fmt.Errorf("failed to assign workspace: %w", err)
	}

	return nil
}

// UpdateWorkspaceRole changes the user's role within a workspace
func (r *UserRepo) UpdateWorkspaceRole(ctx context.Context, userID, workspaceID uuid.UUID, role WorkspaceRole) error {
	query := `
        UPDATE user_workspaces
        SET role = $3
        WHERE user_id = $1 AND workspace_id = $2
    `

	result, err := r.db.ExecContext(ctx, query, userID, workspaceID, role)
	if err != nil {
		return fmt.Errorf("failed to update workspace role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// RemoveWorkspace removes a workspace membership from the user
func (r *UserRepo) RemoveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	query := `
        DELETE FROM user_workspaces
        WHERE user_id = $1 AND workspace_id = $2
    `

	result, err := r.db.ExecContext(ctx, query, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// ListNotInWorkspace retrieves users who have no membership in the workspace
func (r *UserRepo) ListNotInWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*User, error) {
	query := `
        SELECT id, name, email, password_hash, created_at, updated_at
        FROM users
        WHERE id NOT IN (
            SELECT user_id FROM user_workspaces WHERE workspace_id = $1
        )
        ORDER BY name ASC
    `

	var users []*User
	if err := r.db.SelectContext(ctx, &users, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list users not in workspace: %w", err)
	}

	return users, nil
}
