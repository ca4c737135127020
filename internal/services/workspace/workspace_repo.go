package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrMemberNotFound    = errors.New("user not found in this workspace")
)

// WorkspaceRepo handles database operations for workspaces and their
// membership views
type WorkspaceRepo struct {
	db *sqlx.DB
}

// NewWorkspaceRepo creates a new workspace repository
func NewWorkspaceRepo(db *sqlx.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// Create inserts a new workspace
func (r *WorkspaceRepo) Create(ctx context.Context, name string) (*Workspace, error) {
	query := `
        INSERT INTO workspaces (name)
        VALUES ($1)
        RETURNING id, name, created_at, updated_at
    `

	var w Workspace
	if err := r.db.GetContext(ctx, &w, query, name); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return &w, nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	query := `
        SELECT id, name, created_at, updated_at
        FROM workspaces
        WHERE id = $1
    `

	var w Workspace
	err := r.db.GetContext(ctx, &w, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &w, nil
}

// List retrieves a page of workspaces, optionally filtered by name
func (r *WorkspaceRepo) List(ctx context.Context, q ListWorkspacesQuery) ([]*Workspace, int, error) {
	where := ""
	args := []interface{}{}

	if q.Search != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+q.Search+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM workspaces %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count workspaces: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT id, name, created_at, updated_at
        FROM workspaces
        %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d
    `, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	var workspaces []*Workspace
	if err := r.db.SelectContext(ctx, &workspaces, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list workspaces: %w", err)
	}

	return workspaces, total, nil
}

// Update renames a workspace
func (r *WorkspaceRepo) Update(ctx context.Context, id uuid.UUID, name string) (*Workspace, error) {
	query := `
        UPDATE workspaces
        SET name = $2, updated_at = NOW()
        WHERE id = $1
        RETURNING id, name, created_at, updated_at
    `

	var w Workspace
	err := r.db.GetContext(ctx, &w, query, id, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return &w, nil
}

// Delete removes a workspace. Memberships and tenant data go with it
// via foreign key cascades.
func (r *WorkspaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWorkspaceNotFound
	}

	return nil
}

// CountMembers returns the number of users holding a membership in the
// workspace
func (r *WorkspaceRepo) CountMembers(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_workspaces WHERE workspace_id = $1`
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count workspace members: %w", err)
	}

	return count, nil
}

// ListMembers retrieves a page of workspace members with their roles
func (r *WorkspaceRepo) ListMembers(ctx context.Context, id uuid.UUID, page, limit int) ([]*Member, int, error) {
	total, err := r.CountMembers(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT u.id, u.email, u.name, uw.role, u.created_at
        FROM user_workspaces uw
        JOIN users u ON u.id = uw.user_id
        WHERE uw.workspace_id = $1
        ORDER BY uw.created_at ASC
        LIMIT $2 OFFSET $3
    `

	var members []*Member
	if err := r.db.SelectContext(ctx, &members, query, id, limit, (page-1)*limit); err != nil {
		return nil, 0, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return members, total, nil
}

// GetMember retrieves one member of the workspace by user ID
func (r *WorkspaceRepo) GetMember(ctx context.Context, id, userID uuid.UUID) (*Member, error) {
	query := `
        SELECT u.id, u.email, u.name, uw.role, u.created_at
        FROM user_workspaces uw
        JOIN users u ON u.id = uw.user_id
        WHERE uw.workspace_id = $1 AND uw.user_id = $2
    `

	var m Member
	err := r.db.GetContext(ctx, &m, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get workspace member: %w", err)
	}

	return &m, nil
}
