package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrTemplateNotFound = errors.New("message template not found")

const templateColumns = `
    t.id, t.workspace_id, t.name, t.type, t.body, t.image_url,
    t.created_at, t.updated_at,
    t.created_by, u.name AS created_by_name, u.email AS created_by_email
`

// TemplateRepo handles database operations for message templates
type TemplateRepo struct {
	db *sqlx.DB
}

// NewTemplateRepo creates a new message template repository
func NewTemplateRepo(db *sqlx.DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

// NameExists reports whether the workspace already has a template with
// the name
func (r *TemplateRepo) NameExists(ctx context.Context, workspaceID uuid.UUID, name string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM message_templates WHERE workspace_id = $1 AND name = $2
        )
    `

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, workspaceID, name); err != nil {
		return false, fmt.Errorf("failed to check template name: %w", err)
	}

	return exists, nil
}

// Create inserts a new message template
func (r *TemplateRepo) Create(ctx context.Context, t *Template) (*Template, error) {
	query := `
        INSERT INTO message_templates (workspace_id, name, type, body, image_url, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `

	err := r.db.QueryRowxContext(ctx, query,
		t.WorkspaceID, t.Name, t.Type, t.Body, t.ImageURL, t.CreatedByID,
	).Scan(&t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create message template: %w", err)
	}

	return r.GetByID(ctx, t.ID, t.WorkspaceID)
}

// GetByID retrieves a message template by ID within a workspace
func (r *TemplateRepo) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Template, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM message_templates t
        LEFT JOIN users u ON u.id = t.created_by
        WHERE t.id = $1 AND t.workspace_id = $2
    `, templateColumns)

	var t Template
	err := r.db.GetContext(ctx, &t, query, id, workspaceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get message template: %w", err)
	}

	t.resolveCreator()
	return &t, nil
}

// List retrieves a page of workspace templates with optional search and
// type filter
func (r *TemplateRepo) List(ctx context.Context, workspaceID uuid.UUID, q ListTemplatesQuery) ([]*Template, int, error) {
	where := "WHERE t.workspace_id = $1"
	args := []interface{}{workspaceID}

	if q.Search != "" {
		where += fmt.Sprintf(` AND (t.name ILIKE $%d OR t.body ILIKE $%d)`, len(args)+1, len(args)+1)
		args = append(args, "%"+q.Search+"%")
	}

	if q.Type != "" {
		where += fmt.Sprintf(` AND t.type = $%d`, len(args)+1)
		args = append(args, q.Type)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM message_templates t %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count message templates: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM message_templates t
        LEFT JOIN users u ON u.id = t.created_by
        %s
        ORDER BY t.created_at DESC
        LIMIT $%d OFFSET $%d
    `, templateColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	var templates []*Template
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list message templates: %w", err)
	}

	for _, t := range templates {
		t.resolveCreator()
	}

	return templates, total, nil
}

// Update applies the given column updates to a workspace template
func (r *TemplateRepo) Update(ctx context.Context, id, workspaceID uuid.UUID, set map[string]interface{}) (*Template, error) {
	if len(set) == 0 {
		return r.GetByID(ctx, id, workspaceID)
	}

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{}

	for _, column := range []string{"name", "type", "body", "image_url"} {
		if value, ok := set[column]; ok {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)+1))
			args = append(args, value)
		}
	}

	args = append(args, id, workspaceID)

	query := fmt.Sprintf(`
        UPDATE message_templates
        SET %s
        WHERE id = $%d AND workspace_id = $%d
    `, strings.Join(setParts, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update message template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTemplateNotFound
	}

	return r.GetByID(ctx, id, workspaceID)
}

// Delete removes a workspace template
func (r *TemplateRepo) Delete(ctx context.Context, id, workspaceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM message_templates WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete message template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}
