package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrContactNotFound = errors.New("contact not found")

const contactColumns = `
    c.id, c.workspace_id, c.name, c.phone_number, c.email, c.company,
    c.tags, c.notes, c.created_at, c.updated_at,
    c.created_by, u.name AS created_by_name, u.email AS created_by_email
`

// ContactRepo handles database operations for contacts
type ContactRepo struct {
	db *sqlx.DB
}

// NewContactRepo creates a new contact repository
func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// PhoneNumberExists reports whether the workspace already has a contact
// with the phone number
func (r *ContactRepo) PhoneNumberExists(ctx context.Context, workspaceID uuid.UUID, phoneNumber string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM contacts WHERE workspace_id = $1 AND phone_number = $2
        )
    `

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, workspaceID, phoneNumber); err != nil {
		return false, fmt.Errorf("failed to check phone number: %w", err)
	}

	return exists, nil
}

// Create inserts a new contact
func (r *ContactRepo) Create(ctx context.Context, c *Contact) (*Contact, error) {
	query := `
        INSERT INTO contacts (workspace_id, name, phone_number, email, company, tags, notes, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		c.WorkspaceID, c.Name, c.PhoneNumber, c.Email, c.Company, c.Tags, c.Notes, c.CreatedByID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return r.GetByID(ctx, c.ID, c.WorkspaceID)
}

// GetByID retrieves a contact by ID within a workspace
func (r *ContactRepo) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Contact, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM contacts c
        LEFT JOIN users u ON u.id = c.created_by
        WHERE c.id = $1 AND c.workspace_id = $2
    `, contactColumns)

	var c Contact
	err := r.db.GetContext(ctx, &c, query, id, workspaceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	c.resolveCreator()
	return &c, nil
}

// List retrieves a page of workspace contacts with optional search and
// tag filter
func (r *ContactRepo) List(ctx context.Context, workspaceID uuid.UUID, q ListContactsQuery) ([]*Contact, int, error) {
	where := "WHERE c.workspace_id = $1"
	args := []interface{}{workspaceID}

	if q.Search != "" {
		where += fmt.Sprintf(` AND (c.name ILIKE $%d OR c.phone_number ILIKE $%d OR c.email ILIKE $%d OR c.company ILIKE $%d)`,
			len(args)+1, len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+q.Search+"%")
	}

	if q.Tag != "" {
		where += fmt.Sprintf(` AND $%d = ANY(c.tags)`, len(args)+1)
		args = append(args, q.Tag)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM contacts c %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM contacts c
        LEFT JOIN users u ON u.id = c.created_by
        %s
        ORDER BY c.created_at DESC
        LIMIT $%d OFFSET $%d
    `, contactColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	var contacts []*Contact
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}

	for _, c := range contacts {
		c.resolveCreator()
	}

	return contacts, total, nil
}

// Update applies the given column updates to a workspace contact
func (r *ContactRepo) Update(ctx context.Context, id, workspaceID uuid.UUID, set map[string]interface{}) (*Contact, error) {
	if len(set) == 0 {
		return r.GetByID(ctx, id, workspaceID)
	}

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{}

	for _, column := range []string{"name", "phone_number", "email", "company", "tags", "notes"} {
		if value, ok := set[column]; ok {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)+1))
			args = append(args, value)
		}
	}

	args = append(args, id, workspaceID)

	query := fmt.Sprintf(`
        UPDATE contacts
        SET %s
        WHERE id = $%d AND workspace_id = $%d
    `, strings.Join(setParts, ", "), len(args)-1, len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrContactNotFound
	}

	return r.GetByID(ctx, id, workspaceID)
}

// Delete removes a workspace contact
func (r *ContactRepo) Delete(ctx context.Context, id, workspaceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}

// ListTags returns the distinct tags used across the workspace's
// contacts
func (r *ContactRepo) ListTags(ctx context.Context, workspaceID uuid.UUID) ([]string, error) {
	query := `
        SELECT DISTINCT unnest(tags) AS tag
        FROM contacts
        WHERE workspace_id = $1
        ORDER BY tag ASC
    `

	tags := []string{}
	if err := r.db.SelectContext(ctx, &tags, query, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to list workspace tags: %w", err)
	}

	return tags, nil
}

// ListByTags returns contacts carrying at least one of the given tags
func (r *ContactRepo) ListByTags(ctx context.Context, workspaceID uuid.UUID, tags []string) ([]*Contact, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM contacts c
        LEFT JOIN users u ON u.id = c.created_by
        WHERE c.workspace_id = $1 AND c.tags && $2
        ORDER BY c.created_at DESC
    `, contactColumns)

	var contacts []*Contact
	if err := r.db.SelectContext(ctx, &contacts, query, workspaceID, pq.StringArray(tags)); err != nil {
		return nil, fmt.Errorf("failed to list contacts by tags: %w", err)
	}

	for _, c := range contacts {
		c.resolveCreator()
	}

	return contacts, nil
}
