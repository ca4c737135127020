package template

import (
	"time"

	"github.com/google/uuid"
)

// TemplateType enumerates the supported message shapes
type TemplateType string

const (
	TypeText      TemplateType = "Text"
	TypeTextImage TemplateType = "Text & Image"
)

func (t TemplateType) Valid() bool {
	return t == TypeText || t == TypeTextImage
}

// Creator identifies the user who created a template
type Creator struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Template is a tenant-scoped message template. Names are unique
// within a workspace; ImageURL is only set for the Text & Image type.
type Template struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	WorkspaceID uuid.UUID    `db:"workspace_id" json:"-"`
	Name        string       `db:"name" json:"name"`
	Type        TemplateType `db:"type" json:"type"`
	Body        string       `db:"body" json:"body"`
	ImageURL    *string      `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`

	CreatedByID    *uuid.UUID `db:"created_by" json:"-"`
	CreatedByName  *string    `db:"created_by_name" json:"-"`
	CreatedByEmail *string    `db:"created_by_email" json:"-"`

	CreatedBy *Creator `db:"-" json:"createdBy,omitempty"`
}

func (t *Template) resolveCreator() {
	if t.CreatedByID == nil {
		return
	}

	creator := Creator{ID: *t.CreatedByID}
	if t.CreatedByName != nil {
		creator.Name = *t.CreatedByName
	}
	if t.CreatedByEmail != nil {
		creator.Email = *t.CreatedByEmail
	}
	t.CreatedBy = &creator
}

// CreateTemplateRequest is the payload for creating a template
type CreateTemplateRequest struct {
	Name     string       `json:"name"`
	Type     TemplateType `json:"type"`
	Body     string       `json:"body"`
	ImageURL *string      `json:"imageUrl"`
}

// UpdateTemplateRequest carries partial template updates
type UpdateTemplateRequest struct {
	Name     *string       `json:"name"`
	Type     *TemplateType `json:"type"`
	Body     *string       `json:"body"`
	ImageURL *string       `json:"imageUrl"`
}

// ListTemplatesQuery captures list filters from the query string
type ListTemplatesQuery struct {
	Page   int
	Limit  int
	Search string
	Type   string
}
