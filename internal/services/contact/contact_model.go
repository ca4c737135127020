package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Creator identifies the user who created a contact. It is resolved by
// join and omitted when the creator account was deleted.
type Creator struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Contact is a tenant-scoped outreach recipient. The phone number is
// unique within its workspace, not globally.
type Contact struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	WorkspaceID uuid.UUID      `db:"workspace_id" json:"-"`
	Name        string         `db:"name" json:"name"`
	PhoneNumber string         `db:"phone_number" json:"phoneNumber"`
	Email       string         `db:"email" json:"email"`
	Company     string         `db:"company" json:"company"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	Notes       *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`

	CreatedByID    *uuid.UUID `db:"created_by" json:"-"`
	CreatedByName  *string    `db:"created_by_name" json:"-"`
	CreatedByEmail *string    `db:"created_by_email" json:"-"`

	CreatedBy *Creator `db:"-" json:"createdBy,omitempty"`
}

// resolveCreator folds the joined creator columns into the nested
// response shape
func (c *Contact) resolveCreator() {
	if c.CreatedByID == nil {
		return
	}

	creator := Creator{ID: *c.CreatedByID}
	if c.CreatedByName != nil {
		creator.Name = *c.CreatedByName
	}
	if c.CreatedByEmail != nil {
		creator.Email = *c.CreatedByEmail
	}
	c.CreatedBy = &creator
}

// CreateContactRequest is the payload for creating a contact
type CreateContactRequest struct {
	Name        string   `json:"name"`
	PhoneNumber string   `json:"phoneNumber"`
	Email       string   `json:"email"`
	Company     string   `json:"company"`
	Tags        []string `json:"tags"`
	Notes       *string  `json:"notes"`
}

// UpdateContactRequest carries partial contact updates; nil fields are
// left untouched
type UpdateContactRequest struct {
	Name        *string   `json:"name"`
	PhoneNumber *string   `json:"phoneNumber"`
	Email       *string   `json:"email"`
	Company     *string   `json:"company"`
	Tags        *[]string `json:"tags"`
	Notes       *string   `json:"notes"`
}

// ListContactsQuery captures list filters from the query string. Tag
// filtering matches contacts carrying the given tag.
type ListContactsQuery struct {
	Page   int
	Limit  int
	Search string
	Tag    string
}
