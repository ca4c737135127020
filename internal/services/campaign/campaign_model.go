package campaign

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/outreachhq/outreach/internal/services/template"
)

// CampaignStatus enumerates the campaign lifecycle. Launching is
// terminal; a completed campaign never goes back to draft.
type CampaignStatus string

const (
	StatusDraft     CampaignStatus = "Draft"
	StatusCompleted CampaignStatus = "Completed"
)

// Creator identifies the user who created a campaign
type Creator struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TemplateInfo is the campaign's resolved message template
type TemplateInfo struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Type     template.TemplateType `json:"type"`
	Body     string                `json:"body"`
	ImageURL *string               `json:"imageUrl,omitempty"`
}

// Campaign is a tenant-scoped outreach run targeting contacts by tag
type Campaign struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	WorkspaceID uuid.UUID      `db:"workspace_id" json:"-"`
	Name        string         `db:"name" json:"name"`
	TargetTags  pq.StringArray `db:"target_tags" json:"targetTags"`
	TemplateID  uuid.UUID      `db:"template_id" json:"templateId"`
	Status      CampaignStatus `db:"status" json:"status"`
	LaunchedAt  *time.Time     `db:"launched_at" json:"launchedAt,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`

	TemplateName     *string                `db:"template_name" json:"-"`
	TemplateType     *template.TemplateType `db:"template_type" json:"-"`
	TemplateBody     *string                `db:"template_body" json:"-"`
	TemplateImageURL *string                `db:"template_image_url" json:"-"`

	CreatedByID    *uuid.UUID `db:"created_by" json:"-"`
	CreatedByName  *string    `db:"created_by_name" json:"-"`
	CreatedByEmail *string    `db:"created_by_email" json:"-"`

	Template  *TemplateInfo `db:"-" json:"template,omitempty"`
	CreatedBy *Creator      `db:"-" json:"createdBy,omitempty"`

	// TargetContactsCount is populated on create/copy/update reads
	TargetContactsCount *int `db:"-" json:"targetContactsCount,omitempty"`
}

// resolveJoins folds the joined template and creator columns into the
// nested response shapes
func (c *Campaign) resolveJoins() {
	if c.TemplateName != nil && c.TemplateType != nil && c.TemplateBody != nil {
		c.Template = &TemplateInfo{
			ID:       c.TemplateID,
			Name:     *c.TemplateName,
			Type:     *c.TemplateType,
			Body:     *c.TemplateBody,
			ImageURL: c.TemplateImageURL,
		}
	}

	if c.CreatedByID != nil {
		creator := Creator{ID: *c.CreatedByID}
		if c.CreatedByName != nil {
			creator.Name = *c.CreatedByName
		}
		if c.CreatedByEmail != nil {
			creator.Email = *c.CreatedByEmail
		}
		c.CreatedBy = &creator
	}
}

// Message is the record of one simulated send: all targeted phone
// numbers batched into a single row with a shared outcome.
type Message struct {
	ID                  uuid.UUID      `db:"id" json:"id"`
	WorkspaceID         uuid.UUID      `db:"workspace_id" json:"-"`
	CampaignID          uuid.UUID      `db:"campaign_id" json:"-"`
	ContactPhoneNumbers pq.StringArray `db:"contact_phone_numbers" json:"contactPhoneNumbers"`
	MessageBody         string         `db:"message_body" json:"messageBody"`
	MessageImageURL     *string        `db:"message_image_url" json:"messageImageUrl,omitempty"`
	Status              string         `db:"status" json:"status"`
	CreatedAt           time.Time      `db:"created_at" json:"sentAt"`
}

// LaunchResult summarises a launch for the response payload
type LaunchResult struct {
	ID              uuid.UUID      `json:"id"`
	Status          CampaignStatus `json:"status"`
	LaunchedAt      time.Time      `json:"launchedAt"`
	ContactsReached int            `json:"contactsReached"`
}

// CreateCampaignRequest is the payload for creating a campaign
type CreateCampaignRequest struct {
	Name       string    `json:"name"`
	TargetTags []string  `json:"targetTags"`
	TemplateID uuid.UUID `json:"templateId"`
}

// UpdateCampaignRequest carries partial campaign updates; only draft
// campaigns accept them
type UpdateCampaignRequest struct {
	Name       *string    `json:"name"`
	TargetTags *[]string  `json:"targetTags"`
	TemplateID *uuid.UUID `json:"templateId"`
}

// CopyCampaignRequest optionally names the duplicate
type CopyCampaignRequest struct {
	NewName string `json:"newName"`
}

// ListCampaignsQuery captures list filters from the query string
type ListCampaignsQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}
