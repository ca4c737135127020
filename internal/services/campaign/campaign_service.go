package campaign

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/outreachhq/outreach/internal/pagination"
	"github.com/outreachhq/outreach/internal/services/contact"
	"github.com/outreachhq/outreach/internal/services/template"
)

var (
	ErrNameTaken         = errors.New("campaign with this name already exists in this workspace")
	ErrOnlyDraftEditable = errors.New("only draft campaigns can be updated")
	ErrOnlyDraftLaunches = errors.New("only draft campaigns can be launched")
)

// sendSuccessRate is the simulated delivery success probability
const sendSuccessRate = 0.9

// CampaignService contains business logic for campaigns, including the
// simulated launch
type CampaignService struct {
	repo      *CampaignRepo
	templates *template.TemplateRepo
	contacts  *contact.ContactRepo

	now  func() time.Time
	rand func() float64
}

// NewCampaignService constructs a new CampaignService
func NewCampaignService(repo *CampaignRepo, templates *template.TemplateRepo, contacts *contact.ContactRepo) *CampaignService {
	return &CampaignService{
		repo:      repo,
		templates: templates,
		contacts:  contacts,
		now:       time.Now,
		rand:      rand.Float64,
	}
}

// WithClock overrides the service's time source
func (s *CampaignService) WithClock(now func() time.Time) *CampaignService {
	s.now = now
	return s
}

// WithRand overrides the delivery simulation's randomness source
func (s *CampaignService) WithRand(r func() float64) *CampaignService {
	s.rand = r
	return s
}

// Create registers a new draft campaign. The template must exist in the
// same workspace and the name must be unused there.
func (s *CampaignService) Create(ctx context.Context, workspaceID uuid.UUID, createdBy *uuid.UUID, req *CreateCampaignRequest) (*Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("campaign name is required")
	}

	if _, err := s.templates.GetByID(ctx, req.TemplateID, workspaceID); err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(ctx, workspaceID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}

	c := &Campaign{
		WorkspaceID: workspaceID,
		Name:        name,
		TargetTags:  trimTags(req.TargetTags),
		TemplateID:  req.TemplateID,
		CreatedByID: createdBy,
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	return s.withContactsCount(ctx, created)
}

// List returns a page of workspace campaigns plus the pagination
// envelope
func (s *CampaignService) List(ctx context.Context, workspaceID uuid.UUID, q ListCampaignsQuery) ([]*Campaign, pagination.Pagination, error) {
	pq := pagination.Query{Page: q.Page, Limit: q.Limit}.Normalize()
	q.Page, q.Limit = pq.Page, pq.Limit
	q.Search = strings.TrimSpace(q.Search)

	campaigns, total, err := s.repo.List(ctx, workspaceID, q)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	return campaigns, pagination.New(q.Page, q.Limit, total), nil
}

// GetByID fetches a workspace campaign along with its send records
func (s *CampaignService) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Campaign, []*Message, error) {
	c, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return c, messages, nil
}

// Update applies partial changes to a draft campaign
func (s *CampaignService) Update(ctx context.Context, id, workspaceID uuid.UUID, req *UpdateCampaignRequest) (*Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, err
	}

	if existing.Status != StatusDraft {
		return nil, ErrOnlyDraftEditable
	}

	set := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("campaign name cannot be empty")
		}

		if name != existing.Name {
			exists, err := s.repo.NameExists(ctx, workspaceID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrNameTaken
			}
		}

		set["name"] = name
	}

	if req.TargetTags != nil {
		tags := trimTags(*req.TargetTags)
		if len(tags) == 0 {
			return nil, fmt.Errorf("target tags must be a non-empty array")
		}
		set["target_tags"] = tags
	}

	if req.TemplateID != nil {
		if _, err := s.templates.GetByID(ctx, *req.TemplateID, workspaceID); err != nil {
			return nil, err
		}
		set["template_id"] = *req.TemplateID
	}

	updated, err := s.repo.Update(ctx, id, workspaceID, set)
	if err != nil {
		return nil, err
	}

	return s.withContactsCount(ctx, updated)
}

// Delete removes a workspace campaign. The deleted campaign is returned
// for the caller's message.
func (s *CampaignService) Delete(ctx context.Context, id, workspaceID uuid.UUID) (*Campaign, error) {
	existing, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id, workspaceID); err != nil {
		return nil, err
	}

	return existing, nil
}

// Copy duplicates a campaign as a fresh draft with the same tags and
// template. Defaults the name to "<original> (Copy)".
func (s *CampaignService) Copy(ctx context.Context, id, workspaceID uuid.UUID, createdBy *uuid.UUID, req *CopyCampaignRequest) (*Campaign, error) {
	original, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, err
	}

	newName := strings.TrimSpace(req.NewName)
	if newName == "" {
		newName = original.Name + " (Copy)"
	}

	exists, err := s.repo.NameExists(ctx, workspaceID, newName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}

	c := &Campaign{
		WorkspaceID: workspaceID,
		Name:        newName,
		TargetTags:  append(pq.StringArray{}, original.TargetTags...),
		TemplateID:  original.TemplateID,
		CreatedByID: createdBy,
	}

	copied, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	return s.withContactsCount(ctx, copied)
}

// Launch completes a draft campaign, simulating delivery to every
// contact carrying one of the target tags. All targeted numbers are
// batched into a single send record sharing one simulated outcome.
// With no matching contacts the campaign still completes, reaching
// nobody.
func (s *CampaignService) Launch(ctx context.Context, id, workspaceID uuid.UUID) (*LaunchResult, bool, error) {
	c, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, false, err
	}

	if c.Status != StatusDraft {
		return nil, false, ErrOnlyDraftLaunches
	}

	contacts, err := s.contacts.ListByTags(ctx, workspaceID, c.TargetTags)
	if err != nil {
		return nil, false, err
	}

	launchedAt := s.now().UTC()

	if len(contacts) == 0 {
		if err := s.repo.MarkCompleted(ctx, id, workspaceID, nil); err != nil {
			return nil, false, err
		}

		return &LaunchResult{
			ID:              c.ID,
			Status:          StatusCompleted,
			LaunchedAt:      launchedAt,
			ContactsReached: 0,
		}, false, nil
	}

	if err := s.repo.MarkCompleted(ctx, id, workspaceID, &launchedAt); err != nil {
		return nil, false, err
	}

	phoneNumbers := make(pq.StringArray, 0, len(contacts))
	for _, contact := range contacts {
		phoneNumbers = append(phoneNumbers, contact.PhoneNumber)
	}

	status := "Failed"
	if s.rand() < sendSuccessRate {
		status = "Sent"
	}

	var imageURL *string
	if c.Template != nil {
		imageURL = c.Template.ImageURL
	}

	body := ""
	if c.Template != nil {
		body = c.Template.Body
	}

	msg := &Message{
		WorkspaceID:         workspaceID,
		CampaignID:          c.ID,
		ContactPhoneNumbers: phoneNumbers,
		MessageBody:         body,
		MessageImageURL:     imageURL,
		Status:              status,
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, false, err
	}

	return &LaunchResult{
		ID:              c.ID,
		Status:          StatusCompleted,
		LaunchedAt:      launchedAt,
		ContactsReached: len(contacts),
	}, true, nil
}

func (s *CampaignService) withContactsCount(ctx context.Context, c *Campaign) (*Campaign, error) {
	contacts, err := s.contacts.ListByTags(ctx, c.WorkspaceID, c.TargetTags)
	if err != nil {
		return nil, err
	}

	count := len(contacts)
	c.TargetContactsCount = &count
	return c, nil
}

func trimTags(tags []string) pq.StringArray {
	out := pq.StringArray{}
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
