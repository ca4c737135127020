package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/outreachhq/outreach/internal/pagination"
)

var ErrPhoneNumberTaken = errors.New("contact with this phone number already exists in this workspace")

// ContactService contains business logic for tenant-scoped contacts
type ContactService struct {
	repo *ContactRepo
}

// NewContactService constructs a new ContactService
func NewContactService(repo *ContactRepo) *ContactService {
	return &ContactService{repo: repo}
}

// Create registers a new contact, enforcing per-workspace phone number
// uniqueness
func (s *ContactService) Create(ctx context.Context, workspaceID uuid.UUID, createdBy *uuid.UUID, req *CreateContactRequest) (*Contact, error) {
	name := strings.TrimSpace(req.Name)
	phoneNumber := strings.TrimSpace(req.PhoneNumber)

	if name == "" || phoneNumber == "" {
		return nil, fmt.Errorf("name and phone number are required")
	}

	exists, err := s.repo.PhoneNumberExists(ctx, workspaceID, phoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPhoneNumberTaken
	}

	c := &Contact{
		WorkspaceID: workspaceID,
		Name:        name,
		PhoneNumber: phoneNumber,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Company:     strings.TrimSpace(req.Company),
		Tags:        trimTags(req.Tags),
		Notes:       req.Notes,
		CreatedByID: createdBy,
	}

	return s.repo.Create(ctx, c)
}

// List returns a page of workspace contacts plus the pagination
// envelope. Tags accepts a comma-separated list; only the first tag is
// used as the filter.
func (s *ContactService) List(ctx context.Context, workspaceID uuid.UUID, q ListContactsQuery) ([]*Contact, pagination.Pagination, error) {
	pq := pagination.Query{Page: q.Page, Limit: q.Limit}.Normalize()
	q.Page, q.Limit = pq.Page, pq.Limit
	q.Search = strings.TrimSpace(q.Search)

	if tags := splitTags(q.Tag); len(tags) > 0 {
		q.Tag = tags[0]
	} else {
		q.Tag = ""
	}

	contacts, total, err := s.repo.List(ctx, workspaceID, q)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	return contacts, pagination.New(q.Page, q.Limit, total), nil
}

// GetByID fetches a workspace contact
func (s *ContactService) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Contact, error) {
	return s.repo.GetByID(ctx, id, workspaceID)
}

// Update applies partial changes to a contact, re-checking phone number
// uniqueness when it changes
func (s *ContactService) Update(ctx context.Context, id, workspaceID uuid.UUID, req *UpdateContactRequest) (*Contact, error) {
	existing, err := s.repo.GetByID(ctx, id, workspaceID)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		set["name"] = name
	}

	if req.PhoneNumber != nil {
		phoneNumber := strings.TrimSpace(*req.PhoneNumber)
		if phoneNumber == "" {
			return nil, fmt.Errorf("phone number cannot be empty")
		}

		if phoneNumber != existing.PhoneNumber {
			exists, err := s.repo.PhoneNumberExists(ctx, workspaceID, phoneNumber)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrPhoneNumberTaken
			}
		}

		set["phone_number"] = phoneNumber
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, fmt.Errorf("email cannot be empty")
		}
		set["email"] = email
	}

	if req.Company != nil {
		company := strings.TrimSpace(*req.Company)
		if company == "" {
			return nil, fmt.Errorf("company cannot be empty")
		}
		set["company"] = company
	}

	if req.Tags != nil {
		set["tags"] = trimTags(*req.Tags)
	}

	if req.Notes != nil {
		set["notes"] = *req.Notes
	}

	return s.repo.Update(ctx, id, workspaceID, set)
}

// Delete removes a workspace contact
func (s *ContactService) Delete(ctx context.Context, id, workspaceID uuid.UUID) error {
	return s.repo.Delete(ctx, id, workspaceID)
}

// Tags returns the distinct tags used across the workspace's contacts
func (s *ContactService) Tags(ctx context.Context, workspaceID uuid.UUID) ([]string, error) {
	return s.repo.ListTags(ctx, workspaceID)
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

func splitTags(raw string) []string {
	return trimTags(strings.Split(raw, ","))
}
