package template

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/pagination"
)

var (
	ErrNameTaken        = errors.New("message template with this name already exists in this workspace")
	ErrImageURLRequired = errors.New(`image URL is required for "Text & Image" type`)
)

// TemplateService contains business logic for message templates
type TemplateService struct {
	repo *TemplateRepo
}

// NewTemplateService constructs a new TemplateService
func NewTemplateService(repo *TemplateRepo) *TemplateService {
	return &TemplateService{repo: repo}
}

// Create registers a new template, enforcing per-workspace name
// uniqueness and the image requirement of the Text & Image type
func (s *TemplateService) Create(ctx context.Context, workspaceID uuid.UUID, createdBy *uuid.UUID, req *CreateTemplateRequest) (*Template, error) {
	name := strings.TrimSpace(req.Name)
	body := strings.TrimSpace(req.Body)

	if name == "" || body == "" {
		return nil, fmt.Errorf("name and body are required")
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid template type: %s", req.Type)
	}

	var imageURL *string
	if req.Type == TypeTextImage {
		if req.ImageURL == nil || strings.TrimSpace(*req.ImageURL) == "" {
			return nil, ErrImageURLRequired
		}
		trimmed := strings.TrimSpace(*req.ImageURL)
		imageURL = &trimmed
	}

	exists, err := s.repo.NameExists(ctx, workspaceID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}

	t := &Template{
		WorkspaceID: workspaceID,
		Name:        name,
		Type:        req.Type,
		Body:        body,
		ImageURL:    imageURL,
		CreatedByID: createdBy,
	}

	return s.repo.Create(ctx, t)
}

// List returns a page of workspace templates plus the pagination
// envelope
func (s *TemplateService) List(ctx context.Context, workspaceID uuid.UUID, q ListTemplatesQuery) ([]*Template, pagination.Pagination, error) {
	pq := pagination.Query{Page: q.Page, Limit: q.Limit}.Normalize()
	q.Page, q.Limit = pq.Page, pq.Limit
	q.Search = strings.TrimSpace(q.Search)

	templates, total, err := s.repo.List(ctx, workspaceID, q)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	return templates, pagination.New(q.Page, q.Limit, total), nil
}

// GetByID fetches a workspace template
func (s *TemplateService) GetByID(ctx context.Context, id, workspaceID uuid.UUID) (*Template, error) {
	return s.repo.GetByID(ctx, id, workspaceID)
}

// Update applies partial changes to a template. The image URL is kept
// only while the template's stored type is Text & Image; switching it
// away clears the image.
func (s *TemplateService) Update(ctx context.Context, id, workspaceID uuid.UUID, req *UpdateTemplateRequest) (*Template, error) {
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

	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, fmt.Errorf("invalid template type: %s", *req.Type)
		}
		set["type"] = *req.Type
	}

	if req.Body != nil {
		body := strings.TrimSpace(*req.Body)
		if body == "" {
			return nil, fmt.Errorf("body cannot be empty")
		}
		set["body"] = body
	}

	if existing.Type == TypeTextImage {
		if req.ImageURL != nil {
			trimmed := strings.TrimSpace(*req.ImageURL)
			set["image_url"] = trimmed
		}
	} else {
		set["image_url"] = nil
	}

	return s.repo.Update(ctx, id, workspaceID, set)
}

// Delete removes a workspace template
func (s *TemplateService) Delete(ctx context.Context, id, workspaceID uuid.UUID) error {
	return s.repo.Delete(ctx, id, workspaceID)
}
