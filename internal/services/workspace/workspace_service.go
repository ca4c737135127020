package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/pagination"
	"github.com/outreachhq/outreach/internal/services/user"
)

var ErrAlreadyMember = errors.New("user is already a member of this workspace")

// WorkspaceService contains business logic for workspaces and their
// membership management
type WorkspaceService struct {
	repo  *WorkspaceRepo
	users *user.UserService
}

// NewWorkspaceService constructs a new WorkspaceService
func NewWorkspaceService(repo *WorkspaceRepo, users *user.UserService) *WorkspaceService {
	return &WorkspaceService{repo: repo, users: users}
}

// Create registers a new workspace
func (s *WorkspaceService) Create(ctx context.Context, req *CreateWorkspaceRequest) (*Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}

	w, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// List returns a page of workspaces plus the pagination envelope
func (s *WorkspaceService) List(ctx context.Context, q ListWorkspacesQuery) ([]*Workspace, pagination.Pagination, error) {
	pq := pagination.Query{Page: q.Page, Limit: q.Limit}.Normalize()
	q.Page, q.Limit = pq.Page, pq.Limit
	q.Search = strings.TrimSpace(q.Search)

	workspaces, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	return workspaces, pagination.New(q.Page, q.Limit, total), nil
}

// GetByID fetches a workspace with its member count resolved
func (s *WorkspaceService) GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	w.UsersCount = &count

	return w, nil
}

// Update renames a workspace
func (s *WorkspaceService) Update(ctx context.Context, id uuid.UUID, req *UpdateWorkspaceRequest) (*Workspace, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return s.repo.GetByID(ctx, id)
	}

	return s.repo.Update(ctx, id, strings.TrimSpace(*req.Name))
}

// Delete removes a workspace along with its memberships and tenant
// data. The deleted workspace is returned for the caller's message.
func (s *WorkspaceService) Delete(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return existing, nil
}

// AddMember adds a user to the workspace. An unknown email creates the
// user first; a known email just gains the membership. The bool result
// reports whether a user was created.
func (s *WorkspaceService) AddMember(ctx context.Context, workspaceID uuid.UUID, req *AddMemberRequest) (*Member, bool, error) {
	w, err := s.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, false, err
	}

	role := req.Role
	if role == "" {
		role = user.RoleViewer
	}
	if !role.Valid() {
		return nil, false, fmt.Errorf("invalid workspace role: %s", role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		for _, m := range existing.Workspaces {
			if m.WorkspaceID == workspaceID {
				return nil, false, ErrAlreadyMember
			}
		}

		if _, err := s.users.AssignWorkspace(ctx, existing.ID, workspaceID, role); err != nil {
			return nil, false, err
		}

		return &Member{
			ID:        existing.ID,
			Email:     existing.Email,
			Name:      existing.Name,
			Role:      role,
			CreatedAt: existing.CreatedAt,
		}, false, nil

	case errors.Is(err, user.ErrUserNotFound):
		created, err := s.users.Create(ctx, &user.CreateUserRequest{
			Name:     req.Name,
			Email:    email,
			Password: req.Password,
		})
		if err != nil {
			return nil, false, err
		}

		if _, err := s.users.AssignWorkspace(ctx, created.ID, workspaceID, role); err != nil {
			return nil, false, err
		}

		return &Member{
			ID:        created.ID,
			Email:     created.Email,
			Name:      created.Name,
			Role:      role,
			CreatedAt: created.CreatedAt,
		}, true, nil

	default:
		return nil, false, fmt.Errorf("failed to look up user for workspace %s: %w", w.ID, err)
	}
}

// ListMembers returns a page of workspace members plus the pagination
// envelope
func (s *WorkspaceService) ListMembers(ctx context.Context, id uuid.UUID, page, limit int) ([]*Member, pagination.Pagination, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, pagination.Pagination{}, err
	}

	pq := pagination.Query{Page: page, Limit: limit}.Normalize()

	members, total, err := s.repo.ListMembers(ctx, id, pq.Page, pq.Limit)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	return members, pagination.New(pq.Page, pq.Limit, total), nil
}

// GetMember fetches one workspace member
func (s *WorkspaceService) GetMember(ctx context.Context, id, userID uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id, userID)
}

// UpdateMember changes a member's display name and/or workspace role
func (s *WorkspaceService) UpdateMember(ctx context.Context, id, userID uuid.UUID, req *UpdateMemberRequest) (*Member, error) {
	if _, err := s.repo.GetMember(ctx, id, userID); err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		if _, err := s.users.Update(ctx, userID, &user.UpdateUserRequest{Name: req.Name}); err != nil {
			return nil, err
		}
	}

	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("invalid workspace role: %s", *req.Role)
		}
		if err := s.users.UpdateWorkspaceRole(ctx, userID, id, *req.Role); err != nil {
			return nil, err
		}
	}

	return s.repo.GetMember(ctx, id, userID)
}

// RemoveMember drops the user's membership in the workspace. The user
// record itself survives; it may belong to other workspaces.
func (s *WorkspaceService) RemoveMember(ctx context.Context, id, userID uuid.UUID) (*Member, *Workspace, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	m, err := s.repo.GetMember(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.users.RemoveWorkspace(ctx, userID, id); err != nil {
		return nil, nil, err
	}

	return m, w, nil
}
