package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/outreachhq/outreach/internal/pagination"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrAlreadyInWorkspace = errors.New("user is already assigned to this workspace")
)

// UserService contains business logic for workspace users
type UserService struct {
	repo *UserRepo
}

// NewUserService constructs a new UserService
func NewUserService(repo *UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Create registers a new user with a bcrypt-hashed password
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to validate user email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, name, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID fetches a user by its identifier
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByEmail fetches a user by email with memberships resolved
func (s *UserService) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// List returns a page of users plus the pagination envelope
func (s *UserService) List(ctx context.Context, q ListUsersQuery) ([]*User, pagination.Pagination, error) {
	pq := pagination.Query{Page: q.Page, Limit: q.Limit}.Normalize()
	q.Page, q.Limit = pq.Page, pq.Limit
	q.Search = strings.TrimSpace(q.Search)

	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}

	return users, pagination.New(q.Page, q.Limit, total), nil
}

// Update modifies mutable user fields, re-hashing the password if supplied
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	updated, err := s.repo.Update(ctx, id, req.Name, email, passwordHash)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}

// Delete removes a user by ID
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return existing, nil
}

// AssignWorkspace adds a workspace membership; defaults the role to Viewer
func (s *UserService) AssignWorkspace(ctx context.Context, userID, workspaceID uuid.UUID, role WorkspaceRole) (*User, error) {
	if role == "" {
		role = RoleViewer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid workspace role: %s", role)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	for _, m := range u.Workspaces {
		if m.WorkspaceID == workspaceID {
			return nil, ErrAlreadyInWorkspace
		}
	}

	if err := s.repo.AssignWorkspace(ctx, userID, workspaceID, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateWorkspaceRole changes the user's role within a workspace
func (s *UserService) UpdateWorkspaceRole(ctx context.Context, userID, workspaceID uuid.UUID, role WorkspaceRole) error {
	if !role.Valid() {
		return fmt.Errorf("invalid workspace role: %s", role)
	}

	return s.repo.UpdateWorkspaceRole(ctx, userID, workspaceID, role)
}

// RemoveWorkspace removes a workspace membership
func (s *UserService) RemoveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*User, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.repo.RemoveWorkspace(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

// ListNotInWorkspace returns users without a membership in the workspace
func (s *UserService) ListNotInWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*User, error) {
	return s.repo.ListNotInWorkspace(ctx, workspaceID)
}
