package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services"
	"github.com/outreachhq/outreach/internal/services/auth"
	"github.com/outreachhq/outreach/internal/services/user"
)

// RegisterUserRoutes wires user management. Every route is admin-only;
// workspace users never manage accounts.
func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	// Create user
	r.POST("/api/outreach/users", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		var body user.CreateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.User.Create(stdCtx, &body)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "User created successfully",
			"user":    created,
		})
	}))

	// List users
	r.GET("/api/outreach/users", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		users, page, err := svc.User.List(stdCtx, user.ListUsersQuery{
			Page:   queryInt(ctx, "page"),
			Limit:  queryInt(ctx, "limit"),
			Search: queryString(ctx, "search"),
		})
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"data":       users,
			"pagination": page,
		})
	}))

	// Get user
	r.GET("/api/outreach/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "userId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid user ID", perrors.NewErrInvalidRequest("Invalid user ID", err))
			return
		}

		u, err := svc.User.GetByID(stdCtx, id)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"user": u})
	}))

	// Update user
	r.PUT("/api/outreach/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "userId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid user ID", perrors.NewErrInvalidRequest("Invalid user ID", err))
			return
		}

		var body user.UpdateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.User.Update(stdCtx, id, &body)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "User updated successfully",
			"user":    updated,
		})
	}))

	// Delete user
	r.DELETE("/api/outreach/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "userId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid user ID", perrors.NewErrInvalidRequest("Invalid user ID", err))
			return
		}

		deleted, err := svc.User.Delete(stdCtx, id)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{
			"message": fmt.Sprintf("User: %s deleted successfully", deleted.Name),
		})
	}))

	// Assign user to workspace
	r.POST("/api/outreach/users/{userId}/workspaces/{workspaceId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		userID, err := pathParamUUID(ctx, "userId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid user ID", perrors.NewErrInvalidRequest("Invalid user ID", err))
			return
		}

		workspaceID, err := pathParamUUID(ctx, "workspaceId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body struct {
			Role user.WorkspaceRole `json:"role"`
		}
		if len(ctx.PostBody()) > 0 {
			if err := parseBody(ctx, &body); err != nil {
				response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
				return
			}
		}

		assigned, err := svc.User.AssignWorkspace(stdCtx, userID, workspaceID, body.Role)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "User assigned to workspace successfully",
			"user":    assigned,
		})
	}))

	// Remove user from workspace
	r.DELETE("/api/outreach/users/{userId}/workspaces/{workspaceId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		userID, err := pathParamUUID(ctx, "userId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid user ID", perrors.NewErrInvalidRequest("Invalid user ID", err))
			return
		}

		workspaceID, err := pathParamUUID(ctx, "workspaceId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		removed, err := svc.User.RemoveWorkspace(stdCtx, userID, workspaceID)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{
			"message": fmt.Sprintf("User: %s removed from workspace successfully", removed.Name),
		})
	}))

	// Users without a membership in the workspace, for the assignment
	// picker
	r.GET("/api/outreach/users/available/{workspaceId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, err := pathParamUUID(ctx, "workspaceId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		users, err := svc.User.ListNotInWorkspace(stdCtx, workspaceID)
		if err != nil {
			writeUserError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"users": users})
	}))
}

func writeUserError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Error(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
	case errors.Is(err, user.ErrUserAlreadyExists):
		response.Error(ctx, stdCtx, "User with this email already exists", perrors.NewErrConflict("User with this email already exists", err))
	case errors.Is(err, user.ErrAlreadyInWorkspace):
		response.Error(ctx, stdCtx, "User is already assigned to this workspace", perrors.NewErrConflict("User is already assigned to this workspace", err))
	case errors.Is(err, user.ErrMembershipNotFound):
		response.Error(ctx, stdCtx, "User not found in this workspace", perrors.NewErrNotFound("User not found in this workspace", err))
	default:
		response.Error(ctx, stdCtx, "Failed to process user request", perrors.NewErrInternalServerError("Failed to process user request", err))
	}
}
