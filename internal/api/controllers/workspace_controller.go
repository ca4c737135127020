package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services"
	"github.com/outreachhq/outreach/internal/services/auth"
	"github.com/outreachhq/outreach/internal/services/user"
	"github.com/outreachhq/outreach/internal/services/workspace"
)

// RegisterWorkspaceRoutes wires tenant management. Every route is
// admin-only; workspace users cannot see tenants other than their own.
func RegisterWorkspaceRoutes(r *router.Router, svc *services.Services) {
	// Create workspace
	r.POST("/api/outreach/workspaces", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		var body workspace.CreateWorkspaceRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Workspace.Create(stdCtx, &body)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":   "Workspace created successfully",
			"workspace": created,
		})
	}))

	// List workspaces
	r.GET("/api/outreach/workspaces", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaces, page, err := svc.Workspace.List(stdCtx, workspace.ListWorkspacesQuery{
			Page:   queryInt(ctx, "page"),
			Limit:  queryInt(ctx, "limit"),
			Search: queryString(ctx, "search"),
		})
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"data":       workspaces,
			"pagination": page,
		})
	}))

	// Get workspace with member count
	r.GET("/api/outreach/workspaces/{id}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		w, err := svc.Workspace.GetByID(stdCtx, id)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"workspace": w})
	}))

	// Update workspace
	r.PUT("/api/outreach/workspaces/{id}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body workspace.UpdateWorkspaceRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Workspace.Update(stdCtx, id, &body)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":   "Workspace updated successfully",
			"workspace": updated,
		})
	}))

	// Delete workspace along with memberships and tenant data
	r.DELETE("/api/outreach/workspaces/{id}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		deleted, err := svc.Workspace.Delete(stdCtx, id)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{
			"message": fmt.Sprintf("Workspace '%s' and all associated users deleted successfully", deleted.Name),
		})
	}))

	// Add member, creating the user when the email is new
	r.POST("/api/outreach/workspaces/{workspaceId}/users", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, err := pathParamUUID(ctx, "workspaceId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body workspace.AddMemberRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		member, isNew, err := svc.Workspace.AddMember(stdCtx, workspaceID, &body)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		verb := "added to"
		if isNew {
			verb = "created and added to"
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": fmt.Sprintf("User %s workspace successfully", verb),
			"user":    member,
		})
	}))

	// List members
	r.GET("/api/outreach/workspaces/{workspaceId}/users", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, err := pathParamUUID(ctx, "workspaceId")
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		members, page, err := svc.Workspace.ListMembers(stdCtx, workspaceID, queryInt(ctx, "page"), queryInt(ctx, "limit"))
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"data":       members,
			"pagination": page,
		})
	}))

	// Get member
	r.GET("/api/outreach/workspaces/{workspaceId}/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, userID, err := memberPathParams(ctx)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace or user ID", perrors.NewErrInvalidRequest("Invalid workspace or user ID", err))
			return
		}

		member, err := svc.Workspace.GetMember(stdCtx, workspaceID, userID)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"user": member})
	}))

	// Update member name and/or role
	r.PUT("/api/outreach/workspaces/{workspaceId}/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, userID, err := memberPathParams(ctx)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace or user ID", perrors.NewErrInvalidRequest("Invalid workspace or user ID", err))
			return
		}

		var body workspace.UpdateMemberRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		member, err := svc.Workspace.UpdateMember(stdCtx, workspaceID, userID, &body)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "User updated successfully",
			"user":    member,
		})
	}))

	// Remove member
	r.DELETE("/api/outreach/workspaces/{workspaceId}/users/{userId}", requireAdmin(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		workspaceID, userID, err := memberPathParams(ctx)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace or user ID", perrors.NewErrInvalidRequest("Invalid workspace or user ID", err))
			return
		}

		member, w, err := svc.Workspace.RemoveMember(stdCtx, workspaceID, userID)
		if err != nil {
			writeWorkspaceError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{
			"message": fmt.Sprintf("User: %s removed from workspace: %s successfully", member.Name, w.Name),
		})
	}))
}

func memberPathParams(ctx *fasthttp.RequestCtx) (workspaceID, userID uuid.UUID, err error) {
	workspaceID, err = pathParamUUID(ctx, "workspaceId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	userID, err = pathParamUUID(ctx, "userId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return workspaceID, userID, nil
}

func writeWorkspaceError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, workspace.ErrWorkspaceNotFound):
		response.Error(ctx, stdCtx, "Workspace not found", perrors.NewErrNotFound("Workspace not found", err))
	case errors.Is(err, workspace.ErrMemberNotFound):
		response.Error(ctx, stdCtx, "User not found in this workspace", perrors.NewErrNotFound("User not found in this workspace", err))
	case errors.Is(err, workspace.ErrAlreadyMember), errors.Is(err, user.ErrAlreadyInWorkspace):
		response.Error(ctx, stdCtx, "User is already a member of this workspace", perrors.NewErrConflict("User is already a member of this workspace", err))
	case errors.Is(err, user.ErrUserNotFound):
		response.Error(ctx, stdCtx, "User not found", perrors.NewErrNotFound("User not found", err))
	case errors.Is(err, user.ErrUserAlreadyExists):
		response.Error(ctx, stdCtx, "A user with this email address already exists", perrors.NewErrConflict("A user with this email address already exists", err))
	default:
		response.Error(ctx, stdCtx, "Failed to process workspace request", perrors.NewErrInternalServerError("Failed to process workspace request", err))
	}
}
