package controllers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services"
	"github.com/outreachhq/outreach/internal/services/auth"
	"github.com/outreachhq/outreach/internal/services/template"
)

// RegisterTemplateRoutes wires workspace-scoped message templates.
// Reads are open to every workspace role; writes require an editor.
func RegisterTemplateRoutes(r *router.Router, svc *services.Services) {
	// Create template
	r.POST("/api/outreach/message-templates", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body template.CreateTemplateRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Template.Create(stdCtx, workspaceID, creatorID(p), &body)
		if err != nil {
			writeTemplateError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  "Message template created successfully",
			"template": created,
		})
	}))

	// List templates with search and type filtering
	r.GET("/api/outreach/message-templates", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		templates, page, err := svc.Template.List(stdCtx, workspaceID, template.ListTemplatesQuery{
			Page:   queryInt(ctx, "page"),
			Limit:  queryInt(ctx, "limit"),
			Search: queryString(ctx, "search"),
			Type:   queryString(ctx, "type"),
		})
		if err != nil {
			writeTemplateError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"templates":  templates,
			"pagination": page,
		})
	}))

	// Get template
	r.GET("/api/outreach/message-templates/{id}", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid template ID", perrors.NewErrInvalidRequest("Invalid template ID", err))
			return
		}

		t, err := svc.Template.GetByID(stdCtx, id, workspaceID)
		if err != nil {
			writeTemplateError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"template": t})
	}))

	// Update template
	r.PUT("/api/outreach/message-templates/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid template ID", perrors.NewErrInvalidRequest("Invalid template ID", err))
			return
		}

		var body template.UpdateTemplateRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Template.Update(stdCtx, id, workspaceID, &body)
		if err != nil {
			writeTemplateError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  "Message template updated successfully",
			"template": updated,
		})
	}))

	// Delete template
	r.DELETE("/api/outreach/message-templates/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid template ID", perrors.NewErrInvalidRequest("Invalid template ID", err))
			return
		}

		if err := svc.Template.Delete(stdCtx, id, workspaceID); err != nil {
			writeTemplateError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{"message": "Message template deleted successfully"})
	}))
}

func writeTemplateError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		response.Error(ctx, stdCtx, "Message template not found", perrors.NewErrNotFound("Message template not found", err))
	case errors.Is(err, template.ErrNameTaken):
		response.Error(ctx, stdCtx, "Message template with this name already exists in this workspace", perrors.NewErrConflict("Message template with this name already exists in this workspace", err))
	case errors.Is(err, template.ErrImageURLRequired):
		response.Error(ctx, stdCtx, `Image URL is required for "Text & Image" type`, perrors.NewErrInvalidRequest("Image URL is required", err))
	default:
		response.Error(ctx, stdCtx, "Failed to process message template request", perrors.NewErrInternalServerError("Failed to process message template request", err))
	}
}
