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
	"github.com/outreachhq/outreach/internal/services/campaign"
	"github.com/outreachhq/outreach/internal/services/template"
)

// RegisterCampaignRoutes wires workspace-scoped campaigns, including
// copy and the simulated launch. Reads are open to every workspace
// role; writes require an editor.
func RegisterCampaignRoutes(r *router.Router, svc *services.Services) {
	// Create campaign
	r.POST("/api/outreach/campaigns", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body campaign.CreateCampaignRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Campaign.Create(stdCtx, workspaceID, creatorID(p), &body)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  "Campaign created successfully",
			"campaign": created,
		})
	}))

	// List campaigns with search and status filtering
	r.GET("/api/outreach/campaigns", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		campaigns, page, err := svc.Campaign.List(stdCtx, workspaceID, campaign.ListCampaignsQuery{
			Page:   queryInt(ctx, "page"),
			Limit:  queryInt(ctx, "limit"),
			Search: queryString(ctx, "search"),
			Status: queryString(ctx, "status"),
		})
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"campaigns":  campaigns,
			"pagination": page,
		})
	}))

	// Get campaign with its send records
	r.GET("/api/outreach/campaigns/{id}", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid campaign ID", perrors.NewErrInvalidRequest("Invalid campaign ID", err))
			return
		}

		c, messages, err := svc.Campaign.GetByID(stdCtx, id, workspaceID)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"campaign": c,
			"messages": messages,
		})
	}))

	// Update campaign, drafts only
	r.PUT("/api/outreach/campaigns/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid campaign ID", perrors.NewErrInvalidRequest("Invalid campaign ID", err))
			return
		}

		var body campaign.UpdateCampaignRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Campaign.Update(stdCtx, id, workspaceID, &body)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  "Campaign updated successfully",
			"campaign": updated,
		})
	}))

	// Delete campaign
	r.DELETE("/api/outreach/campaigns/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid campaign ID", perrors.NewErrInvalidRequest("Invalid campaign ID", err))
			return
		}

		deleted, err := svc.Campaign.Delete(stdCtx, id, workspaceID)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{
			"message": fmt.Sprintf("Campaign %s deleted successfully", deleted.Name),
		})
	}))

	// Duplicate a campaign as a fresh draft
	r.POST("/api/outreach/campaigns/{id}/copy", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid campaign ID", perrors.NewErrInvalidRequest("Invalid campaign ID", err))
			return
		}

		var body campaign.CopyCampaignRequest
		if len(ctx.PostBody()) > 0 {
			if err := parseBody(ctx, &body); err != nil {
				response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
				return
			}
		}

		copied, err := svc.Campaign.Copy(stdCtx, id, workspaceID, creatorID(p), &body)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  "Campaign copied successfully",
			"campaign": copied,
		})
	}))

	// Launch a draft campaign, simulating delivery
	r.PATCH("/api/outreach/campaigns/{id}/launch", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid campaign ID", perrors.NewErrInvalidRequest("Invalid campaign ID", err))
			return
		}

		result, reached, err := svc.Campaign.Launch(stdCtx, id, workspaceID)
		if err != nil {
			writeCampaignError(ctx, stdCtx, err)
			return
		}

		message := "Campaign launched but no contacts found with target tags"
		if reached {
			message = "Campaign launched successfully"
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message":  message,
			"campaign": result,
		})
	}))
}

func writeCampaignError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, campaign.ErrCampaignNotFound):
		response.Error(ctx, stdCtx, "Campaign not found", perrors.NewErrNotFound("Campaign not found", err))
	case errors.Is(err, template.ErrTemplateNotFound):
		response.Error(ctx, stdCtx, "Message template not found", perrors.NewErrNotFound("Message template not found", err))
	case errors.Is(err, campaign.ErrNameTaken):
		response.Error(ctx, stdCtx, "Campaign with this name already exists in this workspace", perrors.NewErrConflict("Campaign with this name already exists in this workspace", err))
	case errors.Is(err, campaign.ErrOnlyDraftEditable):
		response.Error(ctx, stdCtx, "Only draft campaigns can be updated", perrors.NewErrInvalidRequest("Only draft campaigns can be updated", err))
	case errors.Is(err, campaign.ErrOnlyDraftLaunches):
		response.Error(ctx, stdCtx, "Only draft campaigns can be launched", perrors.NewErrInvalidRequest("Only draft campaigns can be launched", err))
	default:
		response.Error(ctx, stdCtx, "Failed to process campaign request", perrors.NewErrInternalServerError("Failed to process campaign request", err))
	}
}
