package controllers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services"
	"github.com/outreachhq/outreach/internal/services/analytics"
	"github.com/outreachhq/outreach/internal/services/auth"
)

// RegisterAnalyticsRoutes wires the dashboard aggregates. Every
// workspace role can read them.
func RegisterAnalyticsRoutes(r *router.Router, svc *services.Services) {
	r.GET("/api/outreach/analytics/campaigns-per-day", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		points, err := svc.Analytics.CampaignsPerDay(stdCtx, workspaceID, rangeQuery(ctx))
		if err != nil {
			writeAnalyticsError(ctx, stdCtx, err)
			return
		}

		writeAnalytics(ctx, stdCtx, points, "Campaigns per day data retrieved successfully")
	}))

	r.GET("/api/outreach/analytics/messages-per-type", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		points, err := svc.Analytics.MessagesPerType(stdCtx, workspaceID, rangeQuery(ctx))
		if err != nil {
			writeAnalyticsError(ctx, stdCtx, err)
			return
		}

		writeAnalytics(ctx, stdCtx, points, "Messages per type data retrieved successfully")
	}))

	r.GET("/api/outreach/analytics/contacts-reached", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		points, err := svc.Analytics.ContactsReached(stdCtx, workspaceID, rangeQuery(ctx))
		if err != nil {
			writeAnalyticsError(ctx, stdCtx, err)
			return
		}

		writeAnalytics(ctx, stdCtx, points, "Contacts reached data retrieved successfully")
	}))

	r.GET("/api/outreach/analytics/recent-campaigns", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		campaigns, err := svc.Analytics.RecentCampaigns(stdCtx, workspaceID)
		if err != nil {
			writeAnalyticsError(ctx, stdCtx, err)
			return
		}

		writeAnalytics(ctx, stdCtx, campaigns, "Recent campaigns retrieved successfully")
	}))

	r.GET("/api/outreach/analytics/top-tags", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		tags, err := svc.Analytics.TopContactTags(stdCtx, workspaceID)
		if err != nil {
			writeAnalyticsError(ctx, stdCtx, err)
			return
		}

		writeAnalytics(ctx, stdCtx, tags, "Top tags retrieved successfully")
	}))
}

func rangeQuery(ctx *fasthttp.RequestCtx) analytics.RangeQuery {
	return analytics.RangeQuery{
		StartDate: queryString(ctx, "startDate"),
		EndDate:   queryString(ctx, "endDate"),
	}
}

func writeAnalytics(ctx *fasthttp.RequestCtx, stdCtx context.Context, data any, message string) {
	response.JSON(ctx, stdCtx, map[string]any{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func writeAnalyticsError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	response.Error(ctx, stdCtx, "Failed to retrieve analytics data", perrors.NewErrInternalServerError("Failed to retrieve analytics data", err))
}
