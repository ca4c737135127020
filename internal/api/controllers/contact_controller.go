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
	"github.com/outreachhq/outreach/internal/services/contact"
)

// RegisterContactRoutes wires workspace-scoped contact management.
// Reads are open to every workspace role; writes require an editor.
func RegisterContactRoutes(r *router.Router, svc *services.Services) {
	// Create contact
	r.POST("/api/outreach/contacts", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		var body contact.CreateContactRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Contact.Create(stdCtx, workspaceID, creatorID(p), &body)
		if err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "Contact created successfully",
			"contact": created,
		})
	}))

	// List contacts with search and tag filtering
	r.GET("/api/outreach/contacts", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		contacts, page, err := svc.Contact.List(stdCtx, workspaceID, contact.ListContactsQuery{
			Page:   queryInt(ctx, "page"),
			Limit:  queryInt(ctx, "limit"),
			Search: queryString(ctx, "search"),
			Tag:    queryString(ctx, "tags"),
		})
		if err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"contacts":   contacts,
			"pagination": page,
		})
	}))

	// Distinct tags across the workspace's contacts
	r.GET("/api/outreach/contacts/tags/workspace", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		workspaceID, err := workspaceScope(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid workspace ID", perrors.NewErrInvalidRequest("Invalid workspace ID", err))
			return
		}

		tags, err := svc.Contact.Tags(stdCtx, workspaceID)
		if err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"tags": tags})
	}))

	// Get contact
	r.GET("/api/outreach/contacts/{id}", requireViewer(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid contact ID", perrors.NewErrInvalidRequest("Invalid contact ID", err))
			return
		}

		c, err := svc.Contact.GetByID(stdCtx, id, workspaceID)
		if err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{"contact": c})
	}))

	// Update contact
	r.PUT("/api/outreach/contacts/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid contact ID", perrors.NewErrInvalidRequest("Invalid contact ID", err))
			return
		}

		var body contact.UpdateContactRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		updated, err := svc.Contact.Update(stdCtx, id, workspaceID, &body)
		if err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]any{
			"message": "Contact updated successfully",
			"contact": updated,
		})
	}))

	// Delete contact
	r.DELETE("/api/outreach/contacts/{id}", requireEditor(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, p *auth.Principal) {
		id, workspaceID, err := scopedID(ctx, p)
		if err != nil {
			response.Error(ctx, stdCtx, "Invalid contact ID", perrors.NewErrInvalidRequest("Invalid contact ID", err))
			return
		}

		if err := svc.Contact.Delete(stdCtx, id, workspaceID); err != nil {
			writeContactError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, map[string]string{"message": "Contact deleted successfully"})
	}))
}

func writeContactError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, contact.ErrContactNotFound):
		response.Error(ctx, stdCtx, "Contact not found", perrors.NewErrNotFound("Contact not found", err))
	case errors.Is(err, contact.ErrPhoneNumberTaken):
		response.Error(ctx, stdCtx, "Contact with this phone number already exists in this workspace", perrors.NewErrConflict("Contact with this phone number already exists in this workspace", err))
	default:
		response.Error(ctx, stdCtx, "Failed to process contact request", perrors.NewErrInternalServerError("Failed to process contact request", err))
	}
}
