package controllers

import (
	"context"
	"errors"
	"strings"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services"
	"github.com/outreachhq/outreach/internal/services/auth"
)

// RegisterAuthRoutes wires the login, workspace-selection, logout and
// verify endpoints. The login and selection routes are public; logout
// and verify sit behind the bearer middleware.
func RegisterAuthRoutes(r *router.Router, svc *services.Services) {
	// Admin login
	r.POST("/api/outreach/auth/admin/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body auth.LoginRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		resp, err := svc.Auth.AdminLogin(stdCtx, body.Email, body.Password)
		if err != nil {
			writeLoginError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, resp)
	})

	// User login
	r.POST("/api/outreach/auth/user/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body auth.LoginRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		resp, err := svc.Auth.UserLogin(stdCtx, body.Email, body.Password)
		if err != nil {
			writeLoginError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, resp)
	})

	// Workspace selection, authorized by the temp token in the body
	r.POST("/api/outreach/auth/user/select-workspace", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var body auth.SelectWorkspaceRequest
		if err := parseBody(ctx, &body); err != nil {
			response.Error(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		resp, err := svc.Auth.SelectWorkspace(stdCtx, body.TempToken, body.WorkspaceID)
		if err != nil {
			writeLoginError(ctx, stdCtx, err)
			return
		}

		response.JSON(ctx, stdCtx, resp)
	})

	// Logout revokes the presented token; it never fails visibly
	r.POST("/api/outreach/auth/logout", requireAuth(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, _ *auth.Principal) {
		message := svc.Auth.Logout(stdCtx, bearerToken(ctx))
		response.JSON(ctx, stdCtx, map[string]string{"message": message})
	}))

	// Verify echoes the decoded principal; the middleware has already
	// run the crypto and ledger checks
	r.GET("/api/outreach/auth/verify", requireAuth(func(ctx *fasthttp.RequestCtx, stdCtx context.Context, principal *auth.Principal) {
		response.JSON(ctx, stdCtx, auth.VerifyResponse{Valid: true, User: principal})
	}))
}

func writeLoginError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.Error(ctx, stdCtx, "Invalid credentials", perrors.NewErrUnauthorized("Invalid credentials", err))
	case errors.Is(err, auth.ErrNoWorkspaceAccess):
		response.Error(ctx, stdCtx, "No workspaces assigned", perrors.NewErrForbidden("No workspaces assigned", err))
	case errors.Is(err, auth.ErrTempTokenExpired):
		response.Error(ctx, stdCtx, "Temporary token expired. Please login again.", perrors.NewErrUnauthorized("Temporary token expired", err))
	case errors.Is(err, auth.ErrInvalidTempToken):
		response.Error(ctx, stdCtx, "Invalid temporary token", perrors.NewErrUnauthorized("Invalid temporary token", err))
	case errors.Is(err, auth.ErrWrongTokenType):
		response.Error(ctx, stdCtx, "Invalid token type", perrors.NewErrUnauthorized("Invalid token type", err))
	case errors.Is(err, auth.ErrWorkspaceAccessDenied):
		response.Error(ctx, stdCtx, "Access denied to this workspace", perrors.NewErrForbidden("Access denied to this workspace", err))
	default:
		response.Error(ctx, stdCtx, "Authentication failed", perrors.NewErrInternalServerError("Authentication failed", err))
	}
}

func bearerToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}
