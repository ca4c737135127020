package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/api/response"
	"github.com/outreachhq/outreach/internal/perrors"
	"github.com/outreachhq/outreach/internal/services/auth"
)

// principalKey is where the auth middleware stores the verified
// principal on the request
const principalKey = "principal"

// requestContext returns a baseline context for handlers. fasthttp does not provide
// a standard context, so we start from Background for downstream calls.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}

	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func queryString(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryInt(ctx *fasthttp.RequestCtx, key string) int {
	n, _ := strconv.Atoi(queryString(ctx, key))
	return n
}

// principalFrom returns the principal attached by the auth middleware.
// Guarded routes always have one; its absence means the route was
// registered outside the middleware chain.
func principalFrom(ctx *fasthttp.RequestCtx) (*auth.Principal, error) {
	p, ok := ctx.UserValue(principalKey).(*auth.Principal)
	if !ok || p == nil {
		return nil, errors.New("no authenticated principal on request")
	}

	return p, nil
}

// handler is a route handler that receives the verified principal
// explicitly
type handler func(ctx *fasthttp.RequestCtx, stdCtx context.Context, principal *auth.Principal)

// requireAdmin admits platform admins only
func requireAdmin(next handler) fasthttp.RequestHandler {
	return requirePrincipal(next, func(p *auth.Principal) bool { return p.IsAdmin() })
}

// requireEditor admits admins and workspace editors
func requireEditor(next handler) fasthttp.RequestHandler {
	return requirePrincipal(next, (*auth.Principal).CanEdit)
}

// requireViewer admits admins and any workspace role
func requireViewer(next handler) fasthttp.RequestHandler {
	return requirePrincipal(next, (*auth.Principal).CanView)
}

// requireAuth admits any verified non-temp principal
func requireAuth(next handler) fasthttp.RequestHandler {
	return requirePrincipal(next, func(*auth.Principal) bool { return true })
}

func requirePrincipal(next handler, allowed func(*auth.Principal) bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		p, err := principalFrom(ctx)
		if err != nil {
			response.Error(ctx, stdCtx, "Access token required", perrors.NewErrUnauthorized("Access token required", err))
			return
		}

		if !allowed(p) {
			response.Error(ctx, stdCtx, "Insufficient permissions", perrors.NewErrForbidden("Insufficient permissions", errors.New("principal does not satisfy route guard")))
			return
		}

		next(ctx, stdCtx, p)
	}
}

// workspaceScope resolves the tenant a request operates on. Workspace
// users are pinned to the workspace in their token; admins carry no
// workspace and must name one with the workspaceId query parameter.
func workspaceScope(ctx *fasthttp.RequestCtx, p *auth.Principal) (uuid.UUID, error) {
	if p.IsAdmin() {
		raw := queryString(ctx, "workspaceId")
		if raw == "" {
			return uuid.Nil, errors.New("workspaceId parameter is required for admin requests")
		}
		return uuid.Parse(raw)
	}

	return uuid.Parse(p.WorkspaceID)
}

// scopedID resolves the id path parameter together with the tenant
// scope of the request
func scopedID(ctx *fasthttp.RequestCtx, p *auth.Principal) (id, workspaceID uuid.UUID, err error) {
	id, err = pathParamUUID(ctx, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	workspaceID, err = workspaceScope(ctx, p)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return id, workspaceID, nil
}

// creatorID returns the user id to stamp on created resources. Admin
// principals leave it unset; their id lives in another table.
func creatorID(p *auth.Principal) *uuid.UUID {
	if p.IsAdmin() {
		return nil
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil
	}

	return &id
}
