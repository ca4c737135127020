package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/outreachhq/outreach/internal/perrors"
)

// errorBody is the uniform JSON failure shape
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// JSON writes the payload as-is with status 200. Success shapes are
// owned by the controllers; there is no envelope.
func JSON(ctx *fasthttp.RequestCtx, stdCtx context.Context, payload any) {
	JSONStatus(ctx, stdCtx, http.StatusOK, payload)
}

// JSONStatus writes the payload as-is with the given status code
func JSONStatus(ctx *fasthttp.RequestCtx, stdCtx context.Context, status int, payload any) {
	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(stdCtx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

// Error writes a failure response. The status code and error code come
// from the perrors.Err wrapped inside err; anything else is treated as
// an internal server error.
func Error(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(message, err).(perrors.Err)
	}
	perr.Print(stdCtx)

	JSONStatus(ctx, stdCtx, perr.HttpStatus(), errorBody{
		Message: message,
		Error:   perr.Err,
	})
}
