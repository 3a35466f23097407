package social

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Envelope is the response body shape every API route returns.
type Envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondData writes a success envelope with a payload.
func RespondData(ctx router.Context, status int, data any) error {
	return ctx.JSON(status, Envelope{
		Success: true,
		Data:    data,
	})
}

// RespondMsg writes a success envelope that carries only a message.
func RespondMsg(ctx router.Context, status int, msg string) error {
	return ctx.JSON(status, Envelope{
		Success: true,
		Msg:     msg,
	})
}

// RespondError converts an error into a failure envelope. Rich errors
// carry their own HTTP status code, anything else is a 500.
func RespondError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	env := Envelope{
		Success: false,
		Msg:     richErr.Message,
	}

	if richErr.Category == errors.CategoryValidation {
		if fields := richErr.ValidationMap(); len(fields) > 0 {
			env.Data = fields
		}
	}

	return ctx.JSON(status, env)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	default:
		return router.StatusInternalServerError
	}
}
