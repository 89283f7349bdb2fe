package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/voiceforge/voiceforge/buildsim"
	"github.com/voiceforge/voiceforge/conversation"
)

// errorBody is the JSON error envelope shared by all endpoints.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func validationError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: "validation_error", Message: message})
}

func notFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: message})
}

// serviceError maps domain errors to HTTP responses. Anything unrecognized
// is reported as a generic internal failure without details.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, conversation.ErrConversationNotFound),
		errors.Is(err, buildsim.ErrBuildNotFound):
		return notFoundError(c, err.Error())
	case errors.Is(err, buildsim.ErrArtifactNotReady):
		return c.JSON(http.StatusConflict, errorBody{Error: "artifact_not_ready", Message: err.Error()})
	default:
		slog.Error("internal error", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal_error", Message: "an unexpected error occurred"})
	}
}
