package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voiceforge/voiceforge/conversation"
)

type analyzeRequest struct {
	Transcript           string                     `json:"transcript"`
	History              []conversation.Message     `json:"history"`
	CurrentState         conversation.Step          `json:"currentState,omitempty"`
	PreviousRequirements *conversation.Requirements `json:"previousRequirements,omitempty"`
}

// AnalyzeTranscript is the stateless analysis endpoint: the caller carries
// the history and state, and each call derives requirements plus a
// confidence-gated response from scratch.
func (s *APIV1Service) AnalyzeTranscript(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.Transcript == "" {
		return validationError(c, "transcript is required")
	}

	result := conversation.AnalyzeTranscript(s.Extractor, req.Transcript, req.History, req.CurrentState)

	// Platforms already settled in a previous round survive a transcript
	// that names none.
	if req.PreviousRequirements != nil && len(req.PreviousRequirements.Platforms) > 0 &&
		!conversation.HasPlatformKeyword(req.Transcript) {
		result.Requirements.Platforms = req.PreviousRequirements.Platforms
	}

	s.Metrics.AnalyzeRequest(string(result.Response.Type))

	return c.JSON(http.StatusOK, result)
}
