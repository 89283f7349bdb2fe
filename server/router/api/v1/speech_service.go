package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type synthesizeRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Rate  float64 `json:"rate,omitempty"`
}

type synthesizeResponse struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate"`
}

// SynthesizeSpeech validates and echoes a synthesis directive for the
// browser's native speech engine. The server performs no synthesis itself;
// the browser TTS sink is an external collaborator.
func (s *APIV1Service) SynthesizeSpeech(c echo.Context) error {
	var req synthesizeRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.Text == "" {
		return validationError(c, "text is required")
	}
	if req.Voice == "" {
		req.Voice = "default"
	}
	if req.Rate <= 0 {
		req.Rate = 1.0
	}
	return c.JSON(http.StatusOK, synthesizeResponse{
		Text:  req.Text,
		Voice: req.Voice,
		Rate:  req.Rate,
	})
}
