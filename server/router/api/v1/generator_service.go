package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/voiceforge/voiceforge/conversation"
)

type platformSelection struct {
	Web     bool `json:"web"`
	Android bool `json:"android"`
	IOS     bool `json:"ios"`
}

type generateAppRequest struct {
	Idea        string            `json:"idea"`
	Platforms   platformSelection `json:"platforms"`
	BuildSystem string            `json:"buildSystem,omitempty"`
	UserID      string            `json:"userId,omitempty"`
}

// GenerateApp runs the template generator synchronously and caches the
// resulting snapshot for browsing and build requests.
func (s *APIV1Service) GenerateApp(c echo.Context) error {
	var req generateAppRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.Idea == "" {
		return validationError(c, "idea is required")
	}

	var platforms []conversation.Platform
	if req.Platforms.Web {
		platforms = append(platforms, conversation.PlatformWeb)
	}
	if req.Platforms.Android {
		platforms = append(platforms, conversation.PlatformAndroid)
	}
	if req.Platforms.IOS {
		platforms = append(platforms, conversation.PlatformIOS)
	}
	if len(platforms) == 0 {
		return validationError(c, "at least one platform must be selected")
	}

	app := s.Generator.Generate(req.Idea, platforms, req.BuildSystem)
	s.apps.Add(app.ID, app)
	if req.UserID != "" {
		s.Store.RecordApp(req.UserID, app.Name)
	}
	s.Metrics.AppGenerated(app.Platforms)

	return c.JSON(http.StatusOK, app)
}

// GetApp returns a previously generated app snapshot.
func (s *APIV1Service) GetApp(c echo.Context) error {
	app, ok := s.apps.Get(c.Param("id"))
	if !ok {
		return notFoundError(c, "generated app not found")
	}
	return c.JSON(http.StatusOK, app)
}
