package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type startBuildRequest struct {
	AppID string `json:"appId"`
}

// StartBuild kicks off the simulated build for every platform of a
// previously generated app.
func (s *APIV1Service) StartBuild(c echo.Context) error {
	var req startBuildRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.AppID == "" {
		return validationError(c, "appId is required")
	}

	app, ok := s.apps.Get(req.AppID)
	if !ok {
		return notFoundError(c, "generated app not found")
	}

	snap := s.Simulator.Start(app)
	s.Metrics.BuildStarted(app.Platforms)

	return c.JSON(http.StatusOK, snap)
}

// GetBuild returns the current per-platform build status for polling.
func (s *APIV1Service) GetBuild(c echo.Context) error {
	snap, err := s.Simulator.Get(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// CancelBuild aborts the in-flight platform builds of a build.
func (s *APIV1Service) CancelBuild(c echo.Context) error {
	if err := s.Simulator.Cancel(c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	snap, err := s.Simulator.Get(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// GetBuildArtifact serves the inert payload of a completed platform build.
func (s *APIV1Service) GetBuildArtifact(c echo.Context) error {
	manifest, err := s.Simulator.Artifact(c.Param("id"), c.Param("platform"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(manifest))
}
