// Package v1 exposes the JSON REST API: conversation lifecycle, stateless
// transcript analysis, app generation, simulated builds and the speech
// synthesis directive endpoint.
package v1

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/voiceforge/voiceforge/buildsim"
	"github.com/voiceforge/voiceforge/conversation"
	"github.com/voiceforge/voiceforge/generator"
	"github.com/voiceforge/voiceforge/internal/profile"
	"github.com/voiceforge/voiceforge/metrics"
)

// generatedAppCacheSize bounds how many app snapshots stay browsable after
// generation.
const generatedAppCacheSize = 1024

type APIV1Service struct {
	Profile   *profile.Profile
	Store     *conversation.Store
	Extractor *conversation.Extractor
	Generator *generator.Generator
	Simulator *buildsim.Simulator
	Metrics   *metrics.Exporter

	// apps keeps generated app snapshots for browsing, copying and build
	// requests.
	apps *lru.Cache[string, *generator.GeneratedApp]
}

func NewAPIV1Service(instanceProfile *profile.Profile, store *conversation.Store, simulator *buildsim.Simulator, exporter *metrics.Exporter) (*APIV1Service, error) {
	apps, err := lru.New[string, *generator.GeneratedApp](generatedAppCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create app cache")
	}
	return &APIV1Service{
		Profile:   instanceProfile,
		Store:     store,
		Extractor: conversation.NewExtractor(),
		Generator: generator.New(),
		Simulator: simulator,
		Metrics:   exporter,
		apps:      apps,
	}, nil
}

// RegisterRoutes registers all API v1 routes with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/conversations", s.StartConversation)
	g.POST("/conversations/:id/messages", s.SendMessage)
	g.GET("/conversations/:id", s.GetConversation)
	g.POST("/conversations/:id/end", s.EndConversation)

	g.POST("/analyze", s.AnalyzeTranscript)

	g.POST("/apps/generate", s.GenerateApp)
	g.GET("/apps/:id", s.GetApp)

	g.POST("/builds", s.StartBuild)
	g.GET("/builds/:id", s.GetBuild)
	g.POST("/builds/:id/cancel", s.CancelBuild)
	g.GET("/builds/:id/artifacts/:platform", s.GetBuildArtifact)

	g.POST("/speech/synthesize", s.SynthesizeSpeech)
}
