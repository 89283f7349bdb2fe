package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiceforge/voiceforge/buildsim"
	"github.com/voiceforge/voiceforge/conversation"
	"github.com/voiceforge/voiceforge/internal/profile"
	"github.com/voiceforge/voiceforge/metrics"
)

// instantClock removes the fixed build delays so simulated builds finish
// within a test run.
type instantClock struct{}

func (instantClock) Now() time.Time { return time.Now() }

func (instantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()

	simulator, err := buildsim.NewSimulator(context.Background(), buildsim.Config{Clock: instantClock{}})
	require.NoError(t, err)

	svc, err := NewAPIV1Service(
		&profile.Profile{Mode: "dev"},
		conversation.NewStore(nil),
		simulator,
		metrics.NewExporter(metrics.Config{}),
	)
	require.NoError(t, err)

	e := echo.New()
	svc.RegisterRoutes(e)
	return svc, e
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	_, e := newTestService(t)
	return e
}

func request(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func startConversation(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := request(t, e, http.MethodPost, "/api/v1/conversations", `{"userId":"user-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ConversationID string `json:"conversationId"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.ConversationID)
	return resp.ConversationID
}

func generateApp(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := request(t, e, http.MethodPost, "/api/v1/apps/generate",
		`{"idea":"A simple todo app","platforms":{"web":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestStartConversation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations", `{"userId":"user-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ConversationID string               `json:"conversationId"`
		Message        conversation.Message `json:"message"`
		CurrentState   conversation.Step    `json:"currentState"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, conversation.RoleAssistant, resp.Message.Role)
	assert.Equal(t, conversation.StepGreeting, resp.CurrentState)
}

func TestStartConversationValidation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "validation_error", body.Error)
}

func TestSendMessage(t *testing.T) {
	e := newTestServer(t)
	id := startConversation(t, e)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations/"+id+"/messages",
		`{"message":"I want to build a todo app"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserMessage      conversation.Message `json:"userMessage"`
		AssistantMessage conversation.Message `json:"assistantMessage"`
		CurrentState     conversation.Step    `json:"currentState"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, conversation.RoleUser, resp.UserMessage.Role)
	assert.Equal(t, "I want to build a todo app", resp.UserMessage.Content)
	assert.Equal(t, conversation.RoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, conversation.StepRequirementGathering, resp.CurrentState)
}

func TestSendMessageValidation(t *testing.T) {
	e := newTestServer(t)
	id := startConversation(t, e)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations/"+id+"/messages", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations/missing/messages", `{"message":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, "not_found", body.Error)
}

func TestGetConversation(t *testing.T) {
	e := newTestServer(t)
	id := startConversation(t, e)

	rec := request(t, e, http.MethodGet, "/api/v1/conversations/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var state conversation.State
	decode(t, rec, &state)
	assert.Equal(t, id, state.ID)
	assert.Len(t, state.Messages, 1)

	rec = request(t, e, http.MethodGet, "/api/v1/conversations/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndConversation(t *testing.T) {
	e := newTestServer(t)
	id := startConversation(t, e)

	rec := request(t, e, http.MethodPost, "/api/v1/conversations/"+id+"/messages",
		`{"message":"I want to build a recipe app"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, e, http.MethodPost, "/api/v1/conversations/"+id+"/end", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message             conversation.Message       `json:"message"`
		FinalRequirements   *conversation.Requirements `json:"finalRequirements"`
		ConversationSummary conversation.Summary       `json:"conversationSummary"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, conversation.RoleAssistant, resp.Message.Role)
	require.NotNil(t, resp.FinalRequirements)
	assert.NotEmpty(t, resp.FinalRequirements.CoreFeatures)
	assert.Equal(t, 1, resp.ConversationSummary.UserMessages)

	rec = request(t, e, http.MethodPost, "/api/v1/conversations/missing/end", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func scrapeActiveGauge(t *testing.T, svc *APIV1Service) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	svc.Metrics.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(line, "voiceforge_conversation_active ") {
			return line
		}
	}
	return ""
}

func TestActiveConversationsGauge(t *testing.T) {
	svc, e := newTestService(t)

	startConversation(t, e)
	startConversation(t, e)
	assert.Equal(t, "voiceforge_conversation_active 2", scrapeActiveGauge(t, svc))

	// Ending keeps the conversation in the store, so the gauge holds until a
	// sweep evicts entries.
	id := startConversation(t, e)
	rec := request(t, e, http.MethodPost, "/api/v1/conversations/"+id+"/end", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "voiceforge_conversation_active 3", scrapeActiveGauge(t, svc))

	job := conversation.NewCleanupJob(svc.Store, conversation.CleanupConfig{
		MaxConversations: 1,
		OnSweep: func(_, remaining int) {
			svc.Metrics.SetActiveConversations(remaining)
		},
	})
	job.RunOnce(context.Background())
	assert.Equal(t, "voiceforge_conversation_active 1", scrapeActiveGauge(t, svc))
}

func TestAnalyzeTranscript(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/analyze",
		`{"transcript":"an advanced todo web app with login, payments and push notifications stored in a database"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result conversation.AnalyzeResult
	decode(t, rec, &result)
	assert.Equal(t, conversation.ResponseConfirmation, result.Response.Type)
	assert.Equal(t, conversation.StepConfirmation, result.NextState)
}

func TestAnalyzeTranscriptValidation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/analyze", `{"transcript":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeTranscriptCarriesPlatformsForward(t *testing.T) {
	e := newTestServer(t)

	body := `{
		"transcript": "it should also remind me daily",
		"currentState": "requirement_gathering",
		"previousRequirements": {
			"platforms": ["android"],
			"coreFeatures": [],
			"uiStyle": "modern",
			"complexity": "basic",
			"technicalRequirements": {"database": false, "authentication": false}
		}
	}`
	rec := request(t, e, http.MethodPost, "/api/v1/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result conversation.AnalyzeResult
	decode(t, rec, &result)
	require.NotNil(t, result.Requirements)
	assert.Equal(t, []conversation.Platform{conversation.PlatformAndroid}, result.Requirements.Platforms)
}

func TestGenerateApp(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/apps/generate",
		`{"idea":"A simple todo app","platforms":{"web":true,"android":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Platforms []string `json:"platforms"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "SimpleTodo", resp.Name)
	assert.Equal(t, []string{"web", "android"}, resp.Platforms)

	rec = request(t, e, http.MethodGet, "/api/v1/apps/"+resp.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateAppValidation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/apps/generate", `{"idea":"","platforms":{"web":true}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, e, http.MethodPost, "/api/v1/apps/generate", `{"idea":"a todo app","platforms":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decode(t, rec, &body)
	assert.Contains(t, body.Message, "platform")
}

func TestGetAppNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodGet, "/api/v1/apps/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildLifecycle(t *testing.T) {
	e := newTestServer(t)
	appID := generateApp(t, e)

	rec := request(t, e, http.MethodPost, "/api/v1/builds", `{"appId":"`+appID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap buildsim.Snapshot
	decode(t, rec, &snap)
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, appID, snap.AppID)

	require.Eventually(t, func() bool {
		rec := request(t, e, http.MethodGet, "/api/v1/builds/"+snap.ID, "")
		if rec.Code != http.StatusOK {
			return false
		}
		var got buildsim.Snapshot
		decode(t, rec, &got)
		return got.Done
	}, 2*time.Second, 5*time.Millisecond)

	rec = request(t, e, http.MethodGet, "/api/v1/builds/"+snap.ID+"/artifacts/web", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "web/index.html")
}

func TestStartBuildValidation(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/builds", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, e, http.MethodPost, "/api/v1/builds", `{"appId":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBuildNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodGet, "/api/v1/builds/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelBuildNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/builds/missing/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSynthesizeSpeech(t *testing.T) {
	e := newTestServer(t)

	rec := request(t, e, http.MethodPost, "/api/v1/speech/synthesize", `{"text":"Hello there"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Text  string  `json:"text"`
		Voice string  `json:"voice"`
		Rate  float64 `json:"rate"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Hello there", resp.Text)
	assert.Equal(t, "default", resp.Voice)
	assert.Equal(t, 1.0, resp.Rate)

	rec = request(t, e, http.MethodPost, "/api/v1/speech/synthesize", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
