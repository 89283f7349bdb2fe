package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporterCounters(t *testing.T) {
	e := NewExporter(Config{})

	e.ConversationStarted()
	e.ConversationStarted()
	e.ConversationEnded()
	e.SetActiveConversations(7)
	e.MessageAppended("user")
	e.MessageAppended("assistant")
	e.MessageAppended("assistant")
	e.StepTransition("clarification")
	e.AnalyzeRequest("confirmation")
	e.AppGenerated([]string{"web", "android"})
	e.BuildStarted([]string{"web"})

	assert.Equal(t, 2.0, testutil.ToFloat64(e.conversationsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.conversationsEnded))
	assert.Equal(t, 7.0, testutil.ToFloat64(e.conversationsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.messages.WithLabelValues("user")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.messages.WithLabelValues("assistant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.stepTransitions.WithLabelValues("clarification")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.analyzeRequests.WithLabelValues("confirmation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.appsGenerated.WithLabelValues("web")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.appsGenerated.WithLabelValues("android")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.buildsStarted.WithLabelValues("web")))
}

func TestExporterHandler(t *testing.T) {
	e := NewExporter(Config{})
	e.ConversationStarted()
	e.ObserveMessageLatency(5 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "voiceforge_conversation_started_total 1")
	assert.Contains(t, body, "voiceforge_conversation_message_latency_seconds_count 1")
}
