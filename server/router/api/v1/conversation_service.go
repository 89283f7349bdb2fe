package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/voiceforge/voiceforge/conversation"
	"github.com/voiceforge/voiceforge/generator"
)

type startConversationRequest struct {
	UserID string `json:"userId"`
}

type startConversationResponse struct {
	ConversationID string               `json:"conversationId"`
	Message        conversation.Message `json:"message"`
	CurrentState   conversation.Step    `json:"currentState"`
}

func (s *APIV1Service) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.UserID == "" {
		return validationError(c, "userId is required")
	}

	state, greeting, err := s.Store.Start(c.Request().Context(), req.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	s.Metrics.ConversationStarted()
	s.Metrics.MessageAppended(string(conversation.RoleAssistant))
	s.Metrics.SetActiveConversations(s.Store.Len())

	return c.JSON(http.StatusOK, startConversationResponse{
		ConversationID: state.ID,
		Message:        greeting,
		CurrentState:   state.CurrentStep,
	})
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	UserMessage      conversation.Message `json:"userMessage"`
	AssistantMessage conversation.Message `json:"assistantMessage"`
	CurrentState     conversation.Step    `json:"currentState"`
	RequiresAction   bool                 `json:"requiresAction,omitempty"`
}

func (s *APIV1Service) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return validationError(c, "malformed request body")
	}
	if req.Message == "" {
		return validationError(c, "message is required")
	}

	start := time.Now()
	userMsg, assistantMsg, state, requiresAction, err := s.Store.SendMessage(c.Request().Context(), c.Param("id"), req.Message)
	if err != nil {
		return serviceError(c, err)
	}

	s.Metrics.MessageAppended(string(conversation.RoleUser))
	s.Metrics.MessageAppended(string(conversation.RoleAssistant))
	s.Metrics.StepTransition(string(state.CurrentStep))
	s.Metrics.ObserveMessageLatency(time.Since(start))

	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		CurrentState:     state.CurrentStep,
		RequiresAction:   requiresAction,
	})
}

func (s *APIV1Service) GetConversation(c echo.Context) error {
	state, err := s.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

type endConversationResponse struct {
	Message             conversation.Message       `json:"message"`
	FinalRequirements   *conversation.Requirements `json:"finalRequirements"`
	ConversationSummary conversation.Summary       `json:"conversationSummary"`
}

func (s *APIV1Service) EndConversation(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	state, err := s.Store.Get(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}

	closing, finalReq, summary, err := s.Store.End(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}

	// Remember the name the first user turn implies so the user's next
	// conversation starts with it in context.
	if idea := firstUserMessage(state.Messages); idea != "" {
		s.Store.RecordApp(state.UserID, generator.DeriveName(idea))
	}

	s.Metrics.ConversationEnded()
	s.Metrics.MessageAppended(string(conversation.RoleAssistant))
	s.Metrics.SetActiveConversations(s.Store.Len())

	return c.JSON(http.StatusOK, endConversationResponse{
		Message:             closing,
		FinalRequirements:   finalReq,
		ConversationSummary: summary,
	})
}

func firstUserMessage(messages []conversation.Message) string {
	for _, m := range messages {
		if m.Role == conversation.RoleUser {
			return m.Content
		}
	}
	return ""
}
