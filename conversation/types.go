// Package conversation implements the requirement-gathering dialog engine:
// keyword classifiers, the requirements extractor, the per-conversation
// state machine and the in-memory conversation store.
package conversation

import (
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Step is the current phase of the conversation state machine.
type Step string

const (
	StepGreeting             Step = "greeting"
	StepRequirementGathering Step = "requirement_gathering"
	StepClarification        Step = "clarification"
	StepConfirmation         Step = "confirmation"
	StepCompletion           Step = "completion"
)

// Platform is a build target detected from user utterances.
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// UIStyle is the inferred visual direction for the generated app.
type UIStyle string

const (
	UIStyleModern     UIStyle = "modern"
	UIStyleMinimalist UIStyle = "minimalist"
	UIStyleCorporate  UIStyle = "corporate"
)

// Complexity is the inferred scope of the requested app.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Message is a single conversation turn. Messages are append-only and never
// mutated after creation.
type Message struct {
	ID        string    `json:"messageId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// TechnicalRequirements holds the boolean infrastructure flags and external
// API labels inferred from utterances.
type TechnicalRequirements struct {
	Database       bool     `json:"database"`
	Authentication bool     `json:"authentication"`
	ExternalAPIs   []string `json:"externalApis"`
}

// Requirements is the structured extraction derived from a transcript.
// Platforms is never empty; CoreFeatures holds at most MaxCoreFeatures
// unique entries.
type Requirements struct {
	Platforms    []Platform            `json:"platforms"`
	CoreFeatures []string              `json:"coreFeatures"`
	UIStyle      UIStyle               `json:"uiStyle"`
	Complexity   Complexity            `json:"complexity"`
	Technical    TechnicalRequirements `json:"technicalRequirements"`
}

// Context carries cross-turn memory that is not part of the extraction
// itself.
type Context struct {
	UserPreferences      map[string]string `json:"userPreferences"`
	TechnicalConstraints []string          `json:"technicalConstraints"`
	PreviousApps         []string          `json:"previousApps"`
}

// State is the full per-conversation record owned by the Store.
type State struct {
	ID           string        `json:"conversationId"`
	UserID       string        `json:"userId"`
	Messages     []Message     `json:"messages"`
	CurrentStep  Step          `json:"currentStep"`
	Requirements *Requirements `json:"extractedRequirements"`
	Context      Context       `json:"context"`
	CreatedAt    time.Time     `json:"createdTs"`
	UpdatedAt    time.Time     `json:"updatedTs"`
	Ended        bool          `json:"ended"`
}

// Summary is the closing digest returned by End.
type Summary struct {
	UserMessages      int   `json:"userMessages"`
	AssistantMessages int   `json:"assistantMessages"`
	DurationSeconds   int64 `json:"durationSeconds"`
}

// summarize computes message counts and the elapsed time between the first
// and last message.
func summarize(messages []Message) Summary {
	var s Summary
	for _, m := range messages {
		switch m.Role {
		case RoleUser:
			s.UserMessages++
		case RoleAssistant:
			s.AssistantMessages++
		}
	}
	if len(messages) > 1 {
		first := messages[0].CreatedAt
		last := messages[len(messages)-1].CreatedAt
		s.DurationSeconds = int64(last.Sub(first) / time.Second)
	}
	return s
}
