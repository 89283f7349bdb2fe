package conversation

import (
	"fmt"
	"strings"
)

// Turn is the outcome of advancing the state machine by one user message.
type Turn struct {
	Reply          string
	Next           Step
	RequiresAction bool
}

// Engine is the conversation state machine. Given the current step and a new
// user message it decides the assistant reply and the next step, and merges
// freshly extracted requirements into the state. The engine itself holds no
// per-conversation data; all of that lives in State.
type Engine struct {
	extractor *Extractor
}

// NewEngine creates a state machine backed by the given extractor.
func NewEngine(extractor *Extractor) *Engine {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Engine{extractor: extractor}
}

// Advance evaluates the transition table for the state's current step.
// Classifiers are checked in table order; the first match wins per state.
// Advance mutates st.CurrentStep and st.Requirements but never appends
// messages; the store owns the message sequence.
func (e *Engine) Advance(st *State, message string) Turn {
	switch st.CurrentStep {
	case StepGreeting:
		return e.advanceGreeting(st, message)
	case StepRequirementGathering:
		return e.advanceGathering(st, message)
	case StepClarification:
		return e.advanceClarification(st, message)
	case StepCompletion:
		// Terminal step is idempotent: stay in completion.
		return Turn{
			Reply:          "This conversation is already complete. Start a new one whenever you want to build another app.",
			Next:           StepCompletion,
			RequiresAction: true,
		}
	default:
		// Unknown step, treat as a fresh greeting.
		st.CurrentStep = StepGreeting
		return e.advanceGreeting(st, message)
	}
}

func (e *Engine) advanceGreeting(st *State, message string) Turn {
	if HasAppIntent(message) {
		e.mergeRequirements(st, message)
		st.CurrentStep = StepRequirementGathering
		return Turn{
			Reply: "Great, I can help you build that. Which platforms should it run on: web, Android, or iOS?",
			Next:  StepRequirementGathering,
		}
	}
	return Turn{
		Reply: "Hi! I can turn your idea into a working app. What kind of app would you like to build?",
		Next:  StepGreeting,
	}
}

func (e *Engine) advanceGathering(st *State, message string) Turn {
	if HasPlatformKeyword(message) {
		e.mergeRequirements(st, message)
		return Turn{
			Reply: "Got it. What features should the app have? Tell me everything it needs to do.",
			Next:  StepRequirementGathering,
		}
	}
	if HasFeatureIntent(message) {
		e.mergeRequirements(st, message)
		st.CurrentStep = StepClarification
		return Turn{
			Reply: e.restateRequirements(st),
			Next:  StepClarification,
		}
	}
	return Turn{
		Reply: "Could you tell me a bit more about what the app should do?",
		Next:  StepRequirementGathering,
	}
}

func (e *Engine) advanceClarification(st *State, message string) Turn {
	if HasConfirmation(message) {
		st.CurrentStep = StepCompletion
		return Turn{
			Reply:          "Perfect, I have everything I need. I'm ready to generate your app now.",
			Next:           StepCompletion,
			RequiresAction: true,
		}
	}
	return Turn{
		Reply: "Let me make sure I understand. What should be different from what I described?",
		Next:  StepClarification,
	}
}

// mergeRequirements runs the extractor over the new message plus history and
// shallow-overwrites the accumulated requirements field by field.
func (e *Engine) mergeRequirements(st *State, message string) {
	req, _ := e.extractor.Analyze(message, st.Messages)
	st.Requirements = req
}

// restateRequirements summarizes the accumulated requirements and asks for
// confirmation.
func (e *Engine) restateRequirements(st *State) string {
	req := st.Requirements
	if req == nil {
		return "So far I don't have much to go on. Did I get that right?"
	}
	platforms := make([]string, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platforms = append(platforms, string(p))
	}
	return fmt.Sprintf(
		"Here's what I have: a %s %s app for %s with %s. Did I get that right?",
		req.Complexity, req.UIStyle,
		strings.Join(platforms, " and "),
		strings.Join(req.CoreFeatures, ", "),
	)
}
