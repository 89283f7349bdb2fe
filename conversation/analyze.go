package conversation

import (
	"fmt"
	"strings"
)

// ResponseType classifies the stateless analyze reply.
type ResponseType string

const (
	ResponseClarification ResponseType = "clarification"
	ResponseConfirmation  ResponseType = "confirmation"
	ResponseCompletion    ResponseType = "completion"
)

// AnalyzeResult is the output of the stateless transcript analysis: fresh
// requirements plus a confidence-gated conversational response. Unlike the
// stateful engine it persists nothing; the caller carries state between
// requests.
type AnalyzeResult struct {
	Requirements *Requirements `json:"requirements"`
	Confidence   float64       `json:"confidence"`
	Response     Response      `json:"conversationResponse"`
	NextState    Step          `json:"nextState"`
}

// Response is the assistant-facing half of an AnalyzeResult.
type Response struct {
	Type      ResponseType `json:"type"`
	Message   string       `json:"message"`
	Questions []string     `json:"questions,omitempty"`
}

// confirmationThreshold gates the confirmation response: below it the
// assistant keeps clarifying.
const confirmationThreshold = 0.8

// AnalyzeTranscript runs the extractor over the transcript and history and
// selects a response by confidence gating. When the caller is already
// confirming (currentState clarification or confirmation) and the transcript
// carries a confirmation keyword, the response completes the exchange.
func AnalyzeTranscript(extractor *Extractor, transcript string, history []Message, currentState Step) *AnalyzeResult {
	req, confidence := extractor.Analyze(transcript, history)

	if (currentState == StepClarification || currentState == StepConfirmation) && HasConfirmation(transcript) {
		return &AnalyzeResult{
			Requirements: req,
			Confidence:   confidence,
			Response: Response{
				Type:    ResponseCompletion,
				Message: "Great, your requirements are locked in. Generating your app next.",
			},
			NextState: StepCompletion,
		}
	}

	switch {
	case len(req.Platforms) == 0:
		// Unreachable with the current extractor defaults, kept as a guard.
		return clarification(req, confidence, "Which platforms should the app run on?",
			"Do you want a web app, a mobile app, or both?")
	case confidence < confirmationThreshold:
		return clarification(req, confidence, "I need a little more detail to be sure I've got it.",
			"What is the main thing users will do in the app?",
			"Should it run on web, Android, or iOS?")
	case len(req.CoreFeatures) >= 3:
		return &AnalyzeResult{
			Requirements: req,
			Confidence:   confidence,
			Response: Response{
				Type:    ResponseConfirmation,
				Message: confirmationMessage(req),
			},
			NextState: StepConfirmation,
		}
	default:
		return clarification(req, confidence, "Tell me more about the features you'd like.",
			"What should users be able to do?")
	}
}

func clarification(req *Requirements, confidence float64, message string, questions ...string) *AnalyzeResult {
	return &AnalyzeResult{
		Requirements: req,
		Confidence:   confidence,
		Response: Response{
			Type:      ResponseClarification,
			Message:   message,
			Questions: questions,
		},
		NextState: StepClarification,
	}
}

func confirmationMessage(req *Requirements) string {
	platforms := make([]string, 0, len(req.Platforms))
	for _, p := range req.Platforms {
		platforms = append(platforms, string(p))
	}
	return fmt.Sprintf("I'll build a %s app for %s with %s. Sound good?",
		req.Complexity,
		strings.Join(platforms, " and "),
		strings.Join(req.CoreFeatures, ", "),
	)
}
