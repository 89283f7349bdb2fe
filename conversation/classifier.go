package conversation

import (
	"strings"
)

// Keyword sets for the message classifiers. Each classifier is an
// independent membership test over the lower-cased message; they are not
// mutually exclusive, and the state machine decides evaluation order.
var (
	appIntentKeywords = []string{"app", "build", "create", "develop", "make", "application"}

	featureIntentKeywords = []string{"feature", "function", "do", "should", "need", "want"}

	confirmationKeywords = []string{"yes", "correct", "right", "exactly", "perfect", "good"}

	platformKeywords = map[Platform][]string{
		PlatformWeb:     {"web", "website"},
		PlatformAndroid: {"android", "mobile"},
		PlatformIOS:     {"ios", "iphone"},
	}
)

// normalizeInput lower-cases the utterance once so every classifier works on
// the same form.
func normalizeInput(input string) string {
	return strings.ToLower(input)
}

// containsAny reports whether the normalized input contains at least one of
// the given keywords as a substring.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// HasAppIntent reports whether the utterance expresses the intent to build
// an application.
func HasAppIntent(input string) bool {
	return containsAny(normalizeInput(input), appIntentKeywords)
}

// HasFeatureIntent reports whether the utterance describes desired features
// or behavior.
func HasFeatureIntent(input string) bool {
	return containsAny(normalizeInput(input), featureIntentKeywords)
}

// HasConfirmation reports whether the utterance confirms a restated set of
// requirements.
func HasConfirmation(input string) bool {
	return containsAny(normalizeInput(input), confirmationKeywords)
}

// HasPlatformKeyword reports whether the utterance names any build target.
func HasPlatformKeyword(input string) bool {
	lower := normalizeInput(input)
	for _, kws := range platformKeywords {
		if containsAny(lower, kws) {
			return true
		}
	}
	return false
}

// DetectPlatforms returns the platforms named in the utterance in stable
// order (web, android, ios). The result may be empty; callers that need the
// never-empty invariant apply the web default themselves.
func DetectPlatforms(input string) []Platform {
	lower := normalizeInput(input)
	var detected []Platform
	for _, p := range []Platform{PlatformWeb, PlatformAndroid, PlatformIOS} {
		if containsAny(lower, platformKeywords[p]) {
			detected = append(detected, p)
		}
	}
	return detected
}
