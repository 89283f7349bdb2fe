package conversation

import (
	"strings"
)

// MaxCoreFeatures bounds the number of features kept per extraction.
const MaxCoreFeatures = 5

// Confidence bounds for the extractor. Confidence is a deterministic
// function of how many independent signal classes the transcript carries,
// mapped into [MinConfidence, MaxConfidence].
const (
	MinConfidence     = 0.70
	MaxConfidence     = 0.99
	confidencePerHint = 0.05
)

// domainFeatures maps a domain keyword to the feature list it implies.
// Matched lists are unioned, de-duplicated and truncated to MaxCoreFeatures.
var domainFeatures = map[string][]string{
	"todo":       {"task creation", "due dates", "completion tracking"},
	"recipe":     {"recipe catalog", "ingredient lists", "step-by-step instructions"},
	"fitness":    {"workout logging", "progress charts", "goal tracking"},
	"budget":     {"expense tracking", "category breakdown", "monthly reports"},
	"social":     {"user profiles", "activity feed", "comments"},
	"habit":      {"habit streaks", "daily check-ins", "reminders"},
	"meditation": {"guided sessions", "session timer", "mood tracking"},
	"language":   {"vocabulary drills", "spaced repetition", "pronunciation practice"},
}

// genericFeatures is substituted when no domain keyword matches.
var genericFeatures = []string{"item management", "search and filter", "data export"}

var (
	minimalistKeywords = []string{"minimal", "minimalist", "clean", "simple design"}
	corporateKeywords  = []string{"corporate", "professional", "business", "enterprise"}

	basicKeywords    = []string{"simple", "basic", "easy", "quick"}
	advancedKeywords = []string{"advanced", "complex", "powerful", "full-featured"}

	databaseKeywords = []string{"database", "save", "store", "sync", "persist"}
	authKeywords     = []string{"login", "account", "sign in", "sign up", "auth", "password"}
)

// externalAPISignals maps trigger keywords to the external API label they
// imply.
var externalAPISignals = []struct {
	label    string
	keywords []string
}{
	{"payment processing", []string{"payment", "pay", "purchase", "checkout", "subscription"}},
	{"maps/geolocation", []string{"map", "location", "gps", "nearby"}},
	{"push notifications", []string{"notification", "remind", "alert"}},
	{"social media", []string{"share", "social media", "twitter", "instagram"}},
}

// Extractor derives structured requirements from free-text utterances. It is
// a pure keyword-matching layer: it never fails, and every absent signal
// resolves to a documented default.
type Extractor struct{}

// NewExtractor creates a requirements extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Analyze extracts requirements from the transcript. History provides prior
// user turns whose text participates in feature and technical detection, so
// multi-turn conversations accumulate signals. The returned confidence is in
// [MinConfidence, MaxConfidence].
func (e *Extractor) Analyze(transcript string, history []Message) (*Requirements, float64) {
	combined := transcript
	for _, m := range history {
		if m.Role == RoleUser {
			combined += "\n" + m.Content
		}
	}
	lower := normalizeInput(combined)

	hints := 0

	platforms := DetectPlatforms(combined)
	if len(platforms) > 0 {
		hints++
	} else {
		platforms = []Platform{PlatformWeb}
	}

	features := e.detectFeatures(lower)
	if len(features) > 0 {
		hints++
	} else {
		features = append([]string(nil), genericFeatures...)
	}

	style := UIStyleModern
	switch {
	case containsAny(lower, minimalistKeywords):
		style = UIStyleMinimalist
		hints++
	case containsAny(lower, corporateKeywords):
		style = UIStyleCorporate
		hints++
	}

	complexity := ComplexityIntermediate
	switch {
	case containsAny(lower, advancedKeywords):
		complexity = ComplexityAdvanced
		hints++
	case containsAny(lower, basicKeywords):
		complexity = ComplexityBasic
		hints++
	}

	tech := TechnicalRequirements{
		Database:       containsAny(lower, databaseKeywords),
		Authentication: containsAny(lower, authKeywords),
	}
	if tech.Database {
		hints++
	}
	if tech.Authentication {
		hints++
	}
	for _, sig := range externalAPISignals {
		if containsAny(lower, sig.keywords) {
			tech.ExternalAPIs = append(tech.ExternalAPIs, sig.label)
		}
	}
	if len(tech.ExternalAPIs) > 0 {
		hints++
	}

	return &Requirements{
		Platforms:    platforms,
		CoreFeatures: features,
		UIStyle:      style,
		Complexity:   complexity,
		Technical:    tech,
	}, confidenceForHints(hints)
}

// detectFeatures unions the feature lists of all matched domain keywords,
// de-duplicated and truncated to MaxCoreFeatures. Domains are checked in a
// fixed order so the result is deterministic.
func (e *Extractor) detectFeatures(lower string) []string {
	var features []string
	seen := make(map[string]bool)
	for _, domain := range []string{"todo", "recipe", "fitness", "budget", "social", "habit", "meditation", "language"} {
		if !strings.Contains(lower, domain) {
			continue
		}
		for _, f := range domainFeatures[domain] {
			if seen[f] {
				continue
			}
			seen[f] = true
			features = append(features, f)
			if len(features) == MaxCoreFeatures {
				return features
			}
		}
	}
	return features
}

// confidenceForHints maps the number of detected signal classes into the
// confidence range.
func confidenceForHints(hints int) float64 {
	c := MinConfidence + float64(hints)*confidencePerHint
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}
