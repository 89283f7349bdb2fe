// Package generator maps an idea string plus a platform selection to a fixed
// set of scaffold file artifacts. It is a deterministic pure mapping: every
// input produces output, falling back to a generic template and name when
// the idea carries no recognizable signal.
package generator

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lithammer/shortuuid/v4"

	"github.com/voiceforge/voiceforge/conversation"
)

// FallbackName is used when no idea word survives filtering.
const FallbackName = "MyApp"

// nameStopWords are excluded from name derivation.
var nameStopWords = map[string]bool{
	"with": true, "that": true, "for": true, "and": true,
	"the": true, "app": true, "application": true,
}

// File is one generated artifact.
type File struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Path     string `json:"path"`
}

// GeneratedApp is an immutable snapshot of one generation run.
type GeneratedApp struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Platforms    []string  `json:"platforms"`
	BuildCommand string    `json:"buildCommand"`
	Files        []File    `json:"generatedFiles"`
	Instructions string    `json:"instructions"`
	Assumptions  []string  `json:"assumptions"`
	CreatedAt    time.Time `json:"createdTs"`
}

// Generator produces scaffold apps from idea text.
type Generator struct {
	now func() time.Time
}

// New creates a Generator.
func New() *Generator {
	return &Generator{now: time.Now}
}

// DeriveName builds the app name from the idea: words longer than three
// characters that are not stop words, first two survivors, each capitalized
// and concatenated.
func DeriveName(idea string) string {
	words := strings.FieldsFunc(idea, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var parts []string
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) <= 3 || nameStopWords[lower] {
			continue
		}
		parts = append(parts, capitalize(lower))
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return FallbackName
	}
	return strings.Join(parts, "")
}

func capitalize(word string) string {
	r := []rune(word)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Generate produces the scaffold for the idea. Each selected platform gets a
// todo-shaped code template when the idea mentions "todo", otherwise the
// generic list-management template, plus that platform's fixed config files.
// buildSystem selects the web package runner (npm by default).
func (g *Generator) Generate(idea string, platforms []conversation.Platform, buildSystem string) *GeneratedApp {
	name := DeriveName(idea)
	todoShaped := strings.Contains(strings.ToLower(idea), "todo")
	if buildSystem == "" {
		buildSystem = "npm"
	}

	app := &GeneratedApp{
		ID:        shortuuid.New(),
		Name:      name,
		CreatedAt: g.now(),
	}

	var commands []string
	var instructions []string
	for _, p := range platforms {
		app.Platforms = append(app.Platforms, string(p))
		switch p {
		case conversation.PlatformWeb:
			app.Files = append(app.Files, webFiles(name, todoShaped, buildSystem)...)
			commands = append(commands, fmt.Sprintf("%s install && %s run build", buildSystem, buildSystem))
			instructions = append(instructions, fmt.Sprintf("Web: run `%s install` then `%s run dev` inside web/ and open http://localhost:5173.", buildSystem, buildSystem))
		case conversation.PlatformAndroid:
			app.Files = append(app.Files, androidFiles(name, todoShaped)...)
			commands = append(commands, "./gradlew assembleDebug")
			instructions = append(instructions, "Android: open android/ in Android Studio or run `./gradlew assembleDebug`.")
		case conversation.PlatformIOS:
			app.Files = append(app.Files, iosFiles(name, todoShaped)...)
			commands = append(commands, fmt.Sprintf("xcodebuild -scheme %s build", name))
			instructions = append(instructions, fmt.Sprintf("iOS: open ios/%s.xcodeproj in Xcode and press Run.", name))
		}
	}

	app.BuildCommand = strings.Join(commands, " && ")
	app.Instructions = strings.Join(instructions, "\n")
	app.Assumptions = assumptions(name, todoShaped, buildSystem)
	return app
}

func assumptions(name string, todoShaped bool, buildSystem string) []string {
	a := []string{
		fmt.Sprintf("Using %s as the web build system.", buildSystem),
	}
	if todoShaped {
		a = append(a, "Idea mentions a todo list, so the task-management template was selected.")
	} else {
		a = append(a, "No recognized domain keyword, so the generic list-management template was selected.")
	}
	if name == FallbackName {
		a = append(a, "No usable words in the idea, so the default app name was applied.")
	}
	return a
}
