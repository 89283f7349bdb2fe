package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAppIntent(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"I want to build a todo app", true},
		{"Create something for my team", true},
		{"develop a fitness tracker", true},
		{"MAKE me a website", true},
		{"hello there", false},
		{"what's the weather like", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasAppIntent(tt.input))
		})
	}
}

func TestHasFeatureIntent(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"It should let me add tasks", true},
		{"I need reminders and I want streaks", true},
		{"the main feature is sharing", true},
		{"hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasFeatureIntent(tt.input))
		})
	}
}

func TestHasConfirmation(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Yes, that's exactly right", true},
		{"perfect", true},
		{"sounds good to me", true},
		{"no, change the platforms", false},
		{"hmm", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasConfirmation(tt.input))
		})
	}
}

func TestDetectPlatforms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Platform
	}{
		{"web only", "a website for recipes", []Platform{PlatformWeb}},
		{"mobile implies android", "a mobile app", []Platform{PlatformAndroid}},
		{"iphone implies ios", "something for my iPhone", []Platform{PlatformIOS}},
		{"web and mobile", "It should work on web and mobile", []Platform{PlatformWeb, PlatformAndroid}},
		{"all three", "web, android and ios please", []Platform{PlatformWeb, PlatformAndroid, PlatformIOS}},
		{"none", "a thing for tracking habits", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatforms(tt.input))
		})
	}
}

func TestHasPlatformKeyword(t *testing.T) {
	assert.True(t, HasPlatformKeyword("put it on Android"))
	assert.False(t, HasPlatformKeyword("just something simple"))
}
