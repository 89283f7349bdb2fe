package profile

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Mode can be "prod", "dev" or "demo".
	Mode string
	// Addr is the binding address; empty means all interfaces.
	Addr string
	// Port is the binding port of the HTTP server.
	Port int
	// InstanceURL is the public URL of this instance, used in greetings.
	InstanceURL string
	// Version is the current service version.
	Version string

	// ConversationTTL is how long idle conversations are retained.
	ConversationTTL time.Duration
	// ConversationSweepInterval is how often the cleanup job runs.
	ConversationSweepInterval time.Duration
	// MaxConversations caps the in-memory conversation store.
	MaxConversations int

	// BuildStepDelay is the fixed delay between simulated build steps.
	BuildStepDelay time.Duration
	// MaxConcurrentBuilds caps simulated platform builds running at once.
	MaxConcurrentBuilds int64
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultDuration returns environment variable value as duration or
// default value.
func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.ConversationTTL = getEnvOrDefaultDuration("VOICEFORGE_CONVERSATION_TTL", 24*time.Hour)
	p.ConversationSweepInterval = getEnvOrDefaultDuration("VOICEFORGE_CONVERSATION_SWEEP_INTERVAL", 10*time.Minute)
	p.MaxConversations = getEnvOrDefaultInt("VOICEFORGE_MAX_CONVERSATIONS", 10000)
	p.BuildStepDelay = getEnvOrDefaultDuration("VOICEFORGE_BUILD_STEP_DELAY", 600*time.Millisecond)
	p.MaxConcurrentBuilds = int64(getEnvOrDefaultInt("VOICEFORGE_MAX_CONCURRENT_BUILDS", 4))
	if p.InstanceURL == "" {
		p.InstanceURL = getEnvOrDefault("VOICEFORGE_INSTANCE_URL", "")
	}
}

// Validate normalizes the profile and rejects unusable values.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.ConversationTTL <= 0 {
		return errors.Errorf("conversation TTL must be positive, got %s", p.ConversationTTL)
	}
	if p.ConversationSweepInterval <= 0 {
		return errors.Errorf("conversation sweep interval must be positive, got %s", p.ConversationSweepInterval)
	}
	if p.MaxConversations <= 0 {
		return errors.Errorf("max conversations must be positive, got %d", p.MaxConversations)
	}
	if p.BuildStepDelay <= 0 {
		return errors.Errorf("build step delay must be positive, got %s", p.BuildStepDelay)
	}
	if p.MaxConcurrentBuilds <= 0 {
		return errors.Errorf("max concurrent builds must be positive, got %d", p.MaxConcurrentBuilds)
	}
	return nil
}
