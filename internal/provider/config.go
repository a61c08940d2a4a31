package provider

import (
	"os"
	"strings"
)

// ProviderType identifies which identity provider to use.
type ProviderType string

const (
	ProviderLocal  ProviderType = "local"
	ProviderHosted ProviderType = "hosted"
	ProviderMemory ProviderType = "memory"
)

// Config holds configuration for the identity provider.
type Config struct {
	// Provider type: "local", "hosted" or "memory"
	Provider ProviderType

	// Hosted-specific config
	HostedURL string
	HostedKey string
}

// LoadFromEnv loads provider configuration from environment variables.
//
// Environment variables:
//   - PORTAL_PROVIDER: "local", "hosted" or "memory" (default: "local")
//   - PORTAL_HOSTED_URL: base URL of the hosted auth service (required for hosted)
//   - PORTAL_HOSTED_KEY: API key for the hosted auth service (required for hosted)
func LoadFromEnv() Config {
	providerStr := strings.ToLower(strings.TrimSpace(os.Getenv("PORTAL_PROVIDER")))

	var provider ProviderType
	switch providerStr {
	case "hosted":
		provider = ProviderHosted
	case "memory":
		provider = ProviderMemory
	default:
		provider = ProviderLocal
	}

	return Config{
		Provider:  provider,
		HostedURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PORTAL_HOSTED_URL")), "/"),
		HostedKey: os.Getenv("PORTAL_HOSTED_KEY"),
	}
}

// Validate checks the configuration is usable for the selected provider.
func (c Config) Validate() error {
	if c.Provider == ProviderHosted {
		if c.HostedURL == "" {
			return ErrMissingBaseURL
		}
		if c.HostedKey == "" {
			return ErrMissingAPIKey
		}
	}
	return nil
}
