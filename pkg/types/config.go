package types

import "time"

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request timeout for AI API calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig holds settings for the HTTP API surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// APIKey is the expected X-API-Key header value. When empty,
	// authentication is disabled.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// CouncilConfig holds settings for councils that fan out over responders.
type CouncilConfig struct {
	AIConfig `yaml:",inline"`

	// MaxWorkers caps the number of responders running concurrently
	// (default 8).
	MaxWorkers int `json:"max_workers" yaml:"max_workers"`
}

// ProfileStoreKind selects the profile store backend.
type ProfileStoreKind string

const (
	StoreMemory ProfileStoreKind = "memory"
	StoreSQLite ProfileStoreKind = "sqlite"
)

// ProfileConfig holds settings for profile extraction and storage.
type ProfileConfig struct {
	AIConfig `yaml:",inline"`

	// Store selects the profile store backend: memory or sqlite.
	Store ProfileStoreKind `json:"store" yaml:"store"`

	// DBPath is the SQLite database path (used when Store is "sqlite").
	DBPath string `json:"db_path" yaml:"db_path"`

	// ConfidenceThreshold is the minimum confidence for an AI-extracted
	// profile field to be kept (default 0.6).
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
}

// RouterConfig holds settings for query analysis.
type RouterConfig struct {
	AIConfig `yaml:",inline"`
}

// PlannerConfig groups all component configurations for the planner.
type PlannerConfig struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Router  RouterConfig  `json:"router" yaml:"router"`
	Council CouncilConfig `json:"council" yaml:"council"`
	Profile ProfileConfig `json:"profile" yaml:"profile"`
}
