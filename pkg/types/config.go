package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "referee/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DocumentConfig holds settings for document resolution.
type DocumentConfig struct {
	// Extractor selects the text extraction backend: pdftotext or plain.
	// Defaults to pdftotext for .pdf inputs and plain for everything else.
	Extractor string `json:"extractor,omitempty" yaml:"extractor,omitempty"`
}

// RunnerConfig holds settings for the model runner gateway.
type RunnerConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the chat-completion gateway endpoint
	// (e.g. "http://localhost:11434"). The gateway routes requests to the
	// provider named by each model's service tag.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates against the gateway. Empty means the
	// runner-api-key secret, if present, is used instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RegistryConfig holds settings for the artifact registry (remote publish).
type RegistryConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the registry endpoint used for publish operations.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates publish requests. Empty means the
	// registry-api-key secret, if present, is used instead.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Visibility is the access level requested for published artifacts
	// (default "unlisted").
	Visibility string `json:"visibility" yaml:"visibility"`
}

// CacheConfig holds settings for the local answer cache.
type CacheConfig struct {
	// Dir is the directory containing the cache database
	// (default "~/.cache/referee"). The database file is answers.db.
	Dir string `json:"dir" yaml:"dir"`

	// Disable turns the cache off entirely; every cell is re-evaluated.
	Disable bool `json:"disable" yaml:"disable"`
}

// PipelineConfig groups all stage configurations for one invocation.
type PipelineConfig struct {
	Document DocumentConfig `json:"document" yaml:"document"`
	Runner   RunnerConfig   `json:"runner" yaml:"runner"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`

	// Models is the ordered model set. Empty means DefaultModels().
	Models []ModelConfig `json:"models" yaml:"models"`
}
