package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is built once at
// startup and passed down as an immutable capability bundle; adapters whose
// credential is empty self-disable rather than failing the request.
type Config struct {
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Exa         ExaConfig         `yaml:"exa" mapstructure:"exa"`
	Perplexity  PerplexityConfig  `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Apollo      ApolloConfig      `yaml:"apollo" mapstructure:"apollo"`
	EnrichLayer EnrichLayerConfig `yaml:"enrichlayer" mapstructure:"enrichlayer"`
	Notion      NotionConfig      `yaml:"notion" mapstructure:"notion"`
	Salesforce  SalesforceConfig  `yaml:"salesforce" mapstructure:"salesforce"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Merge       MergeConfig       `yaml:"merge" mapstructure:"merge"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the search-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"`
}

// ExaConfig holds semantic-search provider settings.
type ExaConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	NumResults int    `yaml:"num_results" mapstructure:"num_results"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
}

// ApolloConfig holds the Apollo enrichment API settings.
type ApolloConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// EnrichLayerConfig holds the EnrichLayer enrichment API settings.
type EnrichLayerConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// NotionConfig holds Notion export settings.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings for the export target.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// PipelineConfig configures fan-out and contact resolution.
type PipelineConfig struct {
	MaxConcurrentCompanies int     `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
	ContactLimit           int     `yaml:"contact_limit" mapstructure:"contact_limit"`
	VerifyThreshold        float64 `yaml:"verify_threshold" mapstructure:"verify_threshold"`
	CacheTTLHours          int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	ProbeTimeoutSecs       int     `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
}

// MergeConfig configures the merge engine.
type MergeConfig struct {
	// SourcesFile optionally overrides the compiled-in provider evaluation
	// order with a yaml file.
	SourcesFile string `yaml:"sources_file" mapstructure:"sources_file"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "prospector.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("exa.base_url", "https://api.exa.ai")
	v.SetDefault("exa.num_results", 5)
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("apollo.base_url", "https://api.apollo.io/v1")
	v.SetDefault("apollo.rps", 2)
	v.SetDefault("enrichlayer.base_url", "https://api.enrichlayer.com/v1")
	v.SetDefault("enrichlayer.rps", 2)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("pipeline.max_concurrent_companies", 25)
	v.SetDefault("pipeline.contact_limit", 5)
	v.SetDefault("pipeline.verify_threshold", 0.5)
	v.SetDefault("pipeline.cache_ttl_hours", 24)
	v.SetDefault("pipeline.probe_timeout_secs", 5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it starts. mode selects
// the command profile; shared pipeline bounds are checked for every mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "search", "export":
		// No extra requirements beyond the shared bounds. Export targets
		// that need credentials (notion, salesforce) are checked at
		// client construction.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Pipeline.MaxConcurrentCompanies < 1 || c.Pipeline.MaxConcurrentCompanies > 50 {
		problems = append(problems, "pipeline.max_concurrent_companies must be between 1 and 50")
	}
	if c.Pipeline.VerifyThreshold < 0 || c.Pipeline.VerifyThreshold > 1 {
		problems = append(problems, "pipeline.verify_threshold must be between 0 and 1")
	}
	if c.Pipeline.ContactLimit < 1 {
		problems = append(problems, "pipeline.contact_limit must be >= 1")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
