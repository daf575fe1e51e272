package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Oracle       OracleConfig       `yaml:"oracle" mapstructure:"oracle"`
	Jina         JinaConfig         `yaml:"jina" mapstructure:"jina"`
	Web          WebConfig          `yaml:"web" mapstructure:"web"`
	SQLAgent     SQLAgentConfig     `yaml:"sql_agent" mapstructure:"sql_agent"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator" mapstructure:"orchestrator"`
	Session      SessionConfig      `yaml:"session" mapstructure:"session"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the relational and vector store backend.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OracleConfig configures the text-completion provider.
type OracleConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // "openrouter" or "anthropic"
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	PacingSecs  int     `yaml:"pacing_secs" mapstructure:"pacing_secs"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// JinaConfig holds Jina AI reader, search, and embeddings settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
	EmbedBaseURL  string `yaml:"embed_base_url" mapstructure:"embed_base_url"`
	EmbedModel    string `yaml:"embed_model" mapstructure:"embed_model"`
}

// WebConfig configures the web retrieval sub-agent.
type WebConfig struct {
	MaxQueries     int `yaml:"max_queries" mapstructure:"max_queries"`
	HitsPerQuery   int `yaml:"hits_per_query" mapstructure:"hits_per_query"`
	ChunkTokens    int `yaml:"chunk_tokens" mapstructure:"chunk_tokens"`
	ChunkOverlap   int `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	TopK           int `yaml:"top_k" mapstructure:"top_k"`
	EmbedDim       int `yaml:"embed_dim" mapstructure:"embed_dim"`
	FetchParallel  int `yaml:"fetch_parallel" mapstructure:"fetch_parallel"`
	SynthMaxTokens int `yaml:"synth_max_tokens" mapstructure:"synth_max_tokens"`
}

// SQLAgentConfig configures the relational sub-agent loop.
type SQLAgentConfig struct {
	MaxSteps  int `yaml:"max_steps" mapstructure:"max_steps"`
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OrchestratorConfig configures the top-level coordination loop.
type OrchestratorConfig struct {
	MaxSteps  int `yaml:"max_steps" mapstructure:"max_steps"`
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SessionConfig configures the conversation store.
type SessionConfig struct {
	Backend  string `yaml:"backend" mapstructure:"backend"` // "memory" or "sqlite"
	Path     string `yaml:"path" mapstructure:"path"`
	MaxTurns int    `yaml:"max_turns" mapstructure:"max_turns"`
}

// ServerConfig configures the HTTP query server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("ANALYST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("oracle.provider", "openrouter")
	v.SetDefault("oracle.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("oracle.model", "x-ai/grok-4.1-fast:free")
	v.SetDefault("oracle.pacing_secs", 3)
	v.SetDefault("oracle.temperature", 0.0)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("jina.embed_base_url", "https://api.jina.ai")
	v.SetDefault("jina.embed_model", "jina-embeddings-v3")
	v.SetDefault("web.max_queries", 3)
	v.SetDefault("web.hits_per_query", 5)
	v.SetDefault("web.chunk_tokens", 256)
	v.SetDefault("web.chunk_overlap", 32)
	v.SetDefault("web.top_k", 6)
	v.SetDefault("web.embed_dim", 1024)
	v.SetDefault("web.fetch_parallel", 4)
	v.SetDefault("web.synth_max_tokens", 2048)
	v.SetDefault("sql_agent.max_steps", 10)
	v.SetDefault("sql_agent.max_tokens", 512)
	v.SetDefault("orchestrator.max_steps", 5)
	v.SetDefault("orchestrator.max_tokens", 2048)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.path", "analyst-sessions.db")
	v.SetDefault("session.max_turns", 20)

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

// Validate checks that the configuration required for a given run mode is
// present and within bounds. Mode is one of "ask", "sql", "web", "serve",
// or "migrate".
func (c *Config) Validate(mode string) error {
	var missing []string

	requireStore := func() {
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required")
		}
	}
	requireOracle := func() {
		if c.Oracle.Key == "" {
			missing = append(missing, "oracle.key is required")
		}
		if c.Oracle.Provider != "openrouter" && c.Oracle.Provider != "anthropic" {
			missing = append(missing, "oracle.provider must be openrouter or anthropic")
		}
	}
	requireJina := func() {
		if c.Jina.Key == "" {
			missing = append(missing, "jina.key is required")
		}
	}

	switch mode {
	case "ask", "serve":
		requireStore()
		requireOracle()
		requireJina()
	case "sql":
		requireStore()
		requireOracle()
	case "web":
		requireStore()
		requireOracle()
		requireJina()
	case "migrate":
		requireStore()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}
	if c.SQLAgent.MaxSteps < 1 {
		missing = append(missing, "sql_agent.max_steps must be >= 1")
	}
	if c.Orchestrator.MaxSteps < 1 {
		missing = append(missing, "orchestrator.max_steps must be >= 1")
	}
	if c.Web.ChunkOverlap >= c.Web.ChunkTokens {
		missing = append(missing, "web.chunk_overlap must be < web.chunk_tokens")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
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
