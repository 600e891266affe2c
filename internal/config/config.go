package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Tracing      TracingConfig      `mapstructure:"tracing"`
	CORS         CORSConfig         `mapstructure:"cors"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Scoring      ScoringConfig      `mapstructure:"scoring"`
	Engagement   EngagementConfig   `mapstructure:"engagement"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Presentation PresentationConfig `mapstructure:"presentation"`

	// Runtime flags, set from command line rather than the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// ScoringConfig tunes the recommendation scorer.
type ScoringConfig struct {
	// AnalysisDelayMs is the deliberate analysis latency; the front end
	// relies on it to render its "analyzing" state.
	AnalysisDelayMs    int     `mapstructure:"analysis_delay_ms"`
	BaseConfidence     float64 `mapstructure:"base_confidence"`
	MatchBoost         float64 `mapstructure:"match_boost"`
	SymptomBoost       float64 `mapstructure:"symptom_boost"`
	LifestyleBoost     float64 `mapstructure:"lifestyle_boost"`
	NeuroBoostMax      float64 `mapstructure:"neuro_boost_max"`
	FallbackConfidence float64 `mapstructure:"fallback_confidence"`
	MaxResults         int     `mapstructure:"max_results"`
}

// EngagementConfig holds the classifier thresholds (seconds / percentages).
type EngagementConfig struct {
	EngagedReadPercent   float64 `mapstructure:"engaged_read_percent"`
	EngagedActiveSeconds float64 `mapstructure:"engaged_active_seconds"`
	PrimeReadPercent     float64 `mapstructure:"prime_read_percent"`
	PrimeScrollDepth     float64 `mapstructure:"prime_scroll_depth"`
	PrimeActiveSeconds   float64 `mapstructure:"prime_active_seconds"`
	ExpandReadPercent    float64 `mapstructure:"expand_read_percent"`
	WordsPerMinute       float64 `mapstructure:"words_per_minute"`
}

// TelemetryConfig tunes the behavioral collector and its composite score.
type TelemetryConfig struct {
	TickSeconds       int     `mapstructure:"tick_seconds"`
	SessionTTLMinutes int     `mapstructure:"session_ttl_minutes"`
	ScrollWeight      float64 `mapstructure:"scroll_weight"`
	TimeWeight        float64 `mapstructure:"time_weight"`
	TimeCapSeconds    float64 `mapstructure:"time_cap_seconds"`
	InteractionWeight float64 `mapstructure:"interaction_weight"`
	HighlightWeight   float64 `mapstructure:"highlight_weight"`
	MinSelectionChars int     `mapstructure:"min_selection_chars"`
}

// PresentationConfig holds the wall-clock fallback delays (seconds) for
// revealing a conversion prompt when engagement alone never triggers it.
type PresentationConfig struct {
	ArticleDelaySeconds int `mapstructure:"article_delay_seconds"`
	BannerDelaySeconds  int `mapstructure:"banner_delay_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("NUTRI_EDU")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	setEngineDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if err := validateEngine(&cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// setEngineDefaults gives every engine tunable a runnable default so the
// config file only needs to override what is being tuned.
func setEngineDefaults() {
	viper.SetDefault("scoring.analysis_delay_ms", 1500)
	viper.SetDefault("scoring.base_confidence", 0.5)
	viper.SetDefault("scoring.match_boost", 0.12)
	viper.SetDefault("scoring.symptom_boost", 0.08)
	viper.SetDefault("scoring.lifestyle_boost", 0.06)
	viper.SetDefault("scoring.neuro_boost_max", 0.1)
	viper.SetDefault("scoring.fallback_confidence", 0.35)
	viper.SetDefault("scoring.max_results", 5)

	viper.SetDefault("engagement.engaged_read_percent", 30)
	viper.SetDefault("engagement.engaged_active_seconds", 60)
	viper.SetDefault("engagement.prime_read_percent", 60)
	viper.SetDefault("engagement.prime_scroll_depth", 70)
	viper.SetDefault("engagement.prime_active_seconds", 90)
	viper.SetDefault("engagement.expand_read_percent", 70)
	viper.SetDefault("engagement.words_per_minute", 250)

	viper.SetDefault("telemetry.tick_seconds", 1)
	viper.SetDefault("telemetry.session_ttl_minutes", 30)
	viper.SetDefault("telemetry.scroll_weight", 3)
	viper.SetDefault("telemetry.time_weight", 3)
	viper.SetDefault("telemetry.time_cap_seconds", 300)
	viper.SetDefault("telemetry.interaction_weight", 2)
	viper.SetDefault("telemetry.highlight_weight", 2)
	viper.SetDefault("telemetry.min_selection_chars", 10)

	viper.SetDefault("presentation.article_delay_seconds", 30)
	viper.SetDefault("presentation.banner_delay_seconds", 10)
}

func validateEngine(cfg *Config) error {
	if cfg.Scoring.FallbackConfidence <= 0 || cfg.Scoring.FallbackConfidence > 1 {
		return fmt.Errorf("scoring.fallback_confidence must be in (0,1], got %f", cfg.Scoring.FallbackConfidence)
	}
	if cfg.Scoring.BaseConfidence < 0 || cfg.Scoring.BaseConfidence > 1 {
		return fmt.Errorf("scoring.base_confidence must be in [0,1], got %f", cfg.Scoring.BaseConfidence)
	}
	if cfg.Telemetry.TickSeconds <= 0 {
		return fmt.Errorf("telemetry.tick_seconds must be positive, got %d", cfg.Telemetry.TickSeconds)
	}
	if cfg.Engagement.WordsPerMinute <= 0 {
		return fmt.Errorf("engagement.words_per_minute must be positive, got %f", cfg.Engagement.WordsPerMinute)
	}
	return nil
}
