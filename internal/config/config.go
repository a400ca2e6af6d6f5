package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env         string      `mapstructure:"env"` // current application environment (local, dev, production)
	HTTP        HTTP        `mapstructure:"http"`
	DB          DB          `mapstructure:"database"`
	Redis       Redis       `mapstructure:"redis"`
	Auth        Auth        `mapstructure:"auth"`
	Trivia      Trivia      `mapstructure:"trivia"`
	Quiz        Quiz        `mapstructure:"quiz"`
	Telegram    Telegram    `mapstructure:"telegram"`
	Maintenance Maintenance `mapstructure:"maintenance"`
}

// HTTP contains web server settings.
type HTTP struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	StaticDir         string        `mapstructure:"static_dir"`     // directory served under /static/
	DefaultAvatar     string        `mapstructure:"default_avatar"` // static path of the avatar placeholder
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Redis configures the quiz session store. An empty URL selects the in-memory store.
type Redis struct {
	URL string `mapstructure:"-"`
}

// Auth contains identity cookie settings.
type Auth struct {
	JWTSecret    string        `mapstructure:"-"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// Trivia configures the upstream question API and the fetcher around it.
type Trivia struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`      // per attempt
	Retries          int           `mapstructure:"retries"`      // attempts per topic
	BackoffStep      time.Duration `mapstructure:"backoff_step"` // attempt i waits i*step
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	QuestionsPerQuiz int           `mapstructure:"questions_per_quiz"`
}

// Quiz contains quiz session and scoring settings.
type Quiz struct {
	DuplicateWindow  time.Duration `mapstructure:"duplicate_window"` // identical results inside the window are not stored twice
	SessionTTL       time.Duration `mapstructure:"session_ttl"`      // idle lifetime of a stored quiz session
	DefaultTimeLimit int           `mapstructure:"default_time_limit"`
	Timezone         string        `mapstructure:"timezone"` // zone used for streak calendar days
}

// Telegram configures the optional chat front-end. An empty token disables it.
type Telegram struct {
	Token string `mapstructure:"-"`
	Debug bool   `mapstructure:"debug"`
}

// Maintenance configures periodic housekeeping.
type Maintenance struct {
	SweepSchedule string `mapstructure:"sweep_schedule"` // cron spec
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Redis.URL = v.GetString("redis_url")
	cfg.Telegram.Token = v.GetString("telegram_api_token")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_header_timeout", "5s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.static_dir", "web/static")
	v.SetDefault("http.default_avatar", "images/default-avatar.svg")

	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")

	v.SetDefault("auth.token_ttl", "168h")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("trivia.base_url", "https://opentdb.com/api.php")
	v.SetDefault("trivia.timeout", "5s")
	v.SetDefault("trivia.retries", 3)
	v.SetDefault("trivia.backoff_step", "400ms")
	v.SetDefault("trivia.cache_ttl", "120s")
	v.SetDefault("trivia.questions_per_quiz", 5)

	v.SetDefault("quiz.duplicate_window", "5s")
	v.SetDefault("quiz.session_ttl", "2h")
	v.SetDefault("quiz.default_time_limit", 0)
	v.SetDefault("quiz.timezone", "UTC")

	v.SetDefault("telegram.debug", false)

	v.SetDefault("maintenance.sweep_schedule", "*/5 * * * *")
}
