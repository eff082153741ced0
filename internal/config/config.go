package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Log       LogConfig
	Tracing   TracingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	TLS       TLSConfig
	History   HistoryConfig
	Session   SessionConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Enabled            bool
	Host               string
	Port               int
	Name               string
	User               string
	Password           string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// AuthConfig guards the API with a station passphrase. Passphrases are
// stored as bcrypt hashes only. Tokens issued for the station passphrase
// carry DefaultRole; the optional supervisor passphrase issues doctor
// tokens, which may read the calculation history.
type AuthConfig struct {
	Enabled                  bool
	PassphraseHash           string
	SupervisorPassphraseHash string
	DefaultRole              string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

type RateLimitConfig struct {
	// Per client IP
	RequestsPerSecond float64
	BurstSize         int
	// Limiters unused for this long are forgotten
	IdleTTL time.Duration
}

type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
	// Non-empty CAFile requires client certificates (mTLS)
	CAFile string
}

type HistoryConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
}

// SessionConfig bounds in-memory report sessions. Sessions idle for
// IdleTTL are evicted; with ArchiveDir set, a deleted or evicted
// session's report is saved there as <session-id>.txt.
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
	ArchiveDir    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "nexus")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "0.0.0")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_NAME", "nexus")
	v.SetDefault("DB_USER", "nexus")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	v.SetDefault("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TTL", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_TTL", 12*time.Hour)
	v.SetDefault("JWT_ISSUER", "nexus")

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("AUTH_PASSPHRASE_HASH", "")
	v.SetDefault("AUTH_SUPERVISOR_PASSPHRASE_HASH", "")
	v.SetDefault("AUTH_DEFAULT_ROLE", "paramedic")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT", "stdout")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "nexus")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATE", 0.1)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-ID")
	v.SetDefault("CORS_MAX_AGE", 12*time.Hour)

	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_IDLE_TTL", 10*time.Minute)

	v.SetDefault("TLS_ENABLED", false)
	v.SetDefault("TLS_CERT_FILE", "")
	v.SetDefault("TLS_KEY_FILE", "")
	v.SetDefault("TLS_CA_FILE", "")

	v.SetDefault("HISTORY_BUFFER_SIZE", 1_000)
	v.SetDefault("HISTORY_WRITE_TIMEOUT", 5*time.Second)

	v.SetDefault("SESSION_IDLE_TTL", 12*time.Hour)
	v.SetDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute)
	v.SetDefault("SESSION_ARCHIVE_DIR", "")
}

// Load reads the configuration from the environment, with an optional
// .env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// A missing .env file is not an error
	_ = v.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("APP_VERSION"),
		},
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Enabled:            v.GetBool("DB_ENABLED"),
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetInt("DB_PORT"),
			Name:               v.GetString("DB_NAME"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:    v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime:    v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
			SlowQueryThreshold: v.GetDuration("DB_SLOW_QUERY_THRESHOLD"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			AccessTokenTTL:  v.GetDuration("JWT_ACCESS_TTL"),
			RefreshTokenTTL: v.GetDuration("JWT_REFRESH_TTL"),
			Issuer:          v.GetString("JWT_ISSUER"),
		},
		Auth: AuthConfig{
			Enabled:                  v.GetBool("AUTH_ENABLED"),
			PassphraseHash:           v.GetString("AUTH_PASSPHRASE_HASH"),
			SupervisorPassphraseHash: v.GetString("AUTH_SUPERVISOR_PASSPHRASE_HASH"),
			DefaultRole:              v.GetString("AUTH_DEFAULT_ROLE"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("TRACING_ENABLED"),
			ServiceName: v.GetString("TRACING_SERVICE_NAME"),
			Endpoint:    v.GetString("OTLP_ENDPOINT"),
			SampleRate:  v.GetFloat64("TRACING_SAMPLE_RATE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
			MaxAge:         v.GetDuration("CORS_MAX_AGE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			BurstSize:         v.GetInt("RATE_LIMIT_BURST"),
			IdleTTL:           v.GetDuration("RATE_LIMIT_IDLE_TTL"),
		},
		TLS: TLSConfig{
			Enabled:  v.GetBool("TLS_ENABLED"),
			CertFile: v.GetString("TLS_CERT_FILE"),
			KeyFile:  v.GetString("TLS_KEY_FILE"),
			CAFile:   v.GetString("TLS_CA_FILE"),
		},
		History: HistoryConfig{
			BufferSize:   v.GetInt("HISTORY_BUFFER_SIZE"),
			WriteTimeout: v.GetDuration("HISTORY_WRITE_TIMEOUT"),
		},
		Session: SessionConfig{
			IdleTTL:       v.GetDuration("SESSION_IDLE_TTL"),
			SweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
			ArchiveDir:    v.GetString("SESSION_ARCHIVE_DIR"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Auth.Enabled {
		if cfg.Auth.PassphraseHash == "" {
			errs = append(errs, "AUTH_PASSPHRASE_HASH is required when AUTH_ENABLED is set")
		}
		if !domain.Role(cfg.Auth.DefaultRole).IsValid() {
			errs = append(errs, fmt.Sprintf("AUTH_DEFAULT_ROLE %q is not a known role", cfg.Auth.DefaultRole))
		}
		if cfg.JWT.Secret == "" {
			errs = append(errs, "JWT_SECRET is required when AUTH_ENABLED is set")
		} else if len(cfg.JWT.Secret) < 32 && cfg.App.Environment == "production" {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}
	}

	if cfg.Database.Enabled {
		if cfg.Database.Password == "" && cfg.App.Environment != "development" {
			errs = append(errs, "DB_PASSWORD is required in non-development environments")
		}
		if cfg.Database.SSLMode == "disable" && cfg.App.Environment == "production" {
			errs = append(errs, "DB_SSLMODE=disable is not allowed in production")
		}
	}

	if cfg.TLS.Enabled && (cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "") {
		errs = append(errs, "TLS_CERT_FILE and TLS_KEY_FILE are required when TLS_ENABLED is set")
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.BurstSize <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if cfg.RateLimit.IdleTTL <= 0 {
		errs = append(errs, "RATE_LIMIT_IDLE_TTL must be positive")
	}

	if cfg.Session.IdleTTL <= 0 || cfg.Session.SweepInterval <= 0 {
		errs = append(errs, "SESSION_IDLE_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}

	if cfg.History.BufferSize <= 0 {
		errs = append(errs, "HISTORY_BUFFER_SIZE must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			result = append(result, t)
		}
	}
	return result
}
