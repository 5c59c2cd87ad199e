package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	Session    SessionConfig
	Auth       AuthConfig
	LoginGuard LoginGuardConfig
	Directory  DirectoryConfig
	Redis      RedisConfig
	Scheduler  SchedulerConfig
	Rental     RentalConfig
}

type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-Token"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Content-Disposition,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type SessionConfig struct {
	Secret     string        `envconfig:"SESSION_SIGNING_SECRET" required:"true"`
	TTL        time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	CookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"session_token"`
	Secure     bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	SameSite   string        `envconfig:"SESSION_COOKIE_SAMESITE" default:"Lax"`
	Domain     string        `envconfig:"SESSION_COOKIE_DOMAIN" default:""`
}

type AuthConfig struct {
	AdminUsername   string `envconfig:"LOCAL_ADMIN_USERNAME" default:"admin"`
	AdminPassword   string `envconfig:"LOCAL_ADMIN_PASSWORD" default:""`
	AdminEmployeeID int64  `envconfig:"LOCAL_ADMIN_EMPLOYEE_ID" default:"999999"`
	DefaultPIN      string `envconfig:"AUTH_DEFAULT_PIN" default:"1234"`
}

type LoginGuardConfig struct {
	Window        time.Duration `envconfig:"LOGIN_GUARD_WINDOW" default:"300s"`
	MaxPerIP      int           `envconfig:"LOGIN_GUARD_MAX_PER_IP" default:"50"`
	MaxPerAccount int           `envconfig:"LOGIN_GUARD_MAX_PER_ACCOUNT" default:"8"`
	Lockout       time.Duration `envconfig:"LOGIN_GUARD_LOCKOUT" default:"900s"`
}

type DirectoryConfig struct {
	BaseURL    string        `envconfig:"DIRECTORY_BASE_URL" default:""`
	AuthHeader string        `envconfig:"DIRECTORY_AUTH_HEADER" default:"Authorization"`
	AuthScheme string        `envconfig:"DIRECTORY_AUTH_SCHEME" default:"Bearer"`
	Token      string        `envconfig:"DIRECTORY_TOKEN" default:""`
	Timeout    time.Duration `envconfig:"DIRECTORY_TIMEOUT" default:"20s"`
	CacheTTL   time.Duration `envconfig:"DIRECTORY_CACHE_TTL" default:"5m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
}

type SchedulerConfig struct {
	Enabled          bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	NotificationSpec string `envconfig:"SCHEDULER_NOTIFICATION_SPEC" default:"@every 15m"`
	OverdueSpec      string `envconfig:"SCHEDULER_OVERDUE_SPEC" default:"@every 1h"`
}

type RentalConfig struct {
	ReservationPrefix string `envconfig:"RENTAL_RESERVATION_PREFIX" default:"RNT-"`
	DueSoonDays       int    `envconfig:"RENTAL_DUE_SOON_DAYS" default:"7"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if len(cfg.Session.Secret) < 32 {
		return Config{}, fmt.Errorf("SESSION_SIGNING_SECRET must be at least 32 characters")
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Session: SessionConfig{
			Secret:     "test-session-secret-with-at-least-32-chars",
			TTL:        12 * time.Hour,
			CookieName: "session_token",
			SameSite:   "Lax",
		},
		Auth: AuthConfig{
			AdminUsername:   "admin",
			AdminPassword:   "admin-test-pin",
			AdminEmployeeID: 999999,
			DefaultPIN:      "1234",
		},
		LoginGuard: LoginGuardConfig{
			Window:        300 * time.Second,
			MaxPerIP:      50,
			MaxPerAccount: 8,
			Lockout:       900 * time.Second,
		},
		Directory: DirectoryConfig{
			AuthHeader: "Authorization",
			AuthScheme: "Bearer",
			Timeout:    2 * time.Second,
			CacheTTL:   5 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			Enabled:          false,
			NotificationSpec: "@every 15m",
			OverdueSpec:      "@every 1h",
		},
		Rental: RentalConfig{
			ReservationPrefix: "RNT-",
			DueSoonDays:       7,
		},
	}
}
