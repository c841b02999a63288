package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Storage       StorageConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Session       SessionConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Seed          SeedConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesRelational() {
		if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"AGROFIX_APP_ENV" default:"dev"`
	Port            string        `envconfig:"AGROFIX_APP_PORT" default:"5000"`
	LogLevel        string        `envconfig:"AGROFIX_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"AGROFIX_LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"AGROFIX_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the persistence implementation backing the API.
type StorageConfig struct {
	Driver string `envconfig:"AGROFIX_STORAGE_DRIVER" default:"memory"`
}

func (s StorageConfig) UsesRelational() bool {
	return s.Driver == StorageDriverPostgres || s.Driver == StorageDriverSQLite
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory, StorageDriverPostgres, StorageDriverSQLite:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s (got %q)",
			EnvStorageDriver, StorageDriverMemory, StorageDriverPostgres, StorageDriverSQLite, s.Driver)
	}
}

type DBConfig struct {
	DSN string `envconfig:"AGROFIX_DB_DSN"`

	Host     string `envconfig:"AGROFIX_DB_HOST"`
	Port     int    `envconfig:"AGROFIX_DB_PORT" default:"5432"`
	User     string `envconfig:"AGROFIX_DB_USER"`
	Password string `envconfig:"AGROFIX_DB_PASSWORD"`
	Name     string `envconfig:"AGROFIX_DB_NAME"`
	SSLMode  string `envconfig:"AGROFIX_DB_SSLMODE" default:"disable"`

	// SQLitePath is used when the storage driver is sqlite and no DSN is set.
	SQLitePath string `envconfig:"AGROFIX_DB_SQLITE_PATH" default:"agrofix.db"`

	MaxOpenConns    int           `envconfig:"AGROFIX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGROFIX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGROFIX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGROFIX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address keeps sessions, token
// revocation and idempotency in process.
type RedisConfig struct {
	URL          string        `envconfig:"AGROFIX_REDIS_URL"`
	Address      string        `envconfig:"AGROFIX_REDIS_ADDR"`
	Password     string        `envconfig:"AGROFIX_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGROFIX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGROFIX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGROFIX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGROFIX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGROFIX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGROFIX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret         string `envconfig:"AGROFIX_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"AGROFIX_JWT_ISSUER" default:"agrofix"`
	ExpirationDays int    `envconfig:"AGROFIX_JWT_EXPIRATION_DAYS" default:"7"`
}

// Expiration returns the bearer token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(j.ExpirationDays) * 24 * time.Hour
}

type SessionConfig struct {
	CookieName string        `envconfig:"AGROFIX_SESSION_COOKIE_NAME" default:"agrofix.sid"`
	TTL        time.Duration `envconfig:"AGROFIX_SESSION_TTL" default:"24h"`
	Secure     bool          `envconfig:"AGROFIX_SESSION_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGROFIX_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGROFIX_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGROFIX_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGROFIX_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGROFIX_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"AGROFIX_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"AGROFIX_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"AGROFIX_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"AGROFIX_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"AGROFIX_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"AGROFIX_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AGROFIX_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:5000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AGROFIX_AUTO_MIGRATE" default:"false"`
}

type SeedConfig struct {
	SampleData    bool   `envconfig:"AGROFIX_SEED_SAMPLE_DATA" default:"false"`
	AdminUsername string `envconfig:"AGROFIX_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"AGROFIX_ADMIN_PASSWORD"`
}

func (db *DBConfig) ensureDSN(driver string) error {
	if db.DSN != "" {
		return nil
	}

	if driver == StorageDriverSQLite {
		if db.SQLitePath == "" {
			return fmt.Errorf("%s or %s is required for sqlite", EnvDBDSN, EnvDBSQLitePath)
		}
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
