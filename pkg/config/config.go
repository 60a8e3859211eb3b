package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	PubSub        PubSubConfig
	Migrate       MigrateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRANCHISE_APP_ENV" required:"true"`
	Port         string `envconfig:"FRANCHISE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FRANCHISE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRANCHISE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FRANCHISE_DB_DSN"`

	Host     string `envconfig:"FRANCHISE_DB_HOST"`
	Port     int    `envconfig:"FRANCHISE_DB_PORT" default:"5432"`
	User     string `envconfig:"FRANCHISE_DB_USER"`
	Password string `envconfig:"FRANCHISE_DB_PASSWORD"`
	Name     string `envconfig:"FRANCHISE_DB_NAME"`
	SSLMode  string `envconfig:"FRANCHISE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRANCHISE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRANCHISE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRANCHISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRANCHISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for name, value := range map[string]string{
		"FRANCHISE_DB_HOST": db.Host,
		"FRANCHISE_DB_USER": db.User,
		"FRANCHISE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set FRANCHISE_DB_DSN or %s", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	db.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FRANCHISE_REDIS_URL" required:"true"`
	Password     string        `envconfig:"FRANCHISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRANCHISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRANCHISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRANCHISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRANCHISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRANCHISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRANCHISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig holds the out-of-band shared secret gating privileged
// operations (top-up approval, bank ingestion, tenant management).
type AdminConfig struct {
	Token string `envconfig:"FRANCHISE_ADMIN_TOKEN" required:"true"`
}

type AuthRateLimitConfig struct {
	JoinWindow  time.Duration `envconfig:"FRANCHISE_AUTH_RATE_LIMIT_JOIN_WINDOW" default:"5m"`
	JoinIPLimit int           `envconfig:"FRANCHISE_AUTH_RATE_LIMIT_JOIN_IP_LIMIT" default:"10"`
}

// PubSubConfig names the subscription the bank-worker drains for incoming
// bank transfer events.
type PubSubConfig struct {
	ProjectID            string `envconfig:"FRANCHISE_PUBSUB_PROJECT_ID"`
	BankFeedSubscription string `envconfig:"FRANCHISE_PUBSUB_BANK_FEED_SUBSCRIPTION"`
}

type MigrateConfig struct {
	AutoRun bool   `envconfig:"FRANCHISE_MIGRATE_AUTO_RUN" default:"false"`
	Dir     string `envconfig:"FRANCHISE_MIGRATE_DIR" default:"pkg/migrate/migrations"`
}
