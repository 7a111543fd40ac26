package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	API          APIConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SALESCOPE_APP_ENV" required:"true"`
	Port         string `envconfig:"SALESCOPE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SALESCOPE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SALESCOPE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SALESCOPE_DB_DSN"`
	Driver string `envconfig:"SALESCOPE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SALESCOPE_DB_HOST"`
	LegacyPort     int    `envconfig:"SALESCOPE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SALESCOPE_DB_USER"`
	LegacyPassword string `envconfig:"SALESCOPE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SALESCOPE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SALESCOPE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SALESCOPE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SALESCOPE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SALESCOPE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SALESCOPE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// APIConfig carries the request handling limits that used to live on the
// handlers themselves.
type APIConfig struct {
	MaxRequestBytes      int64         `envconfig:"SALESCOPE_API_MAX_REQUEST_BYTES" default:"67108864"`
	MaxProductsPerImport int           `envconfig:"SALESCOPE_API_MAX_PRODUCTS_PER_IMPORT" default:"10000"`
	StreamBatchSize      int           `envconfig:"SALESCOPE_API_STREAM_BATCH_SIZE" default:"500"`
	StreamTimeout        time.Duration `envconfig:"SALESCOPE_API_STREAM_TIMEOUT" default:"0"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SALESCOPE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
