package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Terminal     TerminalConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Security     SecurityConfig
	Catalog      CatalogConfig
	Ledger       LedgerConfig
	Scanner      ScannerConfig
	Display      DisplayConfig
	Checkout     CheckoutConfig
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
	Env          string `envconfig:"TILLPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// TerminalConfig identifies this register and the text printed on receipts.
type TerminalConfig struct {
	ID          string `envconfig:"TILLPOINT_TERMINAL_ID" default:"till-01"`
	StoreName   string `envconfig:"TILLPOINT_STORE_NAME" default:"TillPoint Store"`
	ReceiptNote string `envconfig:"TILLPOINT_RECEIPT_NOTE" default:"Thank you for shopping with us!"`
}

type DBConfig struct {
	DSN    string `envconfig:"TILLPOINT_DB_DSN"`
	Driver string `envconfig:"TILLPOINT_DB_DRIVER" default:"sqlite"`

	// Path is used when the driver is sqlite, the default for a terminal.
	Path string `envconfig:"TILLPOINT_DB_PATH" default:"tillpoint.db"`

	MaxOpenConns    int           `envconfig:"TILLPOINT_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"TILLPOINT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite") || strings.EqualFold(db.Driver, "sqlite3")
}

type RedisConfig struct {
	URL          string        `envconfig:"TILLPOINT_REDIS_URL"`
	Address      string        `envconfig:"TILLPOINT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"TILLPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TILLPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TILLPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILLPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILLPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"TILLPOINT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"TILLPOINT_JWT_ISSUER" required:"true"`
}

type SecurityConfig struct {
	// UnlockPINHash is the Argon2id hash of the operator unlock PIN,
	// provisioned by the back office.
	UnlockPINHash    string `envconfig:"TILLPOINT_UNLOCK_PIN_HASH"`
	ArgonMemoryKB    int    `envconfig:"TILLPOINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int    `envconfig:"TILLPOINT_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"TILLPOINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int    `envconfig:"TILLPOINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int    `envconfig:"TILLPOINT_ARGON_KEY_LEN" default:"32"`
}

type CatalogConfig struct {
	BaseURL        string        `envconfig:"TILLPOINT_CATALOG_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"TILLPOINT_CATALOG_TIMEOUT" default:"5s"`
}

type LedgerConfig struct {
	BaseURL        string        `envconfig:"TILLPOINT_LEDGER_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"TILLPOINT_LEDGER_TIMEOUT" default:"10s"`
}

type ScannerConfig struct {
	// BurstGap separates scanner bursts from human typing; hardware readers
	// emit characters at sub-millisecond intervals.
	BurstGap time.Duration `envconfig:"TILLPOINT_SCANNER_BURST_GAP" default:"50ms"`
}

type DisplayConfig struct {
	Channel     string `envconfig:"TILLPOINT_DISPLAY_CHANNEL" default:"pos.cart"`
	SyncChannel string `envconfig:"TILLPOINT_DISPLAY_SYNC_CHANNEL" default:"pos.cart.sync"`
}

type CheckoutConfig struct {
	// PrintDelay gives the receipt view time to render the committed sale
	// before the print action fires.
	PrintDelay time.Duration `envconfig:"TILLPOINT_CHECKOUT_PRINT_DELAY" default:"500ms"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TILLPOINT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		if strings.TrimSpace(db.Path) == "" {
			return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
		}
		db.DSN = db.Path
		return nil
	}
	return fmt.Errorf("%s is required for driver %q", EnvDBDSN, db.Driver)
}
