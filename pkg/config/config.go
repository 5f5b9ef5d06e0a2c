package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Redis   RedisConfig
	Ledger  LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host         string
	Port         int
	SwaggerFile  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig backend de persistencia del ledger.
type StorageConfig struct {
	Driver         string // postgres | memory
	MigrateOnStart bool
}

// RedisConfig publicación de eventos. Addr vacío desactiva Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// LedgerConfig valores por defecto de la política; cada empresa puede sobrescribirlos en settings.
type LedgerConfig struct {
	MaxItems             int
	MaxLineQuantity      int64
	DefaultIVA           decimal.Decimal
	CreditDays           int
	ReturnsEnabled       bool
	ReturnWindowDays     int
	StrictTransferSource bool
	SideEffectTimeout    time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, LEDGER_MAX_ITEMS, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	iva, err := decimal.NewFromString(v.GetString("LEDGER_DEFAULT_IVA"))
	if err != nil {
		return nil, fmt.Errorf("LEDGER_DEFAULT_IVA: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:         v.GetString("HTTP_HOST"),
			Port:         v.GetInt("HTTP_PORT"),
			SwaggerFile:  v.GetString("HTTP_SWAGGER_FILE"),
			ReadTimeout:  v.GetDuration("HTTP_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("HTTP_WRITE_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
			MigrateOnStart: v.GetBool("MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		Ledger: LedgerConfig{
			MaxItems:             v.GetInt("LEDGER_MAX_ITEMS"),
			MaxLineQuantity:      v.GetInt64("LEDGER_MAX_LINE_QTY"),
			DefaultIVA:           iva,
			CreditDays:           v.GetInt("LEDGER_CREDIT_DAYS"),
			ReturnsEnabled:       v.GetBool("LEDGER_RETURNS_ENABLED"),
			ReturnWindowDays:     v.GetInt("LEDGER_RETURN_WINDOW_DAYS"),
			StrictTransferSource: v.GetBool("LEDGER_STRICT_TRANSFER_SOURCE"),
			SideEffectTimeout:    v.GetDuration("LEDGER_SIDE_EFFECT_TIMEOUT"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "ventas-api")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "ventas")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)

	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "ventas-api")

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("HTTP_SWAGGER_FILE", "./docs/swagger.json")
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "15s")

	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATE_ON_START", false)

	v.SetDefault("REDIS_CHANNEL", "ventas:ledger")

	v.SetDefault("LEDGER_MAX_ITEMS", 200)
	v.SetDefault("LEDGER_MAX_LINE_QTY", 100000)
	v.SetDefault("LEDGER_DEFAULT_IVA", "16")
	v.SetDefault("LEDGER_CREDIT_DAYS", 21)
	v.SetDefault("LEDGER_RETURNS_ENABLED", true)
	v.SetDefault("LEDGER_RETURN_WINDOW_DAYS", 0)
	v.SetDefault("LEDGER_STRICT_TRANSFER_SOURCE", false)
	v.SetDefault("LEDGER_SIDE_EFFECT_TIMEOUT", "5s")
}

// Validate rechaza combinaciones que impedirían arrancar.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER inválido: %q", c.Storage.Driver)
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio en producción")
	}
	if c.Ledger.MaxItems <= 0 || c.Ledger.MaxLineQuantity <= 0 {
		return fmt.Errorf("LEDGER_MAX_ITEMS y LEDGER_MAX_LINE_QTY deben ser positivos")
	}
	if c.Ledger.DefaultIVA.IsNegative() || c.Ledger.DefaultIVA.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("LEDGER_DEFAULT_IVA fuera de rango: %s", c.Ledger.DefaultIVA)
	}
	return nil
}
