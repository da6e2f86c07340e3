package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // SHEET_TIMEZONE se valida también en imágenes sin zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	HTTP  HTTPConfig
	LINE  LINEConfig
	Sheet SheetConfig
	Bot   BotConfig
	Redis RedisConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string `validate:"required,oneof=development staging production test"`
	Name     string
	LogLevel string `validate:"omitempty,oneof=trace debug info warn error"`
}

// IsProduction indica si corre en producción.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int `validate:"min=1,max=100"`

	// SimpleProtocol desactiva sentencias preparadas (pooler en modo transacción).
	SimpleProtocol bool
	// AutoMigrate aplica las migraciones embebidas al arrancar la API.
	AutoMigrate bool
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

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LINEConfig credenciales de la plataforma de mensajería.
// Sin ChannelSecret no se verifica la firma del webhook (solo fuera de producción).
type LINEConfig struct {
	ChannelSecret string `validate:"required_if=Production true"`
	ChannelToken  string `validate:"required_if=Production true"`
	APIBaseURL    string `validate:"required,url"`
	Production    bool
}

// SheetConfig destino de las notificaciones de salida de stock.
// URL y Secret pueden quedar vacíos: se resuelven una vez desde la configuración remota.
type SheetConfig struct {
	WebhookURL string `validate:"omitempty,url"`
	Secret     string
	TimeZone   string        `validate:"required"`
	Timeout    time.Duration `validate:"gt=0"`
}

// BotConfig comportamiento del bot.
type BotConfig struct {
	SourceTag      string `validate:"required"`
	SelectionStore string `validate:"oneof=postgres redis"`
	// SelectionTTL vigencia de la selección en redis; 0 = sin vencimiento.
	SelectionTTL time.Duration
}

// RedisConfig conexión a Redis (solo si Bot.SelectionStore = redis).
type RedisConfig struct {
	URL      string
	Address  string
	Password string
	DB       int
}

var validate = validator.New()

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, LINE_CHANNEL_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:      env,
			Name:     getString(v, "APP_NAME", "inventario-bot"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventory"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),

			SimpleProtocol: getBool(v, "DB_SIMPLE_PROTOCOL", false),
			AutoMigrate:    getBool(v, "DB_AUTO_MIGRATE", false),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "PORT", getInt(v, "HTTP_PORT", 8080)),
		},
		LINE: LINEConfig{
			ChannelSecret: getString(v, "LINE_CHANNEL_SECRET", ""),
			ChannelToken:  getString(v, "LINE_CHANNEL_ACCESS_TOKEN", ""),
			APIBaseURL:    getString(v, "LINE_API_BASE_URL", "https://api.line.me"),
			Production:    env == "production",
		},
		Sheet: SheetConfig{
			WebhookURL: getString(v, "SHEET_WEBHOOK_URL", ""),
			Secret:     getString(v, "SHEET_WEBHOOK_SECRET", ""),
			TimeZone:   getString(v, "SHEET_TIMEZONE", "Asia/Taipei"),
			Timeout:    getDuration(v, "SHEET_TIMEOUT", 10*time.Second),
		},
		Bot: BotConfig{
			SourceTag:      getString(v, "BOT_SOURCE_TAG", "line_bot"),
			SelectionStore: getString(v, "SELECTION_STORE", "postgres"),
			SelectionTTL:   getDuration(v, "SELECTION_TTL", 0),
		},
		Redis: RedisConfig{
			URL:      getString(v, "REDIS_URL", ""),
			Address:  getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate aplica las reglas de los tags `validate`.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config inválida: %w", err)
	}
	if _, err := time.LoadLocation(c.Sheet.TimeZone); err != nil {
		return fmt.Errorf("config inválida: SHEET_TIMEZONE %q: %w", c.Sheet.TimeZone, err)
	}
	if c.Bot.SelectionStore == "redis" && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("config inválida: SELECTION_STORE=redis requiere REDIS_URL o REDIS_ADDR")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return def
	}
	return d
}
