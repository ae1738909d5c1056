package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения: MARKETPLACE_API_URL и т.д.
const EnvPrefix = "MARKETPLACE"

// Значения по умолчанию
const (
	DefaultAPIURL    = "http://localhost:8000"
	DefaultDBPath    = "digimarket.db"
	DefaultCachePath = "digimarket-cache.db"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"
)

// Config - настройки клиента
type Config struct {
	APIURL    string        `mapstructure:"api_url"`
	DBPath    string        `mapstructure:"db"`
	CachePath string        `mapstructure:"cache"`
	LogLevel  string        `mapstructure:"log_level"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"api-url":   "api_url",
	"db":        "db",
	"cache":     "cache",
	"timeout":   "timeout",
	"log-level": "log_level",
}

// New создает viper с defaults и чтением окружения.
// Порядок приоритета: flags > env > config file > defaults.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("db", DefaultDBPath)
	v.SetDefault("cache", DefaultCachePath)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// RegisterFlags добавляет флаги конфигурации в набор
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-url", DefaultAPIURL, "marketplace API base URL (env MARKETPLACE_API_URL)")
	fs.String("db", DefaultDBPath, "path to the local session database")
	fs.String("cache", DefaultCachePath, "path to the local product cache")
	fs.Duration("timeout", DefaultTimeout, "HTTP request timeout")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn, error")
}

// BindFlags связывает флаги с ключами конфигурации.
// Флаг переопределяет остальные источники, только если задан явно.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load читает необязательный файл конфигурации и возвращает проверенный Config
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return &cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http(s) URL", c.APIURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel возвращает уровень логирования
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel разбирает имя уровня slog
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
