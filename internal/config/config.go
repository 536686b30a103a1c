// Package config loads settings for the mines front end and the records
// store. Values come from defaults, an optional config file and MINES_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-light/internal/mines"
)

type PostgresConfig struct {
	Host           string        `mapstructure:"host" json:"host"`
	Port           uint          `mapstructure:"port" json:"port"`
	User           string        `mapstructure:"user" json:"user"`
	Password       string        `mapstructure:"password" json:"password"`
	DbName         string        `mapstructure:"db_name" json:"db_name"`
	SSLMode        string        `mapstructure:"sslmode" json:"sslmode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
}

func (p PostgresConfig) DbUrl() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DbName, p.SSLMode,
	)
}

func (p PostgresConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		url.QueryEscape(p.Password),
		p.Host,
		p.Port,
		p.DbName,
		p.SSLMode,
	)
}

// ConnString prefers DATABASE_URL over the configured fields.
func (p PostgresConfig) ConnString() string {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL
	}
	return p.URL()
}

type LogConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	File       string `mapstructure:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
}

type RecordsConfig struct {
	// Driver is one of "file", "sqlite" or "postgres".
	Driver   string         `mapstructure:"driver" json:"driver"`
	Path     string         `mapstructure:"path" json:"path"`
	Migrate  bool           `mapstructure:"migrate" json:"migrate"`
	Postgres PostgresConfig `mapstructure:"postgres" json:"postgres"`
}

type Config struct {
	Mode    string           `mapstructure:"mode" json:"mode"`
	Game    mines.GameParams `mapstructure:"game" json:"game"`
	Log     LogConfig        `mapstructure:"log" json:"log"`
	Records RecordsConfig    `mapstructure:"records" json:"records"`
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":            c.Mode,
		"game":            c.Game.String(),
		"log_level":       c.Log.Level,
		"log_file":        c.Log.File,
		"records_driver":  c.Records.Driver,
		"records_path":    c.Records.Path,
		"records_migrate": c.Records.Migrate,
		"pg_host":         c.Records.Postgres.Host,
		"pg_port":         c.Records.Postgres.Port,
		"pg_user":         c.Records.Postgres.User,
		"pg_db_name":      c.Records.Postgres.DbName,
		"pg_conn_timeout": c.Records.Postgres.ConnectTimeout.String(),
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// Validate reports every violation at once.
func (c Config) Validate() error {
	var errs []error

	if c.Mode != "development" && c.Mode != "production" {
		errs = append(errs, fmt.Errorf("mode must be one of [development, production], got %q", c.Mode))
	}
	if err := c.Game.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log rotation limits must not be negative"))
	}

	switch c.Records.Driver {
	case "file", "sqlite":
		if c.Records.Path == "" {
			errs = append(errs, fmt.Errorf("records.path must not be empty for driver %q", c.Records.Driver))
		}
	case "postgres":
		if _, ok := os.LookupEnv("DATABASE_URL"); !ok {
			errs = append(errs, validatePostgres(c.Records.Postgres)...)
		}
	default:
		errs = append(errs, fmt.Errorf("records.driver must be one of [file, sqlite, postgres], got %q", c.Records.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func validatePostgres(p PostgresConfig) []error {
	var errs []error
	if p.Host == "" {
		errs = append(errs, errors.New("records.postgres.host must not be empty"))
	}
	if p.Port < 1 || p.Port > 65535 {
		errs = append(errs, fmt.Errorf("records.postgres.port must be 1-65535, got %d", p.Port))
	}
	if p.User == "" {
		errs = append(errs, errors.New("records.postgres.user must not be empty"))
	}
	if p.DbName == "" {
		errs = append(errs, errors.New("records.postgres.db_name must not be empty"))
	}
	if p.ConnectTimeout < 0 {
		errs = append(errs, errors.New("records.postgres.connect_timeout must not be negative"))
	}
	return errs
}

// Load reads the config file at path, if any, applies MINES_* environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("MINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return LoadFromViper(v)
}

func LoadFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")

	v.SetDefault("game.rows", mines.DefaultGameParams.Rows)
	v.SetDefault("game.cols", mines.DefaultGameParams.Cols)
	v.SetDefault("game.density", mines.DefaultGameParams.Density)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("records.driver", "file")
	v.SetDefault("records.path", "highscore.json")
	v.SetDefault("records.migrate", true)
	v.SetDefault("records.postgres.host", "localhost")
	v.SetDefault("records.postgres.port", 5432)
	v.SetDefault("records.postgres.user", "mines")
	v.SetDefault("records.postgres.password", "")
	v.SetDefault("records.postgres.db_name", "mines")
	v.SetDefault("records.postgres.sslmode", "disable")
	v.SetDefault("records.postgres.connect_timeout", "5s")
}
