// Package config assembles the pipeline configuration from defaults, an optional .env file, an
// optional YAML file and HEALTHFORECAST_ prefixed environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v2"

	healthforecast "github.com/aouyang1/go-healthforecast"
	"github.com/aouyang1/go-healthforecast/preprocess"
	"github.com/aouyang1/go-healthforecast/storage"
)

// EnvPrefix prefixes every environment override, e.g. HEALTHFORECAST_ENGINE_HORIZON
const EnvPrefix = "HEALTHFORECAST"

// Storage kinds
const (
	StorageFile = "file"
	StorageBolt = "bolt"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidStorageKind = errors.New("invalid storage kind")
	ErrNoStoragePath      = errors.New("no storage path")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrNoListenAddr       = errors.New("no listen address")
)

// Config is the complete pipeline configuration
type Config struct {
	Log        LogConfig               `yaml:"log"`
	Storage    StorageConfig           `yaml:"storage"`
	Server     ServerConfig            `yaml:"server"`
	Output     OutputConfig            `yaml:"output"`
	Engine     *healthforecast.Options `yaml:"engine"`
	Preprocess *preprocess.Options     `yaml:"preprocess"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig selects the object store backing every stage
type StorageConfig struct {
	Kind string `yaml:"kind"`

	// Path is the root directory for file storage or the database file for bolt storage
	Path string `yaml:"path"`
}

// ServerConfig configures serve mode
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// Schedule is a standard five field cron spec for the daily forecast run
	Schedule        string        `yaml:"schedule"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// OutputConfig toggles optional artifacts
type OutputConfig struct {
	XLSX bool `yaml:"xlsx"`
}

// NewDefault returns the default configuration
func NewDefault() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: FormatText,
		},
		Storage: StorageConfig{
			Kind: StorageFile,
			Path: "data",
		},
		Server: ServerConfig{
			Addr:            ":9090",
			Schedule:        "0 6 * * *",
			ShutdownTimeout: 15 * time.Second,
		},
		Engine:     healthforecast.NewDefaultOptions(),
		Preprocess: preprocess.NewDefaultOptions(),
	}
}

// Load builds the configuration. envFiles are loaded into the process environment without
// overriding variables already set; with none given a .env in the working directory is used when
// present. An empty configPath skips the YAML layer.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if err := loadEnv(envFiles); err != nil {
		return nil, err
	}

	cfg := NewDefault()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config file %s, %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config file %s, %w", configPath, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("unable to load config from environment, %w", err)
	}
	return cfg.Validate()
}

func loadEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("unable to load env files %v, %w", files, err)
	}
	return nil
}

// Validate checks every section and fills nil option blocks with defaults
func (c *Config) Validate() (*Config, error) {
	if c == nil {
		return NewDefault(), nil
	}
	if _, err := c.Log.level(); err != nil {
		return nil, err
	}
	switch c.Log.Format {
	case FormatText, FormatJSON:
	default:
		return nil, fmt.Errorf("got log format %q, %w", c.Log.Format, ErrInvalidLogFormat)
	}

	switch c.Storage.Kind {
	case StorageFile, StorageBolt:
	default:
		return nil, fmt.Errorf("got storage kind %q, %w", c.Storage.Kind, ErrInvalidStorageKind)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return nil, ErrNoStoragePath
	}

	if c.Server.Addr == "" {
		return nil, ErrNoListenAddr
	}
	if _, err := cron.ParseStandard(c.Server.Schedule); err != nil {
		return nil, fmt.Errorf("got schedule %q, %w, %w", c.Server.Schedule, ErrInvalidSchedule, err)
	}

	var err error
	if c.Engine, err = c.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine options, %w", err)
	}
	if c.Preprocess, err = c.Preprocess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preprocess options, %w", err)
	}
	return c, nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return lvl, fmt.Errorf("got log level %q, %w", l.Level, ErrInvalidLogLevel)
	}
	return lvl, nil
}

// Logger returns a logger writing to w in the configured format and level
func (l LogConfig) Logger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	hopt := &slog.HandlerOptions{Level: lvl}
	if l.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopt))
	}
	return slog.New(slog.NewTextHandler(w, hopt))
}

// Open returns the configured store and a function releasing it
func (s StorageConfig) Open() (storage.Store, func() error, error) {
	switch s.Kind {
	case StorageFile:
		fs, err := storage.NewFileStore(s.Path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case StorageBolt:
		bs, err := storage.NewBoltStore(s.Path)
		if err != nil {
			return nil, nil, err
		}
		return bs, bs.Close, nil
	default:
		return nil, nil, fmt.Errorf("got storage kind %q, %w", s.Kind, ErrInvalidStorageKind)
	}
}
