package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	stateDirName = ".studyplan"
	envPrefix    = "studyplan"
)

type Config struct {
	DataDir        string
	StateDir       string
	DBPath         string
	StoreBackend   string
	StoreKey       string
	ResetOnCorrupt bool
	ShareBaseURL   string
	ServerAddress  string
	LogLevel       string
	LogJSON        bool
	Locale         string
	ReminderLead   time.Duration
}

// New resolves configuration from defaults, <data>/.env, the optional YAML
// config file and STUDYPLAN_* environment variables, in increasing priority.
func New(dataDir, configFile string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	stateDir := filepath.Join(dataDir, stateDirName)

	if err := loadDotEnv(filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.key", "studySessions")
	v.SetDefault("store.reset_on_corrupt", false)
	v.SetDefault("share.base_url", "http://localhost:8080")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("locale", "en")
	v.SetDefault("reminder.lead", 5*time.Minute)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		candidate := filepath.Join(stateDir, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		DataDir:        dataDir,
		StateDir:       stateDir,
		DBPath:         filepath.Join(stateDir, "studyplan.db"),
		StoreBackend:   strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
		StoreKey:       strings.TrimSpace(v.GetString("store.key")),
		ResetOnCorrupt: v.GetBool("store.reset_on_corrupt"),
		ShareBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("share.base_url")), "/"),
		ServerAddress:  v.GetString("server.address"),
		LogLevel:       v.GetString("log.level"),
		LogJSON:        v.GetBool("log.json"),
		Locale:         strings.ToLower(strings.TrimSpace(v.GetString("locale"))),
		ReminderLead:   v.GetDuration("reminder.lead"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}
	if c.StoreKey == "" {
		return fmt.Errorf("store key is required")
	}
	if c.ShareBaseURL == "" {
		return fmt.Errorf("share base url is required")
	}
	switch c.Locale {
	case "en", "ar":
	default:
		return fmt.Errorf("unsupported locale %q", c.Locale)
	}
	if c.ReminderLead <= 0 {
		return fmt.Errorf("reminder lead must be positive")
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
