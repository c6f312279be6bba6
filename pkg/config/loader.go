package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ProjectConfigFile is the name of the project level config file.
	ProjectConfigFile = "aspectgen.yaml"
	// UserConfigDir is the directory of the user level config, relative to
	// the home directory.
	UserConfigDir  = ".config/aspectgen"
	UserConfigFile = "config.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ASPECTGEN_"
)

// Environment variables read by Load.
const (
	EnvModelsDir = EnvPrefix + "MODELS_DIR"
	EnvModelsURL = EnvPrefix + "MODELS_URL"
	EnvOutputDir = EnvPrefix + "OUTPUT_DIR"
	EnvLocale    = EnvPrefix + "LOCALE"
	EnvMockPort  = EnvPrefix + "MOCK_PORT"
	EnvLogLevel  = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat = EnvPrefix + "LOG_FORMAT"
)

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithHomeDir overrides the directory the user config is looked up in.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.home = dir
	}
}

// WithWorkDir overrides the directory the project config search starts at.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.workDir = dir
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupEnv = lookup
	}
}

// Loader resolves configuration with layered precedence.
type Loader struct {
	logger    *slog.Logger
	home      string
	workDir   string
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger, lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load applies, in order of increasing precedence:
//  1. defaults
//  2. user config (~/.config/aspectgen/config.yaml)
//  3. project config (aspectgen.yaml in the working directory or a parent)
//  4. ASPECTGEN_* environment variables
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if path := l.userConfigPath(); path != "" {
		user, err := LoadFromFile(path)
		switch {
		case err == nil:
			l.logger.Debug("loaded user config", slog.String("path", path))
			cfg.Merge(user)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if path := l.findProjectConfig(); path != "" {
		project, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded project config", slog.String("path", path))
		cfg.Merge(project)
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureUserConfig writes the defaults to the user config path when no
// file exists there yet, returning the path.
func (l *Loader) EnsureUserConfig() (string, error) {
	path := l.userConfigPath()
	if path == "" {
		return "", errors.New("config: home directory is unknown")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("created default user config", slog.String("path", path))
	return path, nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	overrides := map[string]*string{
		EnvModelsDir: &cfg.Models.Dir,
		EnvModelsURL: &cfg.Models.URL,
		EnvOutputDir: &cfg.Output.Dir,
		EnvLocale:    &cfg.Output.Locale,
		EnvLogLevel:  &cfg.Logging.Level,
		EnvLogFormat: &cfg.Logging.Format,
	}
	for key, target := range overrides {
		if v, ok := l.lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}
	if v, ok := l.lookupEnv(EnvMockPort); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvMockPort, err)
		}
		cfg.Mock.Port = port
	}
	return nil
}

func (l *Loader) userConfigPath() string {
	home := l.home
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}

	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
