// Package config holds the settings of the anon-aadhaar command line tool.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultSRSPath  = "anon_srs.local"
	DefaultListen   = "0.0.0.0:8010"
	DefaultLogLevel = "info"
	DefaultKeysDir  = "build"
)

type Config struct {
	// SRSPath is where the reference string is cached.
	SRSPath string `toml:"srs_path"`
	// SRSSource is a ceremony transcript the reference string is cut from.
	// Empty means the development setup, which is not secure.
	SRSSource string `toml:"srs_source"`
	// ArtifactPath selects a compiled artifact. Empty means the built-in circuit.
	ArtifactPath string `toml:"artifact_path"`
	KeysDir      string `toml:"keys_dir"`
	Listen       string `toml:"listen"`
	LogLevel     string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		SRSPath:  DefaultSRSPath,
		KeysDir:  DefaultKeysDir,
		Listen:   DefaultListen,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads a TOML config file over the defaults. Keys missing from the
// file keep their default value. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if cfg.SRSPath == "" {
		return nil, errors.New("srs_path must not be empty")
	}
	return cfg, nil
}

func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
