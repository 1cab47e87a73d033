package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds CLI defaults read from ~/.pkgspec/config.yaml and env vars
// prefixed PKGSPEC_. The --cache-dir flag takes highest precedence:
// internal/cmd assigns it to CacheDir after Load returns.
type Config struct {
	// CacheDir overrides Paths.CacheDir for the source cache.
	CacheDir string `mapstructure:"cache_dir"`
	// DefaultProfile holds the default_profile setting. It is loaded but
	// not read by any command: resolve, vet and diff all take the profile
	// path as a required argument.
	DefaultProfile string `mapstructure:"default_profile"`
	// RegistryPrefix holds the registry_prefix setting. It is loaded but
	// not read by the resolver or by any command.
	RegistryPrefix string `mapstructure:"registry_prefix"`
}

// Load reads configuration from configFile (if it exists), environment
// variables prefixed PKGSPEC_, and falls back to DefaultPaths().CacheDir
// when cache_dir is unset. A missing config file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("pkgspec")
	v.AutomaticEnv()
	for _, key := range []string{"cache_dir", "default_profile", "registry_prefix"} {
		_ = v.BindEnv(key)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		paths, err := DefaultPaths()
		if err != nil {
			return nil, err
		}
		configFile = paths.ConfigFile
		v.SetConfigFile(configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config %q: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", configFile, err)
	}

	if cfg.CacheDir == "" {
		paths, err := DefaultPaths()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = paths.CacheDir
	}

	return &cfg, nil
}
