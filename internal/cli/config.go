package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// configFile is the file name probed in the working directory when --config
// is not given.
const configFile = "diaflow.toml"

// Config is the optional TOML configuration. Every field has a working
// default; flags override file values.
type Config struct {
	// DefaultFormat is used when neither the file extension nor a flag
	// determines the output format.
	DefaultFormat string `toml:"default_format"`

	// ListenAddr is the bind address for `diaflow serve`.
	ListenAddr string `toml:"listen_addr"`
}

func defaultConfig() Config {
	return Config{
		DefaultFormat: "native",
		ListenAddr:    "127.0.0.1:8750",
	}
}

// loadConfig reads the TOML configuration. An explicit path must exist; the
// implicit ./diaflow.toml is optional and silently skipped when absent.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if path == "" {
		path = configFile
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
