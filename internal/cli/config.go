package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	envPrefix     = "PLANNER"
	defaultServer = "http://localhost:8080"

	keyServer = "server"
)

// DefaultConfigPath returns ~/.config/planner/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "planner", "config.yaml")
}

// readConfig loads the YAML file at path into v. A missing file is not
// an error, the defaults and PLANNER_* variables still apply.
func readConfig(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault(keyServer, defaultServer)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &pathErr) || errors.As(err, &notFoundErr) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}
