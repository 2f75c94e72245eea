package dispatch

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigFileNotFound is returned by LoadOptions when path does not exist.
var ErrConfigFileNotFound = errors.New("dispatch: configuration file not found")

// LoadOptions reads an Options value from a YAML file, letting a deployment
// configure an endpoint's path, encoders, and metadata serving without a
// recompile.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return Options{}, fmt.Errorf("dispatch: reading config %s: %w", path, err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("dispatch: parsing config %s: %w", path, err)
	}
	return opts, nil
}
