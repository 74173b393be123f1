// Package config loads the optional pseuc.yaml project file described
// in SPEC_FULL.md §2.4, grounded in pontaoski-tawago/main.go's
// tawaModule / "Tawa Module Information" pattern of a tiny
// struct-shaped YAML sidecar file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the handful of knobs a pseuc.yaml may override.
type Config struct {
	Entry   string `yaml:"entry"`
	Output  string `yaml:"output"`
	Verbose bool   `yaml:"verbose"`
}

// Default returns the compiler's built-in defaults, used when no
// pseuc.yaml is present.
func Default() Config {
	return Config{Entry: "_start", Output: "out.s"}
}

// Load reads and parses path. A missing file is not an error — it
// yields Default() — since pseuc.yaml is optional project
// configuration, not a required manifest.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Entry == "" {
		cfg.Entry = "_start"
	}
	if cfg.Output == "" {
		cfg.Output = "out.s"
	}
	return cfg, nil
}
