package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for an orchestrated dynamic run.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	BaseDir    string  `json:"base_dir" yaml:"base_dir" toml:"base_dir"`
	FileRoot   string  `json:"file_root" yaml:"file_root" toml:"file_root"`
	Likelihood string  `json:"likelihood" yaml:"likelihood" toml:"likelihood"`
	Prior      string  `json:"prior" yaml:"prior" toml:"prior"`
	PriorScale float64 `json:"prior_scale" yaml:"prior_scale" toml:"prior_scale"`
	NDim       int     `json:"ndim" yaml:"ndim" toml:"ndim"`

	DynamicGoal float64 `json:"dynamic_goal" yaml:"dynamic_goal" toml:"dynamic_goal"`
	NInit       int     `json:"ninit" yaml:"ninit" toml:"ninit"`
	InitStep    int     `json:"init_step" yaml:"init_step" toml:"init_step"`
	NLiveConst  int     `json:"nlive_const" yaml:"nlive_const" toml:"nlive_const"`
	NumRepeats  int     `json:"num_repeats" yaml:"num_repeats" toml:"num_repeats"`
	Seed        int64   `json:"seed" yaml:"seed" toml:"seed"`
	MaxNDead    int     `json:"max_ndead" yaml:"max_ndead" toml:"max_ndead"`
	Posteriors  bool    `json:"posteriors" yaml:"posteriors" toml:"posteriors"`
	Resume      bool    `json:"resume" yaml:"resume" toml:"resume"`

	// Optional status/metrics listener; empty disables the HTTP server.
	StatusAddr string `json:"status_addr" yaml:"status_addr" toml:"status_addr"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
