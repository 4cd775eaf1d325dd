package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the structured server configuration. Connection strings and the
// listen address stay in the environment; this file carries the pieces that
// deserve review in version control: authz wiring and custom preflight rules.
type Config struct {
	Version  int         `yaml:"version"`
	Timezone string      `yaml:"timezone"`
	Authz    AuthzConfig `yaml:"authz"`
	Rules    []Rule      `yaml:"rules"`
}

type AuthzConfig struct {
	ModelPath  string `yaml:"model_path"`
	PolicyPath string `yaml:"policy_path"`
}

// Rule is one operator-defined CEL preflight rule.
type Rule struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Severity string `yaml:"severity"`
	Expr     string `yaml:"expr"`
	Message  string `yaml:"message"`
}

func ParseYAML(b []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	if c.Version != 1 {
		return Config{}, errors.New("config: unsupported version")
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	for i, rule := range c.Rules {
		if rule.Name == "" || rule.Expr == "" {
			return Config{}, fmt.Errorf("config: rule %d needs name and expr", i+1)
		}
	}
	return c, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseYAML(b)
}

// Default is the configuration used when no config file is present.
func Default() Config {
	return Config{Version: 1, Timezone: "UTC"}
}
