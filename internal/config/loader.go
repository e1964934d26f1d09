package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a run configuration from the given YAML file path,
// then applies defaults to fields left unset.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a run config in standard locations and loads the
// first one found. Search order: ./smith.yaml, ~/.smith/config.yaml
func LoadDefault() (*RunConfig, error) {
	candidates := []string{"smith.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".smith", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return nil, fmt.Errorf("no run config found (searched: %v)", candidates)
}

// applyDefaults fills in fields a run config leaves at their zero value with
// sensible pipeline-wide defaults.
func applyDefaults(cfg *RunConfig) {
	r := &cfg.Run

	if r.BugGenMethod == "" {
		r.BugGenMethod = "all"
	}
	if r.MaxBugs <= 0 {
		r.MaxBugs = 1000
	}
	if r.Workers <= 0 {
		r.Workers = 4
	}
	if r.IssueMode == "" {
		r.IssueMode = "llm"
	}
	if r.IssueWorkers <= 0 {
		r.IssueWorkers = r.Workers
	}
	if r.GHOwnerType == "" {
		r.GHOwnerType = "org"
	}
	if r.WorkspaceRoot == "" {
		r.WorkspaceRoot = "."
	}
	if r.Defaults.TestTimeout == "" {
		r.Defaults.TestTimeout = "10m"
	}
	if r.Defaults.ContainerTimeout == "" {
		r.Defaults.ContainerTimeout = "2m"
	}
	if r.Defaults.LLMTimeout == "" {
		r.Defaults.LLMTimeout = "90s"
	}
	if r.Defaults.RetryMax <= 0 {
		r.Defaults.RetryMax = 5
	}
}
