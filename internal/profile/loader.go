package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a single profile from the given YAML file path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML %s: %w", path, err)
	}
	if err := validate(&p); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadAll reads every *.yaml/*.yml file directly under dir as a Profile,
// sorted by (owner, repo, commit) for deterministic iteration order.
func LoadAll(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading profile dir %s: %w", dir, err)
	}

	var profiles []*Profile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Key() < profiles[j].Key()
	})
	return profiles, nil
}

func validate(p *Profile) error {
	var missing []string
	if p.Owner == "" {
		missing = append(missing, "owner")
	}
	if p.Repo == "" {
		missing = append(missing, "repo")
	}
	if p.Commit == "" {
		missing = append(missing, "commit")
	}
	if p.TestCmd == "" {
		missing = append(missing, "test_cmd")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
