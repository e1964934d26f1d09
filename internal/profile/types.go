package profile

import "github.com/swesmith-go/synthesis/internal/testlog"

// ImageRecipe describes how to build the container image a Profile's
// repository runs in.
type ImageRecipe struct {
	Base  string   `yaml:"base"`
	Setup []string `yaml:"setup"`
}

// Profile is the registry entry for one (owner, repo, commit). It is
// written once per repo revision and read for the lifetime of every run
// that touches that revision.
type Profile struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Commit string `yaml:"commit"`

	Lang string `yaml:"language"`

	TestCmd     string             `yaml:"test_cmd"`
	SourceGlob  []string           `yaml:"source_globs"`
	ExcludeGlob []string           `yaml:"exclude_globs"`
	ParserKind  testlog.ParserKind `yaml:"parser_kind"`

	Image ImageRecipe `yaml:"image"`

	// MaxMemory is the container's memory limit in docker's own flag
	// syntax (e.g. "2g", "512m"). Empty means no limit.
	MaxMemory string `yaml:"max_memory"`
	// PerTestTimeout bounds one test-suite run inside the container, in
	// time.ParseDuration syntax (e.g. "10m"). Empty falls back to
	// DefaultPerTestTimeout.
	PerTestTimeout string `yaml:"per_test_timeout"`

	DHOrg string `yaml:"dh_org"`
	GHOrg string `yaml:"gh_org"`
	Arch  string `yaml:"arch"`
}
