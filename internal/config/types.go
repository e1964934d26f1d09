package config

// RunConfig is the top-level configuration for one pipeline invocation,
// parsed from a run YAML file and overridable by CLI flags.
type RunConfig struct {
	Run Run `yaml:"run"`
}

// Run describes the repo under synthesis and the knobs for every stage.
type Run struct {
	ProfilePath   string `yaml:"profile"`
	BugGenMethod  string `yaml:"bug_gen_method"`  // procedural | llm-modify | llm-rewrite | all
	MaxBugs       int    `yaml:"max_bugs"`
	Workers       int    `yaml:"workers"`
	IssueMode     string `yaml:"issue_mode"`      // llm | static | tests | pr | skip
	IssueConfig   string `yaml:"issue_config"`
	IssueWorkers  int    `yaml:"issue_workers"`
	LLMModel      string `yaml:"llm_model"`
	SkipBuild     bool   `yaml:"skip_build"`
	GHOwnerType   string `yaml:"gh_owner_type"` // user | org
	WorkspaceRoot string `yaml:"workspace_root"`

	OrgGH string `yaml:"org_gh"` // SWESMITH_ORG_GH
	OrgDH string `yaml:"org_dh"` // SWESMITH_ORG_DH

	Defaults Defaults `yaml:"defaults"`
}

// Defaults holds values applied where a stage-specific override is absent.
type Defaults struct {
	TestTimeout      string `yaml:"test_timeout"`
	ContainerTimeout string `yaml:"container_timeout"`
	LLMTimeout       string `yaml:"llm_timeout"`
	RetryMax         int    `yaml:"retry_max"`
}
