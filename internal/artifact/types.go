package artifact

// Stage names one of the ten pipeline stages, matching internal/db's
// stage_events CHECK constraint.
type Stage string

const (
	StageProfile   Stage = "profile"
	StageEntities  Stage = "entities"
	StageBuildEnv  Stage = "build-env"
	StageBugGen    Stage = "bug-gen"
	StageCollect   Stage = "collect"
	StageValidate  Stage = "validate"
	StageGather    Stage = "gather"
	StageIssueGen  Stage = "issue-gen"
	StageDataset   Stage = "dataset"
	StageDistill   Stage = "distill"
)

// StageHistoryEntry records one transition of a run's progress through a
// stage.
type StageHistoryEntry struct {
	Stage     Stage  `json:"stage"`
	Status    string `json:"status"` // started | completed | failed
	Timestamp string `json:"timestamp"`
	Detail    string `json:"detail,omitempty"`
}

// RunState is the on-disk record of one pipeline run's progress against
// one repo profile.
type RunState struct {
	RunID        string              `json:"run_id"`
	RepoKey      string              `json:"repo_key"` // owner/repo@commit
	CurrentStage Stage               `json:"current_stage"`
	Status       string              `json:"status"` // pending | running | completed | failed
	StageHistory []StageHistoryEntry `json:"stage_history"`
	Artifacts    map[string]string   `json:"artifacts"` // logical name -> path
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}
