package cli

import (
	"os"

	"github.com/swesmith-go/synthesis/internal/config"
	"github.com/swesmith-go/synthesis/internal/db"
	"github.com/swesmith-go/synthesis/internal/environment"
	"github.com/swesmith-go/synthesis/internal/llm"
	"github.com/swesmith-go/synthesis/internal/mirror"
	"github.com/swesmith-go/synthesis/internal/transport"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

// Persistent flag values shared by every stage command, mirroring the
// teacher's configFile package-level var in config_cmd.go.
var (
	logsDir  string
	locksDir string
	workDir  string
)

// newWorktreeGit returns the real git executor for worktree operations.
func newWorktreeGit() worktree.GitRunner {
	return &worktree.ExecGit{}
}

// newMirrorGit returns the real git executor for mirror/gather operations.
// gather.GitRunner and mirror.GitRunner share the RunGit(dir, args...) shape,
// so the one ExecGit backs both.
func newMirrorGit() *mirror.ExecGit {
	return &mirror.ExecGit{}
}

// newImages constructs an ImageBuilder against the real docker CLI, caching
// built Dockerfiles under workDir/images.
func newImages() *environment.ImageBuilder {
	return environment.NewImageBuilder(environment.ExecRunner{}, workDir+"/images")
}

// newLLM constructs an llm.Client from SWESMITH_LLM_API_KEY /
// SWESMITH_LLM_BASE_URL, applying cfg's retry-max default when set.
func newLLM(cfg config.Run) *llm.Client {
	apiKey := os.Getenv("SWESMITH_LLM_API_KEY")
	baseURL := os.Getenv("SWESMITH_LLM_BASE_URL")

	retry := transport.DefaultRetryConfig()
	if cfg.Defaults.RetryMax > 0 {
		retry.MaxAttempts = cfg.Defaults.RetryMax
	}

	model := cfg.LLMModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	return llm.New(apiKey, baseURL, model, retry)
}

// newDB opens the ambient SQLite store at its default path (~/.smith/smith.db),
// migrating it in place. Callers that don't need event logging may pass a nil
// *db.DB onward instead of calling this.
func newDB() (*db.DB, error) {
	path, err := db.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logsDir, "logs-dir", "logs", "directory holding per-stage run artifacts")
	rootCmd.PersistentFlags().StringVar(&locksDir, "locks-dir", ".locks", "directory for the Gatherer's per-repo push locks")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", ".work", "scratch root for mirror clones, scan worktrees, and image build contexts")
}
