package worktree

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// GitRunner provides git commands. Interface for testing.
type GitRunner interface {
	Run(dir string, args ...string) (string, error)
}

// ExecGit implements GitRunner using exec.Command.
type ExecGit struct{}

func (g *ExecGit) Run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Manager handles git worktree operations against a mirror checkout. It is
// shared by the Environment Builder (one worktree per repo profile, keyed by
// mirror name) and the Instance Gatherer (one worktree per accepted task
// instance, keyed by instance_id) — both just need an isolated checkout on
// its own branch, so neither hardcodes the other's key shape.
type Manager struct {
	git     GitRunner
	baseDir string // where worktrees are created
	repoDir string // git repo root (the mirror clone)
}

// NewManager creates a worktree manager.
func NewManager(git GitRunner, repoDir string, baseDir string) *Manager {
	return &Manager{git: git, repoDir: repoDir, baseDir: baseDir}
}

// WithRepoDir creates a new Manager for a different repo root, reusing the same GitRunner.
// The baseDir for worktrees is set to <repoDir>/worktrees.
func (m *Manager) WithRepoDir(repoDir string) *Manager {
	return &Manager{git: m.git, repoDir: repoDir, baseDir: filepath.Join(repoDir, "worktrees")}
}

// CreateOpts holds options for creating a worktree.
type CreateOpts struct {
	Key     string // unique key (mirror name, instance_id, ...) identifying this checkout
	BaseRef string // ref to branch from; defaults to "main"
	Branch  string // override auto-generated branch name
}

// CreateResult holds the result of creating a worktree.
type CreateResult struct {
	Path   string
	Branch string
}

// Create creates a new git worktree keyed by opts.Key, branching from opts.BaseRef
// (or "main" if unset).
func (m *Manager) Create(opts CreateOpts) (*CreateResult, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("invalid worktree key: must be non-empty")
	}

	baseRef := opts.BaseRef
	if baseRef == "" {
		baseRef = "main"
	}

	branch := opts.Branch
	if branch == "" {
		branch = sanitizeBranch(fmt.Sprintf("smith/%s", opts.Key))
	} else {
		branch = sanitizeBranch(branch)
	}

	worktreePath := filepath.Join(m.baseDir, sanitizeKey(opts.Key))

	// Best-effort fetch to ensure we branch from an up-to-date base ref.
	m.git.Run(m.repoDir, "fetch", "origin", baseRef)

	// Branch explicitly from origin/<baseRef>, not local HEAD (which may lag
	// behind if the local branch hasn't been fast-forwarded).
	_, err := m.git.Run(m.repoDir, "worktree", "add", worktreePath, "-b", branch, "origin/"+baseRef)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			_, err = m.git.Run(m.repoDir, "worktree", "add", worktreePath, branch)
			if err != nil {
				return nil, fmt.Errorf("create worktree: %w", err)
			}
		} else {
			return nil, fmt.Errorf("create worktree: %w", err)
		}
	}

	return &CreateResult{
		Path:   worktreePath,
		Branch: branch,
	}, nil
}

// CreateFromCommit creates a new git worktree keyed by opts.Key, branching
// directly from the literal commit opts.BaseRef rather than a remote
// branch name — what the Instance Gatherer needs, since a profile pins an
// exact commit rather than a ref that moves.
func (m *Manager) CreateFromCommit(opts CreateOpts) (*CreateResult, error) {
	if opts.Key == "" {
		return nil, fmt.Errorf("invalid worktree key: must be non-empty")
	}
	if opts.BaseRef == "" {
		return nil, fmt.Errorf("invalid worktree base commit: must be non-empty")
	}

	branch := opts.Branch
	if branch == "" {
		branch = sanitizeBranch(fmt.Sprintf("smith/%s", opts.Key))
	} else {
		branch = sanitizeBranch(branch)
	}

	worktreePath := filepath.Join(m.baseDir, sanitizeKey(opts.Key))

	// Best-effort fetch so the pinned commit is present locally even if it
	// isn't reachable from any ref this clone already tracked.
	m.git.Run(m.repoDir, "fetch", "origin", opts.BaseRef)

	_, err := m.git.Run(m.repoDir, "worktree", "add", worktreePath, "-b", branch, opts.BaseRef)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			_, err = m.git.Run(m.repoDir, "worktree", "add", worktreePath, branch)
			if err != nil {
				return nil, fmt.Errorf("create worktree: %w", err)
			}
		} else {
			return nil, fmt.Errorf("create worktree: %w", err)
		}
	}

	return &CreateResult{
		Path:   worktreePath,
		Branch: branch,
	}, nil
}

// Remove removes a git worktree and optionally deletes the branch.
func (m *Manager) Remove(key string, deleteBranch bool) error {
	if key == "" {
		return fmt.Errorf("invalid worktree key: must be non-empty")
	}

	worktreePath := filepath.Join(m.baseDir, sanitizeKey(key))

	var branch string
	if deleteBranch {
		out, err := m.git.Run(worktreePath, "rev-parse", "--abbrev-ref", "HEAD")
		if err == nil {
			branch = out
		}
	}

	// Remove the worktree (without --force to protect uncommitted work).
	_, err := m.git.Run(m.repoDir, "worktree", "remove", worktreePath)
	if err != nil {
		return fmt.Errorf("remove worktree: %w", err)
	}

	if deleteBranch && branch != "" && branch != "main" && branch != "master" {
		if _, err := m.git.Run(m.repoDir, "branch", "-d", branch); err != nil {
			return fmt.Errorf("delete branch %q: %w", branch, err)
		}
	}

	return nil
}

// Path returns the worktree path for a key.
func (m *Manager) Path(key string) string {
	return filepath.Join(m.baseDir, sanitizeKey(key))
}

var nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9/._-]+`)

// sanitizeBranch cleans up a branch name.
func sanitizeBranch(name string) string {
	s := nonAlphaNum.ReplaceAllString(name, "-")
	s = strings.Trim(s, "-.")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

var nonPathSafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeKey turns an arbitrary key (e.g. "django/django" or an instance_id
// containing "__") into a single filesystem-safe path segment.
func sanitizeKey(key string) string {
	s := nonPathSafe.ReplaceAllString(key, "-")
	return strings.Trim(s, "-.")
}
