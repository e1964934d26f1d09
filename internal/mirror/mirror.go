// Package mirror provides the git-transport surface the Environment
// Builder and Instance Gatherer need against a repo's GitHub mirror:
// cloning it (SSH first, HTTPS+token as fallback), pushing branches, and
// rebasing a worktree onto main.
package mirror

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitRunner provides git command execution. Interface for testing.
type GitRunner interface {
	RunGit(dir string, args ...string) (string, error)
}

// ExecGit implements GitRunner using exec.Command.
type ExecGit struct{}

func (g *ExecGit) RunGit(dir string, args ...string) (string, error) {
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

// Client provides the git-transport operations the pipeline needs against
// a repo's mirror: cloning, pushing branches, rebasing.
type Client struct {
	git GitRunner
}

// NewClient creates a mirror client.
func NewClient(git GitRunner) *Client {
	return &Client{git: git}
}

// CloneSpec names the two remotes a mirror can be reached by: an SSH URL
// tried first, and an HTTPS URL with a token embedded tried on failure.
// Token is never logged or included in error messages.
type CloneSpec struct {
	SSHURL   string
	HTTPSURL string
	Token    string
}

// httpsWithToken embeds a token into an https:// URL as basic-auth
// userinfo, the form `git clone` and `git push` both accept without a
// credential helper.
func httpsWithToken(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	const prefix = "https://"
	if !strings.HasPrefix(rawURL, prefix) {
		return rawURL
	}
	return prefix + token + "@" + strings.TrimPrefix(rawURL, prefix)
}

// Clone clones spec's mirror into dest, trying SSH first and falling back
// to HTTPS+token on failure. Returns which transport succeeded ("ssh" or
// "https"), or an error if both failed.
func (c *Client) Clone(spec CloneSpec, dest string) (string, error) {
	if spec.SSHURL != "" {
		if _, err := c.git.RunGit("", "clone", spec.SSHURL, dest); err == nil {
			return "ssh", nil
		}
	}
	if spec.HTTPSURL == "" {
		return "", fmt.Errorf("clone mirror: ssh failed and no https fallback configured")
	}
	if _, err := c.git.RunGit("", "clone", httpsWithToken(spec.HTTPSURL, spec.Token), dest); err != nil {
		return "", fmt.Errorf("clone mirror: ssh and https both failed: %w", err)
	}
	return "https", nil
}

// PushBranch pushes a branch to the remote.
func (c *Client) PushBranch(dir string, branch string) error {
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch name %q: must not start with -", branch)
	}
	_, err := c.git.RunGit(dir, "push", "-u", "origin", branch)
	if err != nil {
		return fmt.Errorf("push branch: %w", err)
	}
	return nil
}

// ForcePushBranch pushes a branch using --force-with-lease, safe to use
// after a local rebase that rewrites history already on the remote.
func (c *Client) ForcePushBranch(dir string, branch string) error {
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch name %q: must not start with -", branch)
	}
	_, err := c.git.RunGit(dir, "push", "--force-with-lease", "-u", "origin", branch)
	if err != nil {
		return fmt.Errorf("force push branch: %w", err)
	}
	return nil
}

// RebaseOntoMain fetches origin/main and rebases the working tree onto
// it. Returns (conflicted=true, nil) when git detects merge conflicts and
// the rebase has been aborted, leaving the worktree clean. Returns
// (false, err) for fetch errors or unexpected rebase failures. Returns
// (false, nil) when the rebase completes cleanly (including no-op).
func (c *Client) RebaseOntoMain(dir string) (conflicted bool, err error) {
	if _, err := c.git.RunGit(dir, "fetch", "origin", "main"); err != nil {
		return false, fmt.Errorf("fetch origin main: %w", err)
	}
	out, rebaseErr := c.git.RunGit(dir, "rebase", "origin/main")
	if rebaseErr == nil {
		return false, nil
	}
	if strings.Contains(out, "CONFLICT") || strings.Contains(out, "conflict") {
		_, _ = c.git.RunGit(dir, "rebase", "--abort")
		return true, nil
	}
	return false, fmt.Errorf("rebase onto origin/main: %w", rebaseErr)
}

// BranchExists reports whether branch already exists on the remote.
func (c *Client) BranchExists(dir string, branch string) (bool, error) {
	out, err := c.git.RunGit(dir, "ls-remote", "--heads", "origin", branch)
	if err != nil {
		return false, fmt.Errorf("check remote branch: %w", err)
	}
	return strings.TrimSpace(out) != "", nil
}

// RemoteBranchTip returns the commit SHA the remote's branch currently
// points at, or "" if the branch does not exist.
func (c *Client) RemoteBranchTip(dir string, branch string) (string, error) {
	out, err := c.git.RunGit(dir, "ls-remote", "origin", "refs/heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("remote branch tip: %w", err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// FetchBranch fetches a single branch ref from origin into dir's repo
// without merging or checking it out.
func (c *Client) FetchBranch(dir string, branch string) error {
	_, err := c.git.RunGit(dir, "fetch", "origin", branch)
	if err != nil {
		return fmt.Errorf("fetch branch %s: %w", branch, err)
	}
	return nil
}

// TreeHash returns the hash of the tree ref points at, for comparing the
// content of two commits irrespective of their author/committer metadata.
func (c *Client) TreeHash(dir string, ref string) (string, error) {
	out, err := c.git.RunGit(dir, "rev-parse", ref+"^{tree}")
	if err != nil {
		return "", fmt.Errorf("tree hash of %s: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}
