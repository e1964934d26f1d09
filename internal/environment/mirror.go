package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/swesmith-go/synthesis/internal/profile"
	"github.com/swesmith-go/synthesis/internal/worktree"
)

// EnsureMirror makes sure a local clone of p's upstream repository exists
// under workDir, cloning it if necessary. It tries SSH first (the fast
// path when a deploy key is configured) and falls back to an HTTPS clone
// authenticated with GITHUB_TOKEN, matching how CI environments without an
// SSH agent still need to reach private mirrors.
func EnsureMirror(git worktree.GitRunner, workDir string, p *profile.Profile) (string, error) {
	dest := filepath.Join(workDir, fmt.Sprintf("%s__%s", p.Owner, p.Repo))

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return dest, nil
	}

	sshURL := fmt.Sprintf("git@github.com:%s/%s.git", p.Owner, p.Repo)
	if _, err := git.Run("", "clone", sshURL, dest); err == nil {
		return dest, nil
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("environment: ssh clone of %s/%s failed and GITHUB_TOKEN is unset for https fallback", p.Owner, p.Repo)
	}
	httpsURL := strings.Replace(
		fmt.Sprintf("https://github.com/%s/%s.git", p.Owner, p.Repo),
		"https://",
		fmt.Sprintf("https://x-access-token:%s@", token),
		1,
	)
	if _, err := git.Run("", "clone", httpsURL, dest); err != nil {
		return "", fmt.Errorf("environment: clone %s/%s (ssh and https both failed): %w", p.Owner, p.Repo, err)
	}
	return dest, nil
}
