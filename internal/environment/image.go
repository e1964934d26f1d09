package environment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/swesmith-go/synthesis/internal/profile"
)

// ImageBuilder builds and caches a profile's container image. A build is
// skipped — locally within a run, and via `docker image inspect` across
// runs — whenever the image already exists under its digest-qualified tag,
// so re-running a pipeline over the same repo revision never rebuilds.
type ImageBuilder struct {
	runner    CommandRunner
	buildRoot string
	timeout   time.Duration

	mu      sync.Mutex
	inFlight map[string]bool
}

// NewImageBuilder creates a builder that shells out to docker via runner,
// writing generated Dockerfiles under buildRoot.
func NewImageBuilder(runner CommandRunner, buildRoot string) *ImageBuilder {
	return &ImageBuilder{
		runner:    runner,
		buildRoot: buildRoot,
		timeout:   10 * time.Minute,
		inFlight:  make(map[string]bool),
	}
}

// DigestTag is the content-addressed image tag for a profile: its base
// ImageName() plus a short digest of the recipe and commit, so a changed
// setup step or a new commit always produces a distinct tag instead of
// silently reusing a stale image.
func DigestTag(p *profile.Profile) string {
	h := sha256.New()
	h.Write([]byte(p.Commit))
	h.Write([]byte(p.Image.Base))
	for _, step := range p.Image.Setup {
		h.Write([]byte(step))
	}
	digest := hex.EncodeToString(h.Sum(nil))[:12]
	return fmt.Sprintf("%s.%s", p.ImageName(), digest)
}

// Build ensures the image for p exists, building it if necessary, and
// returns its tag.
func (b *ImageBuilder) Build(ctx context.Context, p *profile.Profile) (string, error) {
	tag := DigestTag(p)

	if b.markBuilding(tag) {
		return tag, nil
	}

	exists, err := b.imageExists(ctx, tag)
	if err != nil {
		return "", err
	}
	if exists {
		return tag, nil
	}

	buildDir := filepath.Join(b.buildRoot, sanitizeTag(tag))
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", fmt.Errorf("environment: create build dir: %w", err)
	}
	dockerfile := renderDockerfile(p)
	if err := os.WriteFile(filepath.Join(buildDir, "Dockerfile"), []byte(dockerfile), 0o644); err != nil {
		return "", fmt.Errorf("environment: write Dockerfile: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := fmt.Sprintf("docker build -t %s .", tag)
	stdout, stderr, exitCode, err := b.runner.Run(buildCtx, buildDir, cmd)
	if err != nil {
		return "", fmt.Errorf("environment: docker build %s: %w", tag, err)
	}
	if exitCode != 0 {
		return "", fmt.Errorf("environment: docker build %s exited %d:\n%s\n%s", tag, exitCode, stdout, stderr)
	}
	return tag, nil
}

func (b *ImageBuilder) markBuilding(tag string) (alreadyBuilt bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight[tag] {
		return true
	}
	b.inFlight[tag] = true
	return false
}

func (b *ImageBuilder) imageExists(ctx context.Context, tag string) (bool, error) {
	_, _, exitCode, err := b.runner.Run(ctx, "", fmt.Sprintf("docker image inspect %s", tag))
	if err != nil {
		return false, fmt.Errorf("environment: docker image inspect %s: %w", tag, err)
	}
	return exitCode == 0, nil
}

func renderDockerfile(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", p.Image.Base)
	fmt.Fprintf(&b, "WORKDIR /repo\n")
	for _, step := range p.Image.Setup {
		fmt.Fprintf(&b, "RUN %s\n", step)
	}
	return b.String()
}

func sanitizeTag(tag string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(tag)
}
