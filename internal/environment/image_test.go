package environment

import (
	"context"
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/profile"
)

type fakeRunner struct {
	calls       []string
	inspectMiss bool // first "image inspect" returns exit 1 (not found)
	inspectCalls int
}

func (f *fakeRunner) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	f.calls = append(f.calls, command)
	if strings.Contains(command, "image inspect") {
		f.inspectCalls++
		if f.inspectMiss {
			return "", "no such image", 1, nil
		}
		return "", "", 0, nil
	}
	return "", "", 0, nil
}

func testImageProfile() *profile.Profile {
	return &profile.Profile{
		Owner: "django", Repo: "django", Commit: "abc123", DHOrg: "swebench", Arch: "x86_64",
		Image: profile.ImageRecipe{Base: "python:3.11-slim", Setup: []string{"pip install -e ."}},
	}
}

func TestImageBuilder_SkipsBuildWhenImageExists(t *testing.T) {
	runner := &fakeRunner{inspectMiss: false}
	b := NewImageBuilder(runner, t.TempDir())

	tag, err := b.Build(context.Background(), testImageProfile())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if tag != DigestTag(testImageProfile()) {
		t.Errorf("tag = %q, want %q", tag, DigestTag(testImageProfile()))
	}
	for _, c := range runner.calls {
		if strings.Contains(c, "docker build") {
			t.Errorf("expected no docker build call, got %q", c)
		}
	}
}

func TestImageBuilder_BuildsWhenImageMissing(t *testing.T) {
	runner := &fakeRunner{inspectMiss: true}
	b := NewImageBuilder(runner, t.TempDir())

	_, err := b.Build(context.Background(), testImageProfile())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var built bool
	for _, c := range runner.calls {
		if strings.Contains(c, "docker build") {
			built = true
		}
	}
	if !built {
		t.Error("expected a docker build call when image is missing")
	}
}

func TestImageBuilder_SkipsSecondCallWithinRun(t *testing.T) {
	runner := &fakeRunner{inspectMiss: true}
	b := NewImageBuilder(runner, t.TempDir())
	p := testImageProfile()

	if _, err := b.Build(context.Background(), p); err != nil {
		t.Fatalf("first Build() error: %v", err)
	}
	before := runner.inspectCalls
	if _, err := b.Build(context.Background(), p); err != nil {
		t.Fatalf("second Build() error: %v", err)
	}
	if runner.inspectCalls != before {
		t.Errorf("second Build() made %d more inspect calls, want 0 (in-memory cache)", runner.inspectCalls-before)
	}
}

func TestDigestTag_ChangesWithSetup(t *testing.T) {
	p1 := testImageProfile()
	p2 := testImageProfile()
	p2.Image.Setup = append(p2.Image.Setup, "pip install extra")

	if DigestTag(p1) == DigestTag(p2) {
		t.Error("DigestTag should differ when setup steps differ")
	}
}
