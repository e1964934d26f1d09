package distill

import (
	"context"
	"strings"
	"testing"

	"github.com/swesmith-go/synthesis/internal/gather"
	"github.com/swesmith-go/synthesis/internal/testlog"
)

type fakeContainerRunner struct {
	testOutput string
	calls      []string
}

func (f *fakeContainerRunner) Run(ctx context.Context, dir, cmd string) (string, string, int, error) {
	f.calls = append(f.calls, cmd)
	switch {
	case strings.Contains(cmd, "docker run -d --rm"):
		return "container1", "", 0, nil
	case strings.Contains(cmd, "docker stop"):
		return "", "", 0, nil
	case strings.Contains(cmd, "base64 -d >"):
		return "", "", 0, nil
	case strings.Contains(cmd, "git apply --verbose "):
		return "", "", 0, nil
	case strings.Contains(cmd, "Start Test Output"):
		return f.testOutput, "", 0, nil
	default:
		return "", "", 0, nil
	}
}

func testInstance() gather.Instance {
	return gather.Instance{
		InstanceID: "acme__widgets.abc1234.hash1",
		Repo:       "acme/widgets",
		ImageName:  "swesmith.acme_widgets:abc1234",
		FailToPass: []string{"tests/test_foo.py::test_a"},
		PassToPass: []string{"tests/test_foo.py::test_b"},
	}
}

func newResolver(output string) *Resolver {
	return &Resolver{
		Runner:  &fakeContainerRunner{testOutput: output},
		TestCmd: func(gather.Instance) string { return "pytest" },
		ParseLog: func(_ gather.Instance, raw string) (testlog.Report, error) {
			return testlog.New(testlog.KindPytest).Parse(raw)
		},
	}
}

func TestResolve_AllTestsPass_Resolved(t *testing.T) {
	output := ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a PASSED\n" +
		"tests/test_foo.py::test_b PASSED\n" +
		">>>>> End Test Output"
	r := newResolver(output)

	resolved, counts, err := r.Resolve(context.Background(), testInstance(), Trajectory{InstanceID: "acme__widgets.abc1234.hash1", ModelPatch: "patch"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !resolved {
		t.Errorf("expected resolved, got counts=%+v", counts)
	}
	if counts.F2PSuccess != 1 || counts.P2PSuccess != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestResolve_F2PStillFails_Unresolved(t *testing.T) {
	output := ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a FAILED\n" +
		"tests/test_foo.py::test_b PASSED\n" +
		">>>>> End Test Output"
	r := newResolver(output)

	resolved, counts, err := r.Resolve(context.Background(), testInstance(), Trajectory{InstanceID: "acme__widgets.abc1234.hash1", ModelPatch: "patch"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved {
		t.Error("expected unresolved when a FAIL_TO_PASS test is still failing")
	}
	if counts.F2PFailure != 1 {
		t.Errorf("expected F2PFailure=1, got %+v", counts)
	}
}

func TestResolve_AppliesMaxMemory(t *testing.T) {
	runner := &fakeContainerRunner{testOutput: ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a PASSED\n" +
		"tests/test_foo.py::test_b PASSED\n" +
		">>>>> End Test Output"}
	r := &Resolver{
		Runner:  runner,
		TestCmd: func(gather.Instance) string { return "pytest" },
		ParseLog: func(_ gather.Instance, raw string) (testlog.Report, error) {
			return testlog.New(testlog.KindPytest).Parse(raw)
		},
		MaxMemory: func(gather.Instance) string { return "2g" },
	}

	if _, _, err := r.Resolve(context.Background(), testInstance(), Trajectory{InstanceID: "acme__widgets.abc1234.hash1", ModelPatch: "patch"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(runner.calls[0], "--memory 2g") {
		t.Errorf("start command = %q, missing --memory flag", runner.calls[0])
	}
}

func TestResolve_P2PRegresses_Unresolved(t *testing.T) {
	output := ">>>>> Start Test Output\n" +
		"tests/test_foo.py::test_a PASSED\n" +
		"tests/test_foo.py::test_b FAILED\n" +
		">>>>> End Test Output"
	r := newResolver(output)

	resolved, counts, err := r.Resolve(context.Background(), testInstance(), Trajectory{InstanceID: "acme__widgets.abc1234.hash1", ModelPatch: "patch"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved {
		t.Error("expected unresolved when a PASS_TO_PASS test regresses")
	}
	if counts.P2PFailure != 1 {
		t.Errorf("expected P2PFailure=1, got %+v", counts)
	}
}

func TestResolve_ApplyFailed_Unresolved(t *testing.T) {
	r := &Resolver{
		Runner:  &applyFailsRunner{},
		TestCmd: func(gather.Instance) string { return "pytest" },
		ParseLog: func(_ gather.Instance, raw string) (testlog.Report, error) {
			return testlog.New(testlog.KindPytest).Parse(raw)
		},
	}

	resolved, counts, err := r.Resolve(context.Background(), testInstance(), Trajectory{InstanceID: "acme__widgets.abc1234.hash1", ModelPatch: "bad patch"})
	if err == nil {
		t.Fatal("expected an error describing the apply failure")
	}
	if resolved {
		t.Error("expected unresolved when the model patch fails to apply")
	}
	if counts.F2PFailure != 1 {
		t.Errorf("expected every F2P test counted as failed, got %+v", counts)
	}
}

type applyFailsRunner struct{}

func (applyFailsRunner) Run(ctx context.Context, dir, cmd string) (string, string, int, error) {
	switch {
	case strings.Contains(cmd, "docker run -d --rm"):
		return "container1", "", 0, nil
	case strings.Contains(cmd, "docker stop"):
		return "", "", 0, nil
	case strings.Contains(cmd, "base64 -d >"):
		return "", "", 0, nil
	default:
		return "", "apply rejected", 1, nil
	}
}
