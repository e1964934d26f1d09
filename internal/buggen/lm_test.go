package buggen

import (
	"context"
	"strings"
	"testing"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}

func TestLMModify_ProducesDiff(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "```go\nfunc WithinBudget(spent, limit int) bool {\n\treturn spent <= limit\n}\n```"}

	candidate, ok, err := LMModify(context.Background(), fake, "", "go", []byte(sampleFile), entity, "")
	if err != nil {
		t.Fatalf("LMModify() error: %v", err)
	}
	if !ok {
		t.Fatal("expected candidate to be accepted")
	}
	if candidate.Method != MethodLMModify {
		t.Errorf("Method = %q, want %q", candidate.Method, MethodLMModify)
	}
	if !strings.Contains(candidate.Diff, "spent <= limit") {
		t.Errorf("diff missing model's rewrite: %s", candidate.Diff)
	}
	if strings.Contains(candidate.Diff, "```") {
		t.Errorf("diff should not retain markdown fences: %s", candidate.Diff)
	}
}

func TestLMModify_RejectsSignatureChange(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "```go\nfunc WithinBudget(spent, limit, fudge int) bool {\n\treturn spent <= limit+fudge\n}\n```"}

	candidate, ok, err := LMModify(context.Background(), fake, "", "go", []byte(sampleFile), entity, "")
	if err != nil {
		t.Fatalf("LMModify() error: %v", err)
	}
	if ok {
		t.Fatalf("expected rejection for a changed signature, got candidate: %+v", candidate)
	}
}

func TestLMModify_RejectsUnparsableResponse(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "func WithinBudget(spent, limit int) bool { this is not valid go"}

	_, ok, err := LMModify(context.Background(), fake, "", "go", []byte(sampleFile), entity, "")
	if err != nil {
		t.Fatalf("LMModify() error: %v", err)
	}
	if ok {
		t.Fatal("expected rejection for a response that fails to parse")
	}
}

func TestLMModify_RejectsWhitespaceOnlyChange(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "```go\nfunc WithinBudget(spent, limit int) bool {\n\n\tif   spent < limit {\n\t\treturn true\n\t}\n\n\treturn false\n}\n```"}

	_, ok, err := LMModify(context.Background(), fake, "", "go", []byte(sampleFile), entity, "")
	if err != nil {
		t.Fatalf("LMModify() error: %v", err)
	}
	if ok {
		t.Fatal("expected rejection for a whitespace-only rewrite")
	}
}

func TestLMRewrite_ProducesDiff(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "func WithinBudget(spent, limit int) bool {\n\treturn spent < limit || spent == limit\n}"}

	candidate, ok, err := LMRewrite(context.Background(), fake, "", "go", []byte(sampleFile), entity, "Reports whether spent stays within limit.", nil)
	if err != nil {
		t.Fatalf("LMRewrite() error: %v", err)
	}
	if !ok {
		t.Fatal("expected candidate to be accepted")
	}
	if candidate.Method != MethodLMRewrite {
		t.Errorf("Method = %q, want %q", candidate.Method, MethodLMRewrite)
	}
	if candidate.RawResponse != fake.response {
		t.Errorf("RawResponse = %q, want the raw model output", candidate.RawResponse)
	}
}

func TestLMRewrite_RejectsSignatureChange(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: "func WithinBudget(spent int) bool {\n\treturn spent < 100\n}"}

	_, ok, err := LMRewrite(context.Background(), fake, "", "go", []byte(sampleFile), entity, "", nil)
	if err != nil {
		t.Fatalf("LMRewrite() error: %v", err)
	}
	if ok {
		t.Fatal("expected rejection for a changed signature (dropped parameter)")
	}
}

func TestLMRewrite_RejectsByteIdenticalResponse(t *testing.T) {
	entity := firstEntity(t)
	fake := &fakeCompleter{response: entity.Source}

	_, ok, err := LMRewrite(context.Background(), fake, "", "go", []byte(sampleFile), entity, "", nil)
	if err != nil {
		t.Fatalf("LMRewrite() error: %v", err)
	}
	if ok {
		t.Fatal("expected rejection for a byte-identical rewrite")
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```go\nfunc f() {}\n```": "func f() {}",
		"func g() {}":             "func g() {}",
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
