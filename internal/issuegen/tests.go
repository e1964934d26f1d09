package issuegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/swesmith-go/synthesis/internal/lang"
)

// maxTestSourceChars bounds how much of a failing test's source (or whole
// file, when the test can't be isolated) gets embedded in a problem
// statement.
const maxTestSourceChars = 5000

// splitterForLanguage picks separator boundaries so truncation falls on a
// function/class edge instead of mid-statement, the same recursive
// character-splitting approach the document-ingestion pipeline this was
// grounded on uses for chunking source files before embedding.
func splitterForLanguage(language string) textsplitter.TextSplitter {
	var seps []string
	switch language {
	case "python":
		seps = []string{"\nclass ", "\ndef ", "\n\t", "\n", " "}
	case "go", "javascript", "typescript", "java", "c", "cpp":
		seps = []string{"\nfunc ", "\nfunction ", "\nclass ", "\n\n", "\n", " ", ""}
	default:
		seps = []string{"\n\n", "\n", " ", ""}
	}
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxTestSourceChars),
		textsplitter.WithChunkOverlap(0),
		textsplitter.WithSeparators(seps),
	)
}

// testInfoTemplate mirrors the original system's TEST_INFO block: test
// source, then the captured test output, so a reader (LLM or human) can
// reconstruct what's failing without being told what the fix is.
const testInfoTemplate = `Several tests in the codebase are failing.

**Failing test:** %s

**Test source**
%s

**Test output**
%s
`

// GenerateTests builds a problem statement from one FAIL_TO_PASS test's own
// source (extracted via the language adapter, not an LLM) plus its captured
// output. Selection among multiple FAIL_TO_PASS entries is seeded from the
// instance_id for determinism.
func GenerateTests(in Input) (string, error) {
	if len(in.Instance.FailToPass) == 0 {
		return "", fmt.Errorf("issuegen: tests mode requires at least one FAIL_TO_PASS entry")
	}
	test := in.Instance.FailToPass[pick(in.Instance.InstanceID, len(in.Instance.FailToPass))]

	src, err := extractTestSource(in.WorktreePath, in.Language, test)
	if err != nil {
		src = "(test source unavailable)"
	}

	output := in.TestOutput
	if output == "" {
		output = "(test output unavailable)"
	}

	return fmt.Sprintf(testInfoTemplate, test, src, output), nil
}

// extractTestSource locates the source of a single failing test. Pytest-
// style names come as "path/to/test_file.py::TestClass::test_name" or
// "path/to/test_file.py::test_name"; anything else (a bare JS/TS file
// path, as vitest/jest report it) is treated as a whole-file reference.
func extractTestSource(worktreePath, language, testName string) (string, error) {
	parts := strings.Split(testName, "::")
	filePath := filepath.Join(worktreePath, parts[0])

	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read test file %s: %w", filePath, err)
	}

	if len(parts) == 1 {
		// No "::" qualifier: either a bare function name (rare) or a
		// whole JS/TS test file — return the file, truncated at a
		// syntactic boundary.
		return truncate(string(content), language), nil
	}

	funcName := parts[len(parts)-1]
	if i := strings.Index(funcName, "["); i >= 0 {
		funcName = funcName[:i] // strip parametrize suffix
	}

	adapter, err := lang.For(language)
	if err != nil {
		return truncate(string(content), language), nil
	}
	entities, err := adapter.EntitiesOf(context.Background(), content, filePath)
	if err != nil {
		return truncate(string(content), language), nil
	}
	for _, e := range entities {
		if e.Name == funcName || strings.HasSuffix(e.Name, "."+funcName) {
			return e.Source, nil
		}
	}
	return truncate(string(content), language), nil
}

// truncate returns the first syntactically-bounded chunk of s under
// maxTestSourceChars, falling back to the raw prefix if the splitter
// fails or produces nothing. An s no longer than maxTestSourceChars is
// returned whole without running the splitter.
func truncate(s, language string) string {
	if len(s) <= maxTestSourceChars {
		return s
	}
	chunks, err := splitterForLanguage(language).SplitText(s)
	if err != nil || len(chunks) == 0 {
		return s[:maxTestSourceChars] + "\n\n... (truncated) ..."
	}
	return chunks[0] + "\n\n... (truncated) ..."
}
