package testlog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VitestParser parses the JSON reporter's `--reporter=json` output: a
// single JSON document with a testResults array of per-file suites, each
// holding per-test assertionResults.
type VitestParser struct{}

type vitestReport struct {
	TestResults []vitestSuite `json:"testResults"`
}

type vitestSuite struct {
	AssertionResults []vitestAssertion `json:"assertionResults"`
}

type vitestAssertion struct {
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

func (VitestParser) Parse(output string) (Report, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, fmt.Errorf("testlog: vitest output has no JSON payload")
	}
	var parsed vitestReport
	if err := json.Unmarshal([]byte(output[start:]), &parsed); err != nil {
		return nil, fmt.Errorf("testlog: parse vitest JSON: %w", err)
	}

	report := make(Report)
	for _, suite := range parsed.TestResults {
		for _, a := range suite.AssertionResults {
			switch a.Status {
			case "passed":
				report[a.FullName] = Pass
			case "failed":
				report[a.FullName] = Fail
			case "pending", "skipped", "todo":
				report[a.FullName] = Skip
			default:
				report[a.FullName] = Error
			}
		}
	}
	return report, nil
}
