package testlog

import (
	"regexp"
	"strings"
)

// PytestParser parses pytest's default short-form result lines, e.g.
//
//	tests/test_models.py::test_save_draft PASSED
//	tests/test_models.py::test_save_draft[param0] FAILED
//	tests/test_models.py::test_legacy XFAIL
var pytestLineRE = regexp.MustCompile(`^(\S+::\S+)\s+(PASSED|FAILED|ERROR|SKIPPED|XFAIL|XPASS)\b`)

type PytestParser struct{}

func (PytestParser) Parse(output string) (Report, error) {
	report := make(Report)
	for _, line := range strings.Split(output, "\n") {
		m := pytestLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		name, status := m[1], m[2]
		switch status {
		case "PASSED", "XPASS":
			report[name] = Pass
		case "FAILED":
			report[name] = Fail
		case "ERROR":
			report[name] = Error
		case "SKIPPED":
			report[name] = Skip
		case "XFAIL":
			report[name] = Xfail
		}
	}
	return report, nil
}
