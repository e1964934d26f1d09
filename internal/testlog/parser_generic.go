package testlog

import (
	"regexp"
	"strings"
)

// GenericParser handles repositories whose test runner doesn't match a
// dedicated parser: it scans for "<status>: <name>" or "<name> ... <status>"
// lines using a loose, case-insensitive vocabulary. Profiles fall back to
// this when parse_log has no language-specific match.
type GenericParser struct{}

var genericLineRE = regexp.MustCompile(`(?i)^(ok|pass(?:ed)?|fail(?:ed)?|error|skip(?:ped)?)\s*[:\-]\s*(.+)$`)

func (GenericParser) Parse(output string) (Report, error) {
	report := make(Report)
	for _, line := range strings.Split(output, "\n") {
		m := genericLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		status, name := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		switch {
		case status == "ok" || strings.HasPrefix(status, "pass"):
			report[name] = Pass
		case strings.HasPrefix(status, "fail"):
			report[name] = Fail
		case status == "error":
			report[name] = Error
		case strings.HasPrefix(status, "skip"):
			report[name] = Skip
		}
	}
	return report, nil
}
