package validate

import (
	"sort"

	"github.com/swesmith-go/synthesis/internal/testlog"
)

// Classify compares the gold report G against a candidate report C and
// buckets every test named in either, per the promotion table: only a
// gold pass matters for F2P/P2P, everything else (pre-existing failure,
// a test missing from one side) is diagnostic-only or ignored entirely.
func Classify(gold, candidate testlog.Report) Report {
	names := map[string]bool{}
	for name := range gold {
		names[name] = true
	}
	for name := range candidate {
		names[name] = true
	}

	var r Report
	for name := range names {
		g := outcomeOrMissing(gold, name).Normalize()
		c := outcomeOrMissing(candidate, name).Normalize()

		switch {
		case g == testlog.Missing || c == testlog.Missing || c == testlog.Skip:
			// gold pass / candidate missing-or-skip, or either side never
			// ran at all: not enough signal either way.
		case g != testlog.Pass:
			// pre-existing brokenness: only worth recording for diagnostics.
			if c == testlog.Pass {
				r.PassToFail = append(r.PassToFail, name)
			} else {
				r.FailToFail = append(r.FailToFail, name)
			}
		case c == testlog.Pass:
			r.PassToPass = append(r.PassToPass, name)
		case c == testlog.Fail || c == testlog.Error:
			r.FailToPass = append(r.FailToPass, name)
		}
	}

	sort.Strings(r.FailToPass)
	sort.Strings(r.PassToPass)
	sort.Strings(r.FailToFail)
	sort.Strings(r.PassToFail)
	return r
}

func outcomeOrMissing(report testlog.Report, name string) testlog.Outcome {
	if o, ok := report[name]; ok {
		return o
	}
	return testlog.Missing
}
