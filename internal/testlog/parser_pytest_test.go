package testlog

import "testing"

func TestPytestParser_Parse(t *testing.T) {
	output := `
tests/test_models.py::test_save_draft PASSED
tests/test_models.py::test_publish FAILED
tests/test_models.py::test_legacy[param0] XFAIL
tests/test_models.py::test_unstable ERROR
tests/test_models.py::test_slow SKIPPED
`
	report, err := PytestParser{}.Parse(output)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := map[string]Outcome{
		"tests/test_models.py::test_save_draft":      Pass,
		"tests/test_models.py::test_publish":         Fail,
		"tests/test_models.py::test_legacy[param0]":  Xfail,
		"tests/test_models.py::test_unstable":        Error,
		"tests/test_models.py::test_slow":            Skip,
	}
	for name, outcome := range want {
		if report[name] != outcome {
			t.Errorf("report[%q] = %q, want %q", name, report[name], outcome)
		}
	}
	if len(report) != len(want) {
		t.Errorf("got %d entries, want %d", len(report), len(want))
	}
}
