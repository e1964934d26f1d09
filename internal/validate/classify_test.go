package validate

import (
	"reflect"
	"testing"

	"github.com/swesmith-go/synthesis/internal/testlog"
)

func TestClassify_BasicPromotionTable(t *testing.T) {
	gold := testlog.Report{
		"test_a": testlog.Pass,
		"test_b": testlog.Pass,
		"test_c": testlog.Fail,
		"test_d": testlog.Pass,
	}
	candidate := testlog.Report{
		"test_a": testlog.Fail,  // F2P
		"test_b": testlog.Pass,  // P2P
		"test_c": testlog.Fail,  // pre-existing failure, F2F
		"test_d": testlog.Skip,  // ignored
	}

	r := Classify(gold, candidate)
	if !reflect.DeepEqual(r.FailToPass, []string{"test_a"}) {
		t.Errorf("FailToPass = %v, want [test_a]", r.FailToPass)
	}
	if !reflect.DeepEqual(r.PassToPass, []string{"test_b"}) {
		t.Errorf("PassToPass = %v, want [test_b]", r.PassToPass)
	}
	if !reflect.DeepEqual(r.FailToFail, []string{"test_c"}) {
		t.Errorf("FailToFail = %v, want [test_c]", r.FailToFail)
	}
	if len(r.PassToFail) != 0 {
		t.Errorf("PassToFail = %v, want none", r.PassToFail)
	}
}

func TestClassify_XfailCountsAsPass(t *testing.T) {
	gold := testlog.Report{"t": testlog.Pass}
	candidate := testlog.Report{"t": testlog.Xfail}

	r := Classify(gold, candidate)
	if len(r.PassToPass) != 1 {
		t.Errorf("expected xfail to classify as P2P, got %+v", r)
	}
}

func TestClassify_MissingFromEitherSideIgnored(t *testing.T) {
	gold := testlog.Report{"only_in_gold": testlog.Pass}
	candidate := testlog.Report{"only_in_candidate": testlog.Fail}

	r := Classify(gold, candidate)
	if len(r.FailToPass)+len(r.PassToPass)+len(r.FailToFail)+len(r.PassToFail) != 0 {
		t.Errorf("expected nothing classified, got %+v", r)
	}
}

func TestClassify_PreExistingFailureFixedByCandidate(t *testing.T) {
	gold := testlog.Report{"t": testlog.Fail}
	candidate := testlog.Report{"t": testlog.Pass}

	r := Classify(gold, candidate)
	if !reflect.DeepEqual(r.PassToFail, []string{"t"}) {
		t.Errorf("PassToFail = %v, want [t]", r.PassToFail)
	}
}

func TestReport_Promoted(t *testing.T) {
	cases := []struct {
		r    Report
		want bool
	}{
		{Report{FailToPass: []string{"a"}, PassToPass: []string{"b"}}, true},
		{Report{FailToPass: []string{"a"}}, false},
		{Report{PassToPass: []string{"b"}}, false},
		{Report{}, false},
	}
	for _, c := range cases {
		if got := c.r.Promoted(); got != c.want {
			t.Errorf("Promoted(%+v) = %v, want %v", c.r, got, c.want)
		}
	}
}
