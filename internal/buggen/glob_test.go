package buggen

import "testing"

func TestMatchesAny(t *testing.T) {
	cases := []struct {
		path  string
		globs []string
		want  bool
	}{
		{"django/core/handlers.py", []string{"django/**/*.py"}, true},
		{"django/core/tests/test_handlers.py", []string{"django/**/*.py"}, true},
		{"docs/readme.md", []string{"django/**/*.py"}, false},
		{"django/core/tests/test_handlers.py", []string{"django/**/tests/**"}, true},
		{"widgets/core.go", []string{"*.go"}, false},
		{"core.go", []string{"*.go"}, true},
	}
	for _, c := range cases {
		if got := matchesAny(c.path, c.globs); got != c.want {
			t.Errorf("matchesAny(%q, %v) = %v, want %v", c.path, c.globs, got, c.want)
		}
	}
}
