package buggen

import (
	"regexp"
	"strings"
)

// globRegexp compiles a "**"-aware glob (as profile source/exclude globs
// use) into an anchored regexp matching forward-slash relative paths.
func globRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/]*")
			i++
		case pattern[i] == '?':
			b.WriteString("[^/]")
			i++
		case strings.ContainsRune(`.+()^$|\{}[]`, rune(pattern[i])):
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		default:
			b.WriteByte(pattern[i])
			i++
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// matchesAny reports whether relPath (forward-slash separated) matches any
// of globs.
func matchesAny(relPath string, globs []string) bool {
	for _, g := range globs {
		if globRegexp(g).MatchString(relPath) {
			return true
		}
	}
	return false
}
