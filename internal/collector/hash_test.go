package collector

import "testing"

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash([]byte("diff --git a/foo.go b/foo.go\n"))
	b := ContentHash([]byte("diff --git a/foo.go b/foo.go\n"))
	if a != b {
		t.Errorf("ContentHash not deterministic: %q != %q", a, b)
	}
	if len(a) != hashLength {
		t.Errorf("len(ContentHash()) = %d, want %d", len(a), hashLength)
	}
}

func TestContentHash_DiffersForDifferentInput(t *testing.T) {
	a := ContentHash([]byte("one"))
	b := ContentHash([]byte("two"))
	if a == b {
		t.Errorf("ContentHash collided for distinct inputs: %q", a)
	}
}

func TestContentHash_OnlyAlnumLower(t *testing.T) {
	h := ContentHash([]byte("some patch content"))
	for _, r := range h {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Errorf("ContentHash() = %q contains non lowercase-alnum rune %q", h, r)
		}
	}
}
