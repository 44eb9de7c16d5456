// Package text provides string folding and slug helpers for post URLs.
package text

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// chainPool avoids per-call allocations.
// We create a fresh NFD → strip combining marks (Mn) → NFC pipeline per borrower.
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)), // remove combining diacritics
			norm.NFC,
		)
	},
}

// Fold lowercases and strips *combining* diacritics via NFD→remove(Mn)→NFC.
// It does not guarantee ASCII; characters like "ø" or "ß" remain.
// Safe for user input; returns "" for blank/whitespace-only strings.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	// ASCII fast path: if already ASCII and has no A..Z, we can skip ToLower+transform.
	if isASCIIAndLower(s) {
		return s
	}

	s = strings.ToLower(s)

	t := chainPool.Get().(transform.Transformer)
	defer func() {
		t.Reset()
		chainPool.Put(t)
	}()

	out, _, _ := transform.String(t, s)
	return out
}

// Slugify folds s and converts it into a URL-safe slug: runs of
// non-alphanumeric characters collapse to a single hyphen, leading and
// trailing hyphens are trimmed. Returns "" if nothing survives.
func Slugify(s string) string {
	folded := Fold(s)
	if folded == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(folded))
	prevHyphen := true // suppress a leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// isASCIIAndLower reports whether s contains only ASCII bytes and no A..Z.
// (Digits, spaces, punctuation are fine.)
func isASCIIAndLower(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x80 {
			return false
		}
		if b >= 'A' && b <= 'Z' {
			return false
		}
	}
	return true
}
