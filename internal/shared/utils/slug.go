package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Letters that carry no combining mark, so NFKD leaves them alone
var asciiFallbacks = map[rune]string{
	'đ': "d", 'Đ': "D",
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'ß': "ss",
	'æ': "ae", 'Æ': "AE",
}

// Slugify derives a URL-safe identifier from s.
//
//	"Apollo Mission"      → "apollo-mission"
//	"  Nguyễn Nhật Ánh! " → "nguyen-nhat-anh"
//	"v2.0 -- release"     → "v2-0-release"
//
// Diacritics are folded to ASCII, every run of whitespace or punctuation
// becomes a single hyphen and leading/trailing hyphens are trimmed.
func Slugify(s string) string {
	ascii := RemoveDiacritics(s)
	lower := strings.ToLower(ascii)

	var b strings.Builder
	b.Grow(len(lower))

	pendingHyphen := false
	for _, r := range lower {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// RemoveDiacritics folds accented letters to their base letter ("Ánh" → "Anh")
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	if !strings.ContainsFunc(folded, func(r rune) bool { return r > unicode.MaxASCII }) {
		return folded
	}

	var b strings.Builder
	for _, r := range folded {
		if repl, ok := asciiFallbacks[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RandomSlug returns a random alphanumeric token of length n.
// Uniqueness is not guaranteed.
func RandomSlug(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("slug length must be positive, got %d", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}
	for i := range b {
		b[i] = slugCharset[int(b[i])%len(slugCharset)]
	}
	return string(b), nil
}

// IsSlug reports whether s is already in slug form
func IsSlug(s string) bool {
	return s != "" && Slugify(s) == s
}
