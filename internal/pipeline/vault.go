package pipeline

import (
	"strconv"
	"strings"
)

// Vault tokens use Unicode Private Use Area delimiters so they never collide
// with author text and pass through the formula rewrite untouched.
const (
	tokenOpen  = "\uE010" // U+E010: start of a vault token
	tokenClose = "\uE011" // U+E011: end of a vault token
)

// Vault holds the verbatim code spans and fences lifted out of a document,
// indexed by order of first appearance. A Vault lives for one conversion.
type Vault struct {
	entries []string
}

// Len returns the number of protected entries.
func (v *Vault) Len() int {
	return len(v.entries)
}

// Entry returns the entry stored at index i.
func (v *Vault) Entry(i int) (string, bool) {
	if i < 0 || i >= len(v.entries) {
		return "", false
	}
	return v.entries[i], true
}

func (v *Vault) store(s string) string {
	v.entries = append(v.entries, s)
	return tokenOpen + strconv.Itoa(len(v.entries)-1) + tokenClose
}

// Protect replaces every fenced code block and inline code span with a vault
// token. Matching is leftmost and non-overlapping: at each position a fence
// (``` up to the next ```) is tried first, then an inline span (one backtick
// pair enclosing at least one byte and no newline or backtick).
//
// Stray token delimiters already present in the text are vaulted too, which
// keeps Restore(Protect(text)) == text for every input.
func Protect(text string) (string, *Vault) {
	v := &Vault{}
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if n := matchFence(text[i:]); n > 0 {
			b.WriteString(v.store(text[i : i+n]))
			i += n
			continue
		}
		if n := matchCodeSpan(text[i:]); n > 0 {
			b.WriteString(v.store(text[i : i+n]))
			i += n
			continue
		}
		if strings.HasPrefix(text[i:], tokenOpen) {
			b.WriteString(v.store(tokenOpen))
			i += len(tokenOpen)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String(), v
}

// matchFence returns the length of a fenced block starting at s, or 0.
// The shortest match wins, so the closing ``` is the first one after the
// opening run.
func matchFence(s string) int {
	if !strings.HasPrefix(s, "```") {
		return 0
	}
	end := strings.Index(s[3:], "```")
	if end < 0 {
		return 0
	}
	return 3 + end + 3
}

// matchCodeSpan returns the length of an inline code span starting at s, or 0.
func matchCodeSpan(s string) int {
	if len(s) < 3 || s[0] != '`' {
		return 0
	}
	for j := 1; j < len(s); j++ {
		switch s[j] {
		case '`':
			if j == 1 {
				return 0
			}
			return j + 1
		case '\n':
			return 0
		}
	}
	return 0
}

// Restore substitutes every vault token in text with its stored content.
// Tokens whose index is not in the vault resolve to the empty string.
// Malformed tokens are left as they are.
func (v *Vault) Restore(text string) string {
	if !strings.Contains(text, tokenOpen) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for {
		start := strings.Index(text, tokenOpen)
		if start < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])
		rest := text[start+len(tokenOpen):]

		idx, n, ok := parseTokenIndex(rest)
		if !ok {
			b.WriteString(tokenOpen)
			text = rest
			continue
		}
		if entry, found := v.Entry(idx); found {
			b.WriteString(entry)
		}
		text = rest[n:]
	}
	return b.String()
}

// parseTokenIndex reads "<digits>" followed by the closing delimiter and
// reports the index and the number of bytes consumed.
func parseTokenIndex(s string) (int, int, bool) {
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 || !strings.HasPrefix(s[digits:], tokenClose) {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(s[:digits])
	if err != nil {
		// Out of int range: cannot be a stored index.
		return -1, digits + len(tokenClose), true
	}
	return idx, digits + len(tokenClose), true
}
