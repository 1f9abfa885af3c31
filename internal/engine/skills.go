package engine

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SkillSet holds canonical skill names.
type SkillSet map[string]struct{}

func (s SkillSet) Has(canonical string) bool {
	_, ok := s[canonical]
	return ok
}

// Sorted returns the canonical names in deterministic order.
func (s SkillSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkillExtractor recognizes vocabulary terms in free text. Matching is
// case-insensitive and requires whole-token boundaries, so "go" is never
// found inside "google".
type SkillExtractor struct {
	vocab Vocabulary
	// index maps every lowercase variant to its canonical name.
	index map[string]string
}

func NewSkillExtractor(vocab Vocabulary) *SkillExtractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}

	index := make(map[string]string)
	for canonical, variants := range vocab {
		index[strings.ToLower(canonical)] = canonical
		for _, variant := range variants {
			index[strings.ToLower(variant)] = canonical
		}
	}

	return &SkillExtractor{vocab: vocab, index: index}
}

// Extract returns the set of canonical skills found in the text. Empty text
// yields an empty set; absence of matches is not an error.
func (e *SkillExtractor) Extract(text string) SkillSet {
	found := make(SkillSet)
	if strings.TrimSpace(text) == "" {
		return found
	}

	lowered := strings.ToLower(text)
	for variant, canonical := range e.index {
		if found.Has(canonical) {
			continue
		}
		if containsToken(lowered, variant) {
			found[canonical] = struct{}{}
		}
	}

	return found
}

// Canonical maps a raw skill spelling to its canonical name. Unknown terms
// are returned trimmed but otherwise unchanged, so job postings may require
// skills outside the vocabulary.
func (e *SkillExtractor) Canonical(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := e.index[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// containsToken reports whether needle occurs in haystack on whole-token
// boundaries. A boundary rune is anything that is not a letter or digit.
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}

	for start := 0; start <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start

		if boundedAt(haystack, idx, len(needle)) {
			return true
		}
		start = idx + 1
	}

	return false
}

func boundedAt(s string, idx, length int) bool {
	if idx > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:idx])
		if isWordRune(r) {
			return false
		}
	}
	if end := idx + length; end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
