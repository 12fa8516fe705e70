// Package words splits space-separated text into words and compares word
// sets. Every returned word is a substring of its input.
package words

import (
	"sort"
	"strings"
)

const separator = " "

// Difference holds the words that occur in only one of two sentences.
type Difference struct {
	FirstOnly  []string `json:"first_only" yaml:"first_only"`
	SecondOnly []string `json:"second_only" yaml:"second_only"`
}

// FindDifference splits both sentences on single spaces and returns the
// words unique to each side, sorted.
func FindDifference(first, second string) Difference {
	a := set(first)
	b := set(second)

	var diff Difference
	for w := range a {
		if _, ok := b[w]; !ok {
			diff.FirstOnly = append(diff.FirstOnly, w)
		}
	}
	for w := range b {
		if _, ok := a[w]; !ok {
			diff.SecondOnly = append(diff.SecondOnly, w)
		}
	}
	sort.Strings(diff.FirstOnly)
	sort.Strings(diff.SecondOnly)
	return diff
}

// UniqueWords returns the distinct space-separated words of s in sorted
// order. Consecutive spaces yield the empty word.
func UniqueWords(s string) []string {
	seen := set(s)
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func set(s string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, w := range strings.Split(s, separator) {
		m[w] = struct{}{}
	}
	return m
}

// Iterator walks a string one space-delimited word at a time.
type Iterator struct {
	s   string
	pos int
}

// NewIterator returns an Iterator positioned at the start of s.
func NewIterator(s string) *Iterator {
	return &Iterator{s: s}
}

// NextWord returns the text up to the next space and moves past that
// space. Runs of spaces produce empty words. It returns false once the
// remaining text is empty, so a trailing space does not produce a final
// empty word.
func (it *Iterator) NextWord() (string, bool) {
	if it.pos >= len(it.s) {
		return "", false
	}
	rest := it.s[it.pos:]
	end := strings.Index(rest, separator)
	if end < 0 {
		end = len(rest)
	}
	it.pos += end + len(separator)
	return rest[:end], true
}

// Words drains an iterator over s.
func Words(s string) []string {
	var out []string
	it := NewIterator(s)
	for w, ok := it.NextWord(); ok; w, ok = it.NextWord() {
		out = append(out, w)
	}
	return out
}

// UniqueSorted is UniqueWords over a list of words rather than a sentence.
func UniqueSorted(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
