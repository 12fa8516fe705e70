package pattern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steps(tr Trace) [][2]string {
	out := make([][2]string, len(tr))
	for i, s := range tr {
		out[i] = [2]string{s.Token.String(), s.Matched}
	}
	return out
}

func TestMatchStopsAtFirstFailure(t *testing.T) {
	m := MustCompile("abc(d|e|f).")

	tr := m.Match("abcge")
	assert.Equal(t, [][2]string{{`RawText("abc")`, "abc"}}, steps(tr))
	assert.Equal(t, 1, m.BestMatchLength())
	assert.False(t, m.IsFullMatch(tr))
}

func TestMatchWildcardTakesWholeCodepoint(t *testing.T) {
	m := MustCompile("abc(d|e|f).")

	tr := m.Match("abcd💪")
	assert.Equal(t, [][2]string{
		{`RawText("abc")`, "abc"},
		{`OneOfText(["d", "e", "f"])`, "d"},
		{"WildCard", "💪"},
	}, steps(tr))
	assert.Equal(t, 3, m.BestMatchLength())
	assert.True(t, m.IsFullMatch(tr))
	assert.Equal(t, len("abcd💪"), tr.End())
}

func TestMatchLongestAlternative(t *testing.T) {
	m := MustCompile("(ab|a)")
	tr := m.Match("abx")
	require.Len(t, tr, 1)
	assert.Equal(t, "ab", tr[0].Matched)

	m = MustCompile("(a|ab)")
	tr = m.Match("abx")
	require.Len(t, tr, 1)
	assert.Equal(t, "ab", tr[0].Matched)
}

func TestMatchTieKeepsFirstAlternative(t *testing.T) {
	m := MustCompile("(ab|ab|a)")
	tr := m.Match("ab")
	require.Len(t, tr, 1)
	assert.Equal(t, "ab", tr[0].Matched)

	m = MustCompile("(b|a|c)")
	tr = m.Match("a")
	require.Len(t, tr, 1)
	assert.Equal(t, "a", tr[0].Matched)
}

func TestMatchNoBacktracking(t *testing.T) {
	// (ab|a) commits to "ab", so "b" cannot match afterwards.
	m := MustCompile("(ab|a)b")
	tr := m.Match("ab")
	assert.Len(t, tr, 1)
	assert.False(t, m.IsFullMatch(tr))
}

func TestMatchEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		matched []string
	}{
		{"empty pattern", "", "anything", []string{}},
		{"empty input", "abc", "", []string{}},
		{"wildcard on empty", ".", "", []string{}},
		{"literal longer than input", "abcd", "abc", []string{}},
		{"trailing input ignored", "ab", "abcdef", []string{"ab"}},
		{"wildcard multibyte", "..", "é✓", []string{"é", "✓"}},
		{"group then literal", "(x|y)z", "yz", []string{"y", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustCompile(tt.pattern)
			tr := m.Match(tt.input)
			got := []string{}
			for _, s := range tr {
				got = append(got, s.Matched)
			}
			assert.Equal(t, tt.matched, got)
		})
	}
}

func TestMatchOffsets(t *testing.T) {
	m := MustCompile("a.(bc|b)d")
	tr := m.Match("a💪bcd")
	require.Len(t, tr, 4)
	for _, s := range tr {
		assert.Equal(t, s.Matched, "a💪bcd"[s.Offset:s.Offset+len(s.Matched)])
	}
}

func TestBestMatchLengthIsMonotonic(t *testing.T) {
	m := MustCompile("abc(d|e|f).")
	assert.Equal(t, 0, m.BestMatchLength())

	m.Match("abcd!")
	assert.Equal(t, 3, m.BestMatchLength())

	m.Match("x")
	assert.Equal(t, 3, m.BestMatchLength())

	other := MustCompile("abc(d|e|f).")
	assert.Equal(t, 0, other.BestMatchLength(), "counters are per matcher")
}

func TestMatchConcurrent(t *testing.T) {
	m := MustCompile("a.c(x|y)")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i == 17 {
				m.Match("abcy")
				return
			}
			m.Match("ab")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, m.BestMatchLength())
}

func TestLargeGroupMatch(t *testing.T) {
	m := MustCompile("(one|two|three|four|five|six|seven|eight|nine|nineteen)!")

	tr := m.Match("nineteen!")
	require.Len(t, tr, 2)
	assert.Equal(t, "nineteen", tr[0].Matched)

	tr = m.Match("zero!")
	assert.Empty(t, tr)

	// "seven" occurs in the window but not as a prefix.
	tr = m.Match("xseven!")
	assert.Empty(t, tr)
}

func ExampleMatcher_Match() {
	m := MustCompile("abc(d|e|f).")
	for _, s := range m.Match("abce?") {
		fmt.Printf("%s %q\n", s.Token, s.Matched)
	}
	fmt.Println(m.BestMatchLength())
	// Output:
	// RawText("abc") "abc"
	// OneOfText(["d", "e", "f"]) "e"
	// WildCard "?"
	// 3
}

func ExampleCompile() {
	_, err := Compile("abc(d|e|f.")
	fmt.Println(err)
	// Output:
	// pattern: unterminated group at offset 3 in "abc(d|e|f."
}
