package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindDifference(t *testing.T) {
	first := "I hate the surf and the sand."
	second := "I love the surf and the sand."
	third := "I love the snow and the sand."

	assert.Equal(t, []string{"hate", "surf"}, FindDifference(first, third).FirstOnly)
	assert.Equal(t, []string{"surf"}, FindDifference(third, second).SecondOnly)

	same := FindDifference("a b", "b a")
	assert.Empty(t, same.FirstOnly)
	assert.Empty(t, same.SecondOnly)
}

func TestUniqueWords(t *testing.T) {
	got := UniqueWords("the hound and the fox liked the son of the fox")
	assert.Equal(t, []string{"and", "fox", "hound", "liked", "of", "son", "the"}, got)

	assert.Equal(t, []string{""}, UniqueWords(""))
	assert.Equal(t, []string{"", "a", "b"}, UniqueWords("a  b"))
}

func TestIterator(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "word", []string{"word"}},
		{"trailing space", "a b ", []string{"a", "b"}},
		{"double space", "a  b", []string{"a", "", "b"}},
		{"leading space", " a", []string{"", "a"}},
		{"verse", "Twas brillig, and the slithy toves", []string{"Twas", "brillig,", "and", "the", "slithy", "toves"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestIteratorExhausted(t *testing.T) {
	it := NewIterator("x")
	w, ok := it.NextWord()
	assert.True(t, ok)
	assert.Equal(t, "x", w)

	for i := 0; i < 3; i++ {
		_, ok = it.NextWord()
		assert.False(t, ok)
	}
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueSorted([]string{"c", "a", "b", "a"}))
	assert.Empty(t, UniqueSorted(nil))
}
