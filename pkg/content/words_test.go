package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "Hello, world!", []string{"Hello", "world"}},
		{"apostrophe", "don't stop", []string{"don't", "stop"}},
		{"curly apostrophe", "it’s fine", []string{"it’s", "fine"}},
		{"hyphen", "state-of-the-art work", []string{"state-of-the-art", "work"}},
		{"trailing joiners", "'quoted' - dash-", []string{"quoted", "dash"}},
		{"numbers", "SOC 2 in 2024", []string{"SOC", "2", "in", "2024"}},
		{"unicode", "café naïve Zürich", []string{"café", "naïve", "Zürich"}},
		{"punctuation only", "... -- !!", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("  one\ttwo\nthree  "))
	assert.Equal(t, 200, WordCount(strings.Repeat("word ", 200)))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello world it's", Normalize("  Hello,\n WORLD -- it's "))
}

func TestSignature(t *testing.T) {
	// 'a' = 97
	assert.Equal(t, "00000061", Signature("a"))
	// 97*31 + 98
	assert.Equal(t, "00000c21", Signature("ab"))

	assert.Len(t, Signature(strings.Repeat("long body text ", 100)), 8)
	assert.Equal(t, Signature("Same   words, here."), Signature("same words here"))
	assert.NotEqual(t, Signature("one two"), Signature("two one"))
	assert.Equal(t, "00000000", Signature(""))
}
