package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("stdio.h", "stdio.h"))
	assert.Equal(t, 1, Levenshtein("strng.h", "string.h"))
	assert.Equal(t, 2, Levenshtein("stido.h", "stdio.h"))
	assert.Equal(t, 5, Levenshtein("", "ab.cd"))
	assert.Equal(t, 3, Levenshtein("abc", ""))
}

func TestSuggestHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		suggestion string
		ok         bool
	}{
		{"exact match is not a typo", "stdio.h", "", false},
		{"single edit", "stido.h", "stdio.h", true},
		{"missing letter", "strng.h", "string.h", true},
		{"too far from anything", "foobar.h", "", false},
		{"project header style name", "my_module.h", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SuggestHeader(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.suggestion, got)
		})
	}
}

// 距离并列时取白名单里靠前的那个
func TestSuggestHeaderTieBreak(t *testing.T) {
	// "xctype.h" 到 ctype.h 和 wctype.h 的距离都是 1
	got, ok := SuggestHeader("xctype.h")
	assert.True(t, ok)
	assert.Equal(t, "ctype.h", got)
}
