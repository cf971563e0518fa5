package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		matched bool
	}{
		{"en-IN", "en-IN", true},
		{"hi-IN", "hi-IN", true},
		{"hi", "hi-IN", true},
		{"en-US", "en-IN", true},
		{"fr-FR", DefaultLanguage, false},
		{"mr-IN", DefaultLanguage, false},
		{"ta-IN", DefaultLanguage, false},
		{"bn-IN", DefaultLanguage, false},
		{"ur", DefaultLanguage, false},
		{"ne", DefaultLanguage, false},
		{"", DefaultLanguage, false},
		{"not a tag!", DefaultLanguage, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := MatchLocale(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, ok)
		})
	}
}

func TestNormalizeAndBaseLanguage(t *testing.T) {
	assert.Equal(t, "hi-IN", NormalizeLanguage(" hi-in "))
	assert.Equal(t, "en-IN", NormalizeLanguage("EN-in"))
	assert.Equal(t, "hi", BaseLanguage("hi-IN"))
	assert.Equal(t, "ta", BaseLanguage("ta-IN"))

	assert.True(t, IsDefaultLanguage(""))
	assert.True(t, IsDefaultLanguage("en-in"))
	assert.True(t, IsDefaultLanguage("en-US"))
	assert.True(t, IsDefaultLanguage("en"))
	assert.False(t, IsDefaultLanguage("hi-IN"))
	assert.False(t, IsDefaultLanguage("ta-IN"))
}
