package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Basics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase and trim", "  The Supreme COURT  ", "supreme court"},
		{"punctuation stripped", "freedom, of speech!", "freedom of speech"},
		{"articles removed", "the bill of rights", "bill of right"},
		{"whitespace collapsed", "civil   rights   movement", "civil right movement"},
		{"hyphens become spaces", "commander-in-chief", "commander in chief"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_NumberFolding(t *testing.T) {
	// Ordinal words and digit forms land on the same canonical token.
	assert.Equal(t, Normalize("3rd amendment"), Normalize("third amendment"))
	assert.Equal(t, "3rd amendment", Normalize("Third Amendment"))
	assert.Equal(t, Normalize("14th"), Normalize("fourteenth"))

	// Cardinals fold to digits.
	assert.Equal(t, "3 branche", Normalize("three branches"))
	assert.Equal(t, Normalize("nine justices"), Normalize("9 justices"))
}

func TestNormalize_Aliases(t *testing.T) {
	assert.Equal(t, Normalize("Trump"), Normalize("Donald Trump"))
	assert.Equal(t, Normalize("Washington"), Normalize("George Washington"))
	assert.Equal(t, Normalize("Dr. King"), Normalize("Doctor King"))
	assert.Equal(t, Normalize("USA"), Normalize("United States"))
	assert.Equal(t, Normalize("the United States of America"), Normalize("usa"))
	assert.Equal(t, Normalize("SCOTUS"), Normalize("Supreme Court"))
}

func TestNormalize_PluralFold(t *testing.T) {
	assert.Equal(t, "right", Normalize("rights"))
	assert.Equal(t, Normalize("amendments"), Normalize("amendment"))
	// Double-s endings stay put.
	assert.Equal(t, "congress", Normalize("Congress"))
}

func TestNormalize_HyphenatedCompoundsFold(t *testing.T) {
	// Hyphenated forms land on the same output as their spaced forms.
	assert.Equal(t, Normalize("twenty seven"), Normalize("twenty-seven"))
	assert.Equal(t, "10 item", Normalize("ten-items"))
	assert.Equal(t, "3rd degree", Normalize("third-degree"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"The First Amendment protects freedom of speech!",
		"Donald Trump",
		"checks-and-balances",
		"twenty-seven amendments",
		"ten-items",
		"third-degree",
		"United States of America",
		"  three   branches  of   government ",
		"Misses Smith's classes",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}
