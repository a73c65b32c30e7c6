package heuristics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluttervet/fluttervet/internal/domain/heuristics"
)

func TestExtractKeywords(t *testing.T) {
	got := heuristics.ExtractKeywords("The method 'fetchUser' isn't defined for the type 'UserRepository'")

	assert.Equal(t, []string{"method", "fetchuser", "isn", "defined", "type", "userrepository"}, got)
}

func TestExtractKeywords_DropsShortAndStopWords(t *testing.T) {
	got := heuristics.ExtractKeywords("a an to the for of is null")

	// Everything is either <= 2 runes or a stop word except "null".
	assert.Equal(t, []string{"null"}, got)
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	got := heuristics.ExtractKeywords("widget Widget WIDGET widget")

	assert.Equal(t, []string{"widget"}, got)
}

func TestExtractKeywords_EmptyMessage(t *testing.T) {
	assert.Empty(t, heuristics.ExtractKeywords(""))
	assert.Empty(t, heuristics.ExtractKeywords("  .,;:  "))
}

func TestLooksErrorLike(t *testing.T) {
	assert.True(t, heuristics.LooksErrorLike("throw StateError('boom');"))
	assert.True(t, heuristics.LooksErrorLike("} catch (e) {"))
	assert.True(t, heuristics.LooksErrorLike("// FIXME: this FAILS on empty input"))
	assert.False(t, heuristics.LooksErrorLike("final count = items.length;"))
	assert.False(t, heuristics.LooksErrorLike(""))
}
