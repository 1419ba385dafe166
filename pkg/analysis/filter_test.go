package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/commitclass/pkg/analysis"
)

func TestDetectLanguage_CanonicalCasing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "C", analysis.DetectLanguage("src/main.c", nil))
	assert.Equal(t, "Go", analysis.DetectLanguage("cmd/main.go", nil))
}

func TestHasAnnotations_IgnoresCase(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"C", "c", "C++", "Cuda", "Objective-C", "Objective-C++"} {
		assert.True(t, analysis.HasAnnotations(lang), lang)
	}

	for _, lang := range []string{"Go", "Python", ""} {
		assert.False(t, analysis.HasAnnotations(lang), lang)
	}
}
