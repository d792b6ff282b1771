package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxextract/internal/analyzer"
	"taxextract/internal/domain"
	"taxextract/mocks"
)

func TestSelector_For(t *testing.T) {
	prebuilt := new(mocks.MockDocumentAnalyzer)
	custom := new(mocks.MockDocumentAnalyzer)
	sel := analyzer.NewSelector(prebuilt, custom)

	got, err := sel.For(domain.AnalyzerPrebuilt)
	require.NoError(t, err)
	assert.Same(t, prebuilt, got)

	got, err = sel.For(domain.AnalyzerCustom)
	require.NoError(t, err)
	assert.Same(t, custom, got)
}

func TestSelector_For_Unconfigured(t *testing.T) {
	sel := analyzer.NewSelector(new(mocks.MockDocumentAnalyzer), nil)

	_, err := sel.For(domain.AnalyzerCustom)

	assert.ErrorIs(t, err, domain.ErrAnalyzerUnavailable)
}
