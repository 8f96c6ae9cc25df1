package check_test

import (
	"sync"
	"testing"

	"bennypowers.dev/rxls/internal/regexp/ast"
	"bennypowers.dev/rxls/internal/regexp/check"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/internal/regexp/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(t *testing.T, name string) *dialect.Descriptor {
	t.Helper()
	d, err := dialect.Builtin().Get(name)
	require.NoError(t, err)
	return d
}

func TestPattern_Clean(t *testing.T) {
	res := check.Pattern(`^\d{3}-\d{4}$`, descriptor(t, "java"))
	assert.NotNil(t, res.Root)
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.HasErrors())
}

func TestPattern_MergesSyntaxErrors(t *testing.T) {
	res := check.Pattern(`[z-a](a`, descriptor(t, "java"))
	require.Len(t, res.Diagnostics, 2)

	assert.Equal(t, "Illegal character range (to < from)", res.Diagnostics[0].Message)
	assert.Equal(t, validator.CodeIllegalRange, res.Diagnostics[0].Code)

	assert.Equal(t, "Unclosed group", res.Diagnostics[1].Message)
	assert.Equal(t, check.CodeSyntax, res.Diagnostics[1].Code)
	assert.Equal(t, validator.Error, res.Diagnostics[1].Severity)
	assert.Equal(t, ast.Range{Start: 5, End: 7}, res.Diagnostics[1].Span)
	assert.True(t, res.HasErrors())
}

func TestPattern_SortedByOffset(t *testing.T) {
	res := check.Pattern(`a{1}[z-a]\k<x>`, descriptor(t, "java"))
	require.Len(t, res.Diagnostics, 3)
	for i := 1; i < len(res.Diagnostics); i++ {
		assert.LessOrEqual(t, res.Diagnostics[i-1].Span.Start, res.Diagnostics[i].Span.Start)
	}
}

func TestPattern_WarningsOnly(t *testing.T) {
	res := check.Pattern(`a{0,1}`, descriptor(t, "java"))
	require.Len(t, res.Diagnostics, 1)
	assert.False(t, res.HasErrors())
}

func TestPattern_Concurrent(t *testing.T) {
	d := descriptor(t, "pcre")
	var wg sync.WaitGroup
	results := make([]check.Result, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = check.Pattern(`(?<n>a)(?<n>b)`, d)
		}()
	}
	wg.Wait()
	for _, res := range results {
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, validator.CodeDuplicateGroupName, res.Diagnostics[0].Code)
	}
}
