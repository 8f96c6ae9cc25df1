package validator_test

import (
	"testing"

	"bennypowers.dev/rxls/internal/regexp/ast"
	"github.com/stretchr/testify/assert"
)

func TestLookbehind(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		pattern string
		want    []string
	}{
		// fixedLengthAlternation
		{"equal branches", "python", `(?<=ab|cd)x`, nil},
		{"unequal branches", "python", `(?<=ab|cde)x`, []string{"Alternation alternatives needs to have the same length inside lookbehind"}},
		{"class counts once", "python", `(?<=[abc]|x)y`, nil},
		{"nested alternation", "python", `(?<=(?:ab|c))d`, []string{"Alternation alternatives needs to have the same length inside lookbehind"}},
		{"star", "python", `(?<=a*)x`, []string{"* repetition not allowed inside lookbehind"}},
		{"optional", "python", `(?<=a?)x`, []string{"? repetition not allowed inside lookbehind"}},
		{"exact count", "python", `(?<=a{2})b`, nil},
		{"counted range", "python", `(?<=a{1,2})b`, []string{"Unequal min and max in counted quantifier not allowed inside lookbehind"}},
		{"group reference", "python", `(a)(?<=\1)b`, []string{"Group reference not allowed inside lookbehind"}},
		{"named reference", "python", `(?P<n>a)(?<=(?P=n))b`, []string{"Named group reference not allowed inside lookbehind"}},
		{"conditional reference", "python", `(a)(?<=(?(1)b|c))d`, []string{"Conditional group reference not allowed inside lookbehind"}},
		{"first violation only", "python", `(?<=a*b+)c`, []string{"* repetition not allowed inside lookbehind"}},
		{"negative lookbehind", "python", `(?<!a+)b`, []string{"+ repetition not allowed inside lookbehind"}},

		// finiteRepetition
		{"bounded repetition", "java", `(?<=a?b{1,3})c`, nil},
		{"plus", "java", `(?<=a+)b`, []string{"+ repetition not allowed inside lookbehind"}},
		{"star in finite", "java", `(?<=a*)b`, []string{"* repetition not allowed inside lookbehind"}},
		{"unequal branches allowed", "java", `(?<=ab|c)x`, nil},
		{"group reference in finite", "java", `(a)(?<=\1)b`, []string{"Group reference not allowed inside lookbehind"}},

		// full
		{"anything goes", "javascript", `(a)(?<=b*\1|c+)d`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messages(validate(t, tt.dialect, tt.pattern))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookbehind_Spans(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		pattern string
		want    ast.Range
	}{
		{"alternation reports the pattern", "python", `(?<=ab|cde)x`, ast.Range{Start: 4, End: 10}},
		{"quantifier", "python", `(?<=a*)x`, ast.Range{Start: 5, End: 6}},
		{"counted quantifier", "python", `(?<=a{1,2})b`, ast.Range{Start: 5, End: 10}},
		{"reference", "java", `(a)(?<=\1)b`, ast.Range{Start: 7, End: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, single(t, tt.dialect, tt.pattern).Span)
		})
	}
}
