package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/rxls/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runArgs("--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, version.Get().String()+"\n", out)
}

func TestRun_BadFlag(t *testing.T) {
	code, _, errOut := runArgs("--nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage:")
}

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{
			name:     "clean pattern",
			args:     []string{"check", "a+b"},
			wantCode: 0,
			wantOut:  "",
		},
		{
			name:     "error",
			args:     []string{"check", "[z-a]"},
			wantCode: 1,
			wantOut:  "1:error: Illegal character range (to < from)\n",
		},
		{
			name:     "weak warning only",
			args:     []string{"check", "x{1}"},
			wantCode: 0,
			wantOut:  "1:weak warning: Single repetition\n",
		},
		{
			name:     "several patterns",
			args:     []string{"check", "--dialect", "javascript", "x{1}", "[z-a]"},
			wantCode: 1,
			wantOut:  "x{1}\n1:weak warning: Single repetition\n[z-a]\n1:error: Illegal character range (to < from)\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runArgs(tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestRunCheck_Dialects(t *testing.T) {
	t.Run("lookbehind differs by dialect", func(t *testing.T) {
		code, _, _ := runArgs("check", "--dialect", "javascript", "(?<=a+)b")
		assert.Equal(t, 0, code)

		code, out, _ := runArgs("check", "--dialect", "re2", "(?<=a)b")
		assert.Equal(t, 1, code)
		assert.NotEmpty(t, out)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		code, _, errOut := runArgs("check", "--dialect", "cobol", "a")
		assert.Equal(t, 2, code)
		assert.Contains(t, errOut, "unknown dialect")
	})

	t.Run("custom dialect file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "strict.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: strict\nextends: java\nlookbehind: notSupported\n"), 0o600))

		code, out, _ := runArgs("check", "--dialect-file", path, "--dialect", "strict", "(?<=a)b")
		assert.Equal(t, 1, code)
		assert.NotEmpty(t, out)
	})

	t.Run("no patterns", func(t *testing.T) {
		code, _, errOut := runArgs("check")
		assert.Equal(t, 2, code)
		assert.Contains(t, errOut, "no patterns")
	})
}
