package uriutil

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX-only test")
	}
}

func TestPathToURI(t *testing.T) {
	skipOnWindows(t)
	tests := []struct {
		in, want string
	}{
		{"/home/user/project", "file:///home/user/project"},
		{"/", "file:///"},
		{"/home/user/my patterns", "file:///home/user/my%20patterns"},
		{"/srv/文件", "file:///srv/%E6%96%87%E4%BB%B6"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PathToURI(tt.in))
		})
	}
}

func TestURIToPath(t *testing.T) {
	skipOnWindows(t)
	tests := []struct {
		in, want string
	}{
		{"file:///home/user/project", "/home/user/project"},
		{"file:///home/user/my%20patterns", "/home/user/my patterns"},
		{"file:///C:/proj", "C:/proj"},
		{"/already/a/path", "/already/a/path"},
		{"untitled:Untitled-1", "untitled:Untitled-1"},
		{"file://server/share/x", "server/share/x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, URIToPath(tt.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	skipOnWindows(t)
	for _, p := range []string{"/home/user", "/home/user/my project", "/home/user/文件/a.rx"} {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, p, URIToPath(PathToURI(p)))
		})
	}
}

func TestRelativePath(t *testing.T) {
	skipOnWindows(t)
	tests := []struct {
		name   string
		root   string
		uri    string
		want   string
		wantOK bool
	}{
		{"inside", "/ws", "file:///ws/patterns/a.rx", "patterns/a.rx", true},
		{"root file", "/ws", "file:///ws/a.rx", "a.rx", true},
		{"outside", "/ws", "file:///other/a.rx", "", false},
		{"sibling prefix", "/ws", "file:///ws2/a.rx", "", false},
		{"no root", "", "file:///ws/a.rx", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RelativePath(tt.root, tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
