// Package uriutil converts between file:// URIs and file system paths.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a file:// URI, making it absolute
// and percent-encoding each segment. Windows drive paths become
// file:///C:/... and UNC paths become file://server/share/...
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(abs, `\\`) {
		return "file://" + escapeSegments(filepath.ToSlash(strings.TrimPrefix(abs, `\\`)))
	}

	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return "file://" + escapeSegments(abs)
}

func escapeSegments(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if s != "" {
			segs[i] = url.PathEscape(s)
		}
	}
	return strings.Join(segs, "/")
}

// URIToPath converts a file:// URI to a path with OS separators. Anything
// that does not parse as a file URI is handled leniently by stripping the
// scheme.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return stripScheme(uri)
	}

	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			return `\\` + parsed.Host + filepath.FromSlash(parsed.Path)
		}
		return parsed.Host + parsed.Path
	}

	return filepath.FromSlash(trimDriveSlash(parsed.Path))
}

func stripScheme(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	return filepath.FromSlash(trimDriveSlash(path))
}

// trimDriveSlash turns /C:/proj into C:/proj.
func trimDriveSlash(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		return p[1:]
	}
	return p
}

// RelativePath returns the slash-separated path of uri relative to the
// workspace root. ok is false when uri lies outside root or either is not a
// file location.
func RelativePath(rootPath, uri string) (rel string, ok bool) {
	if rootPath == "" {
		return "", false
	}
	r, err := filepath.Rel(rootPath, URIToPath(uri))
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(r), true
}
