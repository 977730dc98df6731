// Package routepath normalizes requested URL paths and joins route patterns.
//
// Requested paths are canonicalized before they are matched against the
// route table, so "/general/", "//general" and "/x/../general" all resolve
// the same way. Route patterns are joined with Join, which follows the
// nesting rules of the route table: an absolute child path replaces the
// parent prefix, a relative one is appended to it.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result is the outcome of Canonicalize.
type Result struct {
	// Path is the canonical path without query string.
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed reports whether Path differs from the input path.
	Changed bool
}

// Canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in segment")
)

// Canonicalize normalizes a requested path:
//   - a missing leading slash is added
//   - repeated slashes collapse (/general//tab → /general/tab)
//   - "." segments are dropped and ".." segments pop their parent
//   - a trailing slash is removed, except for "/"
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected. A query string is split off and returned untouched.
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	path, query, _ := strings.Cut(input, "?")
	path, _, _ = strings.Cut(path, "#")

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path
	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}

	path = "/" + strings.Join(out, "/")
	return Result{
		Path:    path,
		Query:   query,
		Changed: path != original,
	}, nil
}

// validatePercentEscapes checks every "%" is followed by two hex digits.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Split returns the non-empty segments of a path. "/" and "" yield nil.
func Split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Join resolves a route pattern against its parent's full pattern.
//
//	Join("/", "/general")         → "/general"
//	Join("/general", "tab/:i")    → "/general/tab/:i"
//	Join("/general", "")          → "/general"
//	Join("/general", "/settings") → "/settings"
func Join(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return clean(child)
	}
	if child == "" {
		return clean(parent)
	}
	return clean(parent + "/" + child)
}

// clean collapses slashes in a route pattern without interpreting dots,
// which are legal pattern characters.
func clean(pattern string) string {
	segs := Split(pattern)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// DecodeSegment unescapes a single captured path segment. A decoded "/"
// would let a parameter smuggle extra segments and is rejected.
func DecodeSegment(segment string) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// EscapeSegment is the inverse of DecodeSegment, used when building URLs.
func EscapeSegment(value string) string {
	return url.PathEscape(value)
}
