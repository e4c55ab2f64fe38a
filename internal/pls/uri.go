package pls

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// uriScheme returns the lower-cased scheme of uri, or "" when uri has none.
func uriScheme(uri string) string {
	for i, c := range uri {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return strings.ToLower(uri[:i])
		default:
			return ""
		}
	}
	return ""
}

// ResolvePath turns an entry URI into a local filesystem path.
//
// A URI without a scheme is already a path. A file:// URI yields its path.
// Every other scheme, and file URIs naming a remote host, return [ErrUnsupportedScheme].
func ResolvePath(uri string) (string, error) {
	switch scheme := uriScheme(uri); scheme {
	case "":
		return uri, nil
	case "file":
		u, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedScheme, err)
		}
		if u.Host != "" && u.Host != "localhost" {
			return "", fmt.Errorf("%w: remote file host %q", ErrUnsupportedScheme, u.Host)
		}
		if u.Path == "" {
			return "", fmt.Errorf("%w: empty file uri", ErrUnsupportedScheme)
		}
		return u.Path, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// FileURL returns the file:// URL of path, made absolute first.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
