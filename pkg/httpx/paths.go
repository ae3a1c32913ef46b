package httpx

import "strings"

// PathList matches request paths against configured patterns. A pattern is
// either an exact path ("/auth/login") or a prefix ending in "/*"
// ("/admin/*" matches "/admin" and everything beneath it).
type PathList []string

// Matches reports whether path matches any pattern in the list.
func (l PathList) Matches(path string) bool {
	for _, pattern := range l {
		if matchPath(pattern, path) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
