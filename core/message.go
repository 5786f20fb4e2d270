package core

import "strings"

// CanonicalMessage builds the exact bytes a client signs for a request.
// Fields are joined by newlines in fixed order and never normalized: a
// trailing slash, different case or reordered query yields a different message.
func CanonicalMessage(method, fullPath, challenge, nonce string) []byte {
	return []byte(strings.Join([]string{method, fullPath, challenge, nonce}, "\n"))
}

// FullPath appends the raw query to path when one is present
func FullPath(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
