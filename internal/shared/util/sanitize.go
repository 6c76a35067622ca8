package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// SanitizePathSegment validates a single storage path segment.
func SanitizePathSegment(segment string) (string, error) {
	s := strings.TrimSpace(segment)
	if s == "" || strings.ContainsAny(s, "/\\") || strings.Contains(s, "..") {
		return "", errors.New("invalid path segment")
	}
	return s, nil
}
