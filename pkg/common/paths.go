// Package common provides shared helpers for disc paths.
// This file contains functions for normalising and classifying file names
// taken from a GameCube file-system table.
package common

import (
	"path"
	"strings"
)

// CleanDiscPath converts a user or FST supplied path into the canonical
// slash-separated form without a leading slash.
func CleanDiscPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// DiscPathKey returns the lookup key for a disc path. FST lookups are
// case-insensitive.
func DiscPathKey(p string) string {
	return strings.ToLower(CleanDiscPath(p))
}

// BaseName returns the last element of a disc path.
func BaseName(p string) string {
	return path.Base(CleanDiscPath(p))
}

// Extension returns the lower-cased extension of a disc path, including the dot.
func Extension(p string) string {
	return strings.ToLower(path.Ext(p))
}

// IsValidFileName checks if an FST name is plausible text rather than
// garbage produced by a bad string-table offset.
func IsValidFileName(fileName string) bool {
	if len(fileName) == 0 || len(fileName) > 255 {
		return false
	}
	if HasControlCharacterSpam(fileName) {
		return false
	}
	for _, b := range []byte(fileName) {
		if b < 0x20 || b == '/' || b == '\\' {
			return false
		}
	}
	return true
}

// HasControlCharacterSpam detects patterns of repeated control characters
func HasControlCharacterSpam(s string) bool {
	if len(s) < 5 {
		return false
	}

	controlCount := 0
	for _, b := range []byte(s) {
		if b < 0x20 {
			controlCount++
		}
	}

	// If more than 30% are control characters, likely corrupted
	return float64(controlCount)/float64(len(s)) > 0.3
}
