// Package utils contains general helper functions used across the pdump tool.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	pathSegmentSeparator = "/"
	negationPrefix       = "!"
)

var serviceFiles = map[string]struct{}{
	DumpIgnoreFileName: {},
	GitIgnoreFileName:  {},
	ConfigFileName:     {},
}

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ShouldIgnoreByPath reports whether a path relative to the processing root
// should be excluded from further processing. The candidate path and every
// ignore pattern are converted to forward-slash form before evaluation.
// Patterns are split into hierarchical segments, allowing nested directory
// prefixes such as "subdir/node_modules/" and "subdir/secrets.json" to match.
// A pattern ending with a trailing slash matches the specified directory and
// all descendant paths, preventing recursion into that directory. Other
// patterns match an exact path where each segment is evaluated with
// filepath.Match semantics. A pattern prefixed with "!" negates an earlier
// match; the last matching pattern decides the outcome.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	lastSegment := ""
	if len(pathSegments) > 0 {
		lastSegment = pathSegments[len(pathSegments)-1]
	}

	if _, isServiceFile := serviceFiles[lastSegment]; isServiceFile {
		return true
	}

	ignored := false
	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)

		negated := strings.HasPrefix(normalizedPattern, negationPrefix)
		if negated {
			normalizedPattern = strings.TrimPrefix(normalizedPattern, negationPrefix)
		}

		if patternMatchesPath(normalizedPattern, pathSegments, lastSegment) {
			ignored = !negated
		}
	}

	return ignored
}

// patternMatchesPath evaluates a single normalized pattern against the path segments.
func patternMatchesPath(normalizedPattern string, pathSegments []string, lastSegment string) bool {
	isDirectoryPattern := strings.HasSuffix(normalizedPattern, pathSegmentSeparator)
	trimmedPattern := strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
	patternSegments := strings.Split(trimmedPattern, pathSegmentSeparator)

	if isDirectoryPattern {
		return len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments)
	}

	if len(patternSegments) == 1 {
		isMatched, matchError := filepath.Match(patternSegments[0], lastSegment)
		return matchError == nil && isMatched
	}

	return len(pathSegments) == len(patternSegments) && segmentsMatch(pathSegments, patternSegments)
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}

// ShouldRevealBinaryContentByPath checks if a path should reveal binary
// content based on the configured binary content patterns.
func ShouldRevealBinaryContentByPath(relativePath string, binaryContentPatterns []string) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	for _, patternValue := range binaryContentPatterns {
		trimmedPattern := strings.TrimSuffix(patternValue, "/")
		if strings.HasSuffix(patternValue, "/") {
			if normalizedPath == trimmedPattern || strings.HasPrefix(normalizedPath, trimmedPattern+"/") {
				return true
			}
			continue
		}
		isMatched, _ := filepath.Match(patternValue, normalizedPath)
		if isMatched {
			return true
		}
	}
	return false
}
