package utils

import (
	"os"
	"path/filepath"
	"testing"
)

// TestIsBinary verifies the byte-level binary heuristic.
func TestIsBinary(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty slice is text", data: nil, expected: false},
		{name: "plain text", data: []byte("package main\n"), expected: false},
		{name: "utf-8 multibyte text", data: []byte("héllo wörld"), expected: false},
		{name: "nul byte is binary", data: []byte{'a', 0x00, 'b'}, expected: true},
		{name: "invalid utf-8 is binary", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtest *testing.T) {
			if actual := IsBinary(testCase.data); actual != testCase.expected {
				subtest.Errorf("IsBinary(%v) = %v, want %v", testCase.data, actual, testCase.expected)
			}
		})
	}
}

// TestSniffBinary verifies detection is decided by the leading sample so a
// caller holding a whole file classifies the same way as one holding only the
// sniff window.
func TestSniffBinary(testingHandle *testing.T) {
	lateNul := make([]byte, sniffLen+1001)
	for index := range lateNul {
		lateNul[index] = 'a'
	}
	lateNul[sniffLen+1000] = 0x00

	earlyNul := make([]byte, sniffLen)
	for index := range earlyNul {
		earlyNul[index] = 'a'
	}
	earlyNul[10] = 0x00

	multibyteAtBoundary := make([]byte, sniffLen-1)
	for index := range multibyteAtBoundary {
		multibyteAtBoundary[index] = 'a'
	}
	multibyteAtBoundary = append(multibyteAtBoundary, []byte("é")...)

	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "nul past the window is text", data: lateNul, expected: false},
		{name: "nul inside the window is binary", data: earlyNul, expected: true},
		{name: "rune split at the window boundary is text", data: multibyteAtBoundary, expected: false},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtest *testing.T) {
			if actual := SniffBinary(testCase.data); actual != testCase.expected {
				subtest.Errorf("SniffBinary() = %v, want %v", actual, testCase.expected)
			}
		})
	}
}

// TestIsFileBinary verifies file-level detection including unreadable files.
func TestIsFileBinary(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	textPath := filepath.Join(rootDirectory, "readme.txt")
	if writeError := os.WriteFile(textPath, []byte("hello\n"), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write text fixture: %v", writeError)
	}
	binaryPath := filepath.Join(rootDirectory, "blob.bin")
	if writeError := os.WriteFile(binaryPath, []byte{0x89, 'P', 'N', 'G', 0x00, 0x1a}, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write binary fixture: %v", writeError)
	}

	if IsFileBinary(textPath) {
		testingHandle.Errorf("expected %s to be text", textPath)
	}
	if !IsFileBinary(binaryPath) {
		testingHandle.Errorf("expected %s to be binary", binaryPath)
	}
	if !IsFileBinary(filepath.Join(rootDirectory, "missing.bin")) {
		testingHandle.Errorf("expected missing file to be reported as binary")
	}
}
