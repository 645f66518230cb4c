package utils

import (
	"io"
	"os"
	"unicode/utf8"
)

const sniffLen = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}

// SniffBinary applies the binary heuristic to the leading sniffLen bytes of
// data, so classification does not depend on how much of a file the caller
// holds. A multibyte rune cut off at the sample boundary is not treated as
// invalid encoding.
func SniffBinary(data []byte) bool {
	if len(data) >= sniffLen {
		data = trimPartialRune(data[:sniffLen])
	}
	return IsBinary(data)
}

// IsFileBinary reads up to sniffLen bytes from the file at path and determines
// if the content appears to be binary. Unreadable files are reported as binary
// so they are kept out of content rendering.
func IsFileBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	return SniffBinary(buf[:n])
}

// trimPartialRune drops a multibyte rune cut off at the end of a sniff buffer
// so the truncation is not mistaken for invalid encoding.
func trimPartialRune(data []byte) []byte {
	end := len(data)
	for cut := 0; cut < utf8.UTFMax && end > 0; cut++ {
		if r, _ := utf8.DecodeLastRune(data[:end]); r != utf8.RuneError {
			return data[:end]
		}
		end--
	}
	return data[:end]
}
