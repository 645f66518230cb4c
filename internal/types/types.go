// Package types defines the cross-package data structures used by the pdump CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"

	ContentEncodingUTF8   = "utf-8"
	ContentEncodingBase64 = "base64"
)

// ValidatedRoot is an absolute target directory that already passed existence checks.
type ValidatedRoot struct {
	AbsolutePath string
	Name         string
}

// FileOutput represents one file selected for inclusion in the dump document.
type FileOutput struct {
	Path            string
	RelativePath    string
	Type            string
	Content         string
	ContentEncoding string
	Size            string
	SizeBytes       int64
	LastModified    string
	MimeType        string
	Tokens          int
	Model           string
}

// TreeOutputNode represents a node of the rendered directory tree.
type TreeOutputNode struct {
	Path         string
	Name         string
	Type         string
	Size         string
	SizeBytes    int64
	LastModified string
	MimeType     string
	Tokens       int
	Model        string
	Children     []*TreeOutputNode
	TotalFiles   int
	TotalSize    string
	TotalTokens  int
}

// OutputSummary captures aggregate information about the rendered files.
type OutputSummary struct {
	TotalFiles  int
	TotalSize   string
	TotalTokens int
	Model       string
}
