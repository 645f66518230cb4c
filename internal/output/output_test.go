package output

import (
	"strings"
	"testing"

	"github.com/placerte/project-dumper/internal/types"
)

func TestWriteTreeRawConnectors(testingHandle *testing.T) {
	rootNode := &types.TreeOutputNode{
		Name: "project",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeOutputNode{
			{
				Name: "internal",
				Type: types.NodeTypeDirectory,
				Children: []*types.TreeOutputNode{
					{Name: "app.go", Type: types.NodeTypeFile},
				},
			},
			{Name: "main.go", Type: types.NodeTypeFile},
		},
	}

	var builder strings.Builder
	WriteTreeRaw(&builder, rootNode, false)

	expected := strings.Join([]string{
		"project",
		"├── internal/",
		"│   └── app.go",
		"└── main.go",
	}, "\n") + "\n"
	if builder.String() != expected {
		testingHandle.Fatalf("tree output = %q, want %q", builder.String(), expected)
	}
}

func TestWriteTreeRawBinaryAndTokens(testingHandle *testing.T) {
	rootNode := &types.TreeOutputNode{
		Name: "project",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeOutputNode{
			{Name: "blob.bin", Type: types.NodeTypeBinary, MimeType: "application/octet-stream"},
			{Name: "main.go", Type: types.NodeTypeFile, Tokens: 12},
		},
	}

	var builder strings.Builder
	WriteTreeRaw(&builder, rootNode, false)

	rendered := builder.String()
	if !strings.Contains(rendered, "├── blob.bin [binary, application/octet-stream]") {
		testingHandle.Errorf("tree output missing binary annotation:\n%s", rendered)
	}
	if !strings.Contains(rendered, "└── main.go (12 tokens)") {
		testingHandle.Errorf("tree output missing token annotation:\n%s", rendered)
	}
}

func TestWriteTreeRawSummaryLines(testingHandle *testing.T) {
	rootNode := &types.TreeOutputNode{
		Name: "project",
		Type: types.NodeTypeDirectory,
		Children: []*types.TreeOutputNode{
			{Name: "main.go", Type: types.NodeTypeFile, SizeBytes: 10},
		},
	}

	var builder strings.Builder
	WriteTreeRaw(&builder, rootNode, true)

	if !strings.Contains(builder.String(), "Summary: 1 file, 10b") {
		testingHandle.Errorf("tree output missing summary line:\n%s", builder.String())
	}
}

func TestComputeSummary(testingHandle *testing.T) {
	files := []types.FileOutput{
		{RelativePath: "a.go", SizeBytes: 512, Tokens: 100},
		{RelativePath: "b.go", SizeBytes: 512, Tokens: 50},
	}
	summary := ComputeSummary(files, "gpt-4o")
	if summary.TotalFiles != 2 {
		testingHandle.Errorf("TotalFiles = %d, want 2", summary.TotalFiles)
	}
	if summary.TotalSize != "1kb" {
		testingHandle.Errorf("TotalSize = %q, want 1kb", summary.TotalSize)
	}
	if summary.TotalTokens != 150 {
		testingHandle.Errorf("TotalTokens = %d, want 150", summary.TotalTokens)
	}
	if summary.Model != "gpt-4o" {
		testingHandle.Errorf("Model = %q, want gpt-4o", summary.Model)
	}
}

func TestFormatSummaryLine(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		summary  *types.OutputSummary
		expected string
	}{
		{
			name:     "single file",
			summary:  &types.OutputSummary{TotalFiles: 1, TotalSize: "10b"},
			expected: "Summary: 1 file, 10b",
		},
		{
			name:     "tokens and model",
			summary:  &types.OutputSummary{TotalFiles: 3, TotalSize: "2.5kb", TotalTokens: 420, Model: "gpt-4o"},
			expected: "Summary: 3 files, 2.5kb, 420 tokens (model: gpt-4o)",
		},
		{
			name:     "nil summary",
			summary:  nil,
			expected: "Summary: 0 files, ",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			formatted := FormatSummaryLine(testCase.summary)
			if formatted != testCase.expected {
				subTest.Errorf("FormatSummaryLine() = %q, want %q", formatted, testCase.expected)
			}
		})
	}
}
