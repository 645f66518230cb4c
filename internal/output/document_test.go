package output

import (
	"strings"
	"testing"
	"time"

	"github.com/placerte/project-dumper/internal/project"
	"github.com/placerte/project-dumper/internal/types"
)

func renderTestDocument(testingHandle *testing.T, options DocumentOptions, files []types.FileOutput) string {
	testingHandle.Helper()
	var builder strings.Builder
	if renderError := RenderDocument(&builder, options, files); renderError != nil {
		testingHandle.Fatalf("RenderDocument returned error: %v", renderError)
	}
	return builder.String()
}

func TestRenderDocumentLayout(testingHandle *testing.T) {
	generatedAt := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	options := DocumentOptions{
		Root:        types.ValidatedRoot{AbsolutePath: "/tmp/sample", Name: "sample"},
		GeneratedAt: generatedAt,
		Project:     project.Metadata{GoModulePath: "example.com/sample", GoVersion: "1.24.0"},
		Tree: &types.TreeOutputNode{
			Name: "sample",
			Type: types.NodeTypeDirectory,
			Children: []*types.TreeOutputNode{
				{Name: "main.go", Type: types.NodeTypeFile},
			},
		},
		ExcludeDirectoryNames: []string{"node_modules", ".git"},
		ExcludeExtensions:     []string{".png"},
	}
	files := []types.FileOutput{
		{RelativePath: "main.go", Type: types.NodeTypeFile, Content: "package main\n", ContentEncoding: types.ContentEncodingUTF8},
	}

	document := renderTestDocument(testingHandle, options, files)

	wantFragments := []string{
		"# PROJECT DUMP FOR LLM / CODE REVIEW",
		"Generated at: 2026-03-14T09:30:00Z",
		"Project root: /tmp/sample",
		"Go module: example.com/sample (go 1.24.0)",
		"- Excluded directory names: [.git, node_modules]",
		"- Excluded file extensions: [.png]",
		"- Included extensions: ALL non-binary files (minus excluded ext).",
		"DIRECTORY TREE",
		"└── main.go",
		"FILES INCLUDED",
		"==== FILE: main.go ====",
		"package main",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(document, fragment) {
			testingHandle.Errorf("document missing %q:\n%s", fragment, document)
		}
	}

	treeIndex := strings.Index(document, "DIRECTORY TREE")
	listIndex := strings.Index(document, "FILES INCLUDED")
	contentIndex := strings.Index(document, "==== FILE: main.go ====")
	if !(treeIndex < listIndex && listIndex < contentIndex) {
		testingHandle.Errorf("sections out of order: tree=%d list=%d content=%d", treeIndex, listIndex, contentIndex)
	}
}

func TestRenderDocumentSortsFilesAndSkipsTree(testingHandle *testing.T) {
	options := DocumentOptions{
		Root:        types.ValidatedRoot{AbsolutePath: "/tmp/sample", Name: "sample"},
		GeneratedAt: time.Now(),
	}
	files := []types.FileOutput{
		{RelativePath: "zz.go", Type: types.NodeTypeFile, Content: "package zz\n"},
		{RelativePath: "aa.go", Type: types.NodeTypeFile, Content: "package aa\n"},
	}

	document := renderTestDocument(testingHandle, options, files)

	if strings.Contains(document, "DIRECTORY TREE") {
		testingHandle.Errorf("document contains tree section despite nil tree")
	}
	firstIndex := strings.Index(document, "==== FILE: aa.go ====")
	secondIndex := strings.Index(document, "==== FILE: zz.go ====")
	if firstIndex < 0 || secondIndex < 0 || firstIndex > secondIndex {
		testingHandle.Errorf("file sections not sorted: aa=%d zz=%d", firstIndex, secondIndex)
	}
}

func TestRenderDocumentBinaryHandling(testingHandle *testing.T) {
	options := DocumentOptions{
		Root:        types.ValidatedRoot{AbsolutePath: "/tmp/sample", Name: "sample"},
		GeneratedAt: time.Now(),
	}
	files := []types.FileOutput{
		{RelativePath: "omitted.bin", Type: types.NodeTypeBinary, MimeType: "application/octet-stream"},
		{RelativePath: "revealed.bin", Type: types.NodeTypeBinary, MimeType: "application/octet-stream", Content: "AAECAw==", ContentEncoding: types.ContentEncodingBase64},
	}

	document := renderTestDocument(testingHandle, options, files)

	if !strings.Contains(document, "(binary content omitted)") {
		testingHandle.Errorf("document missing omitted marker:\n%s", document)
	}
	if !strings.Contains(document, "AAECAw==") {
		testingHandle.Errorf("document missing revealed base64 payload:\n%s", document)
	}
}

func TestRenderDocumentSummaryLine(testingHandle *testing.T) {
	options := DocumentOptions{
		Root:        types.ValidatedRoot{AbsolutePath: "/tmp/sample", Name: "sample"},
		GeneratedAt: time.Now(),
		Summary:     &types.OutputSummary{TotalFiles: 2, TotalSize: "24b"},
	}
	document := renderTestDocument(testingHandle, options, nil)
	if !strings.Contains(document, "Summary: 2 files, 24b") {
		testingHandle.Errorf("document missing summary line:\n%s", document)
	}
}

func TestNumberLines(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "empty content stays empty",
			content:  "",
			expected: "",
		},
		{
			name:     "single line",
			content:  "hello\n",
			expected: "1 | hello\n",
		},
		{
			name:     "width alignment",
			content:  strings.Repeat("x\n", 10),
			expected: " 1 | x\n 2 | x\n 3 | x\n 4 | x\n 5 | x\n 6 | x\n 7 | x\n 8 | x\n 9 | x\n10 | x\n",
		},
		{
			name:     "no trailing newline",
			content:  "a\nb",
			expected: "1 | a\n2 | b\n",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			numbered := NumberLines(testCase.content)
			if numbered != testCase.expected {
				subTest.Errorf("NumberLines() = %q, want %q", numbered, testCase.expected)
			}
		})
	}
}
