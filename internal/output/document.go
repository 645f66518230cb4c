package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/placerte/project-dumper/internal/project"
	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

const (
	documentTitle     = "# PROJECT DUMP FOR LLM / CODE REVIEW"
	treeSectionTitle  = "DIRECTORY TREE"
	filesSectionTitle = "FILES INCLUDED"
	fileHeaderFormat  = "==== FILE: %s ===="

	includeAllExtensionsNote = "- Included extensions: ALL non-binary files (minus excluded ext)."
)

var (
	sectionDivider    = strings.Repeat("=", 80)
	sectionUnderline  = strings.Repeat("-", 80)
	documentStructure = []string{
		"Document structure:",
		"1. This header section (what you are reading now).",
		"2. A directory tree of the project (if enabled).",
		"3. A flat list of every included file.",
		"4. The contents of each included file, in deterministic order.",
		"",
		"Conventions:",
		"- Each file starts with a header line like:",
		"    " + fmt.Sprintf(fileHeaderFormat, "relative/path/to/file.go"),
		"- File contents follow immediately after the header.",
		"",
		"LLM instructions (suggested):",
		"- Treat this as a read-only snapshot of the project.",
		"- When referencing code, mention the file path and line(s) if possible.",
		"- If you propose changes, explain them in terms of specific files/sections.",
	}
)

// DocumentOptions carries everything needed to render one dump document.
type DocumentOptions struct {
	Root                  types.ValidatedRoot
	GeneratedAt           time.Time
	Project               project.Metadata
	Tree                  *types.TreeOutputNode
	Summary               *types.OutputSummary
	LineNumbers           bool
	IncludeExtensions     []string
	ExcludeExtensions     []string
	ExcludeDirectoryNames []string
}

// RenderDocument writes the complete dump document to the writer. Files are
// rendered in ascending relative-path order regardless of input order.
func RenderDocument(writer io.Writer, options DocumentOptions, files []types.FileOutput) error {
	ordered := make([]types.FileOutput, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(first int, second int) bool {
		return ordered[first].RelativePath < ordered[second].RelativePath
	})

	documentWriter := &failingWriter{destination: writer}
	renderHeader(documentWriter, options)
	if options.Tree != nil {
		documentWriter.line(treeSectionTitle)
		documentWriter.line(sectionUnderline)
		WriteTreeRaw(documentWriter, options.Tree, false)
		documentWriter.line("")
		documentWriter.line(sectionDivider)
		documentWriter.line("")
	}

	documentWriter.line(filesSectionTitle)
	documentWriter.line(sectionUnderline)
	for _, file := range ordered {
		documentWriter.line(file.RelativePath)
	}
	documentWriter.line("")
	documentWriter.line(sectionDivider)
	documentWriter.line("")

	for _, file := range ordered {
		documentWriter.line(fmt.Sprintf(fileHeaderFormat, file.RelativePath))
		documentWriter.line("")
		renderFileContent(documentWriter, file, options.LineNumbers)
		documentWriter.line("")
	}

	return documentWriter.err
}

func renderHeader(documentWriter *failingWriter, options DocumentOptions) {
	documentWriter.line(documentTitle)
	documentWriter.line("")
	documentWriter.line("Generated at: " + utils.FormatGeneratedAt(options.GeneratedAt))
	documentWriter.line("Project root: " + options.Root.AbsolutePath)
	if options.Project.GoModulePath != "" {
		moduleLine := "Go module: " + options.Project.GoModulePath
		if options.Project.GoVersion != "" {
			moduleLine += " (go " + options.Project.GoVersion + ")"
		}
		documentWriter.line(moduleLine)
	}
	if options.Project.NodePackage != "" {
		documentWriter.line("Node package: " + options.Project.NodePackage)
	}
	documentWriter.line("")
	for _, structureLine := range documentStructure {
		documentWriter.line(structureLine)
	}
	documentWriter.line("")
	documentWriter.line("Filtering applied:")
	documentWriter.line("- Excluded directory names: " + formatSortedList(options.ExcludeDirectoryNames))
	documentWriter.line("- Excluded file extensions: " + formatSortedList(options.ExcludeExtensions))
	if len(options.IncludeExtensions) == 0 {
		documentWriter.line(includeAllExtensionsNote)
	} else {
		documentWriter.line("- Included extensions (whitelist): " + formatSortedList(options.IncludeExtensions))
	}
	if options.Summary != nil {
		documentWriter.line("")
		documentWriter.line(FormatSummaryLine(options.Summary))
	}
	documentWriter.line("")
	documentWriter.line(sectionDivider)
	documentWriter.line("")
}

func renderFileContent(documentWriter *failingWriter, file types.FileOutput, lineNumbers bool) {
	if file.Type == types.NodeTypeBinary {
		documentWriter.line(fmt.Sprintf("[binary file, %s]", file.MimeType))
		if file.ContentEncoding == types.ContentEncodingBase64 && file.Content != "" {
			documentWriter.line(file.Content)
		} else {
			documentWriter.line(binaryContentOmitted)
		}
		return
	}
	content := file.Content
	if lineNumbers {
		content = NumberLines(content)
	}
	documentWriter.raw(content)
	if !strings.HasSuffix(content, "\n") {
		documentWriter.raw("\n")
	}
}

// NumberLines prefixes every line with a right-aligned 1-based line number
// separated by " | ".
func NumberLines(content string) string {
	if content == "" {
		return ""
	}
	trimmed := strings.TrimSuffix(content, "\n")
	lines := strings.Split(trimmed, "\n")
	width := len(fmt.Sprint(len(lines)))
	var builder strings.Builder
	for index, line := range lines {
		fmt.Fprintf(&builder, "%*d | %s\n", width, index+1, line)
	}
	return builder.String()
}

func formatSortedList(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return "[" + strings.Join(sorted, ", ") + "]"
}

// failingWriter remembers the first write error so rendering code can stay
// free of per-line error checks.
type failingWriter struct {
	destination io.Writer
	err         error
}

func (writer *failingWriter) Write(payload []byte) (int, error) {
	if writer.err != nil {
		return 0, writer.err
	}
	written, writeError := writer.destination.Write(payload)
	if writeError != nil {
		writer.err = writeError
	}
	return written, writeError
}

func (writer *failingWriter) line(text string) {
	writer.raw(text + "\n")
}

func (writer *failingWriter) raw(text string) {
	if writer.err != nil {
		return
	}
	_, writeError := io.WriteString(writer.destination, text)
	if writeError != nil {
		writer.err = writeError
	}
}
