// Package output renders directory trees and dump documents.
package output

import (
	"fmt"
	"io"

	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix      = "/"
	binaryLabelFormat    = "%s [binary, %s]"
	binaryLabelBareTag   = "%s [binary]"
	fileTokensFormat     = "%s (%d tokens)"
	binaryContentOmitted = "(binary content omitted)"
)

// WriteTreeRaw renders a directory tree to the provided writer.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode, includeSummary bool) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", includeSummary, true, true)
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, includeSummary bool, isRoot bool, isLast bool) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	switch node.Type {
	case types.NodeTypeFile:
		if node.Tokens > 0 {
			fmt.Fprintf(writer, "%s"+fileTokensFormat+"\n", linePrefix, node.Name, node.Tokens)
		} else {
			fmt.Fprintf(writer, "%s%s\n", linePrefix, node.Name)
		}
		return
	case types.NodeTypeBinary:
		if node.MimeType != "" {
			fmt.Fprintf(writer, "%s"+binaryLabelFormat+"\n", linePrefix, node.Name, node.MimeType)
		} else {
			fmt.Fprintf(writer, "%s"+binaryLabelBareTag+"\n", linePrefix, node.Name)
		}
		return
	}

	label := node.Name
	if !isRoot {
		label += directorySuffix
	}
	fmt.Fprintf(writer, "%s%s\n", linePrefix, label)
	summaryLine := directorySummaryLine(node, includeSummary)
	if summaryLine != "" {
		if isRoot {
			fmt.Fprintf(writer, "%s\n", summaryLine)
		} else {
			fmt.Fprintf(writer, "%s%s\n", childPrefix, summaryLine)
		}
	}
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, includeSummary, false, index == len(node.Children)-1)
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

// directorySummaryLine formats the aggregate line printed under a directory
// node, falling back to a fresh aggregation when the node carries no totals.
func directorySummaryLine(node *types.TreeOutputNode, includeSummary bool) string {
	if !includeSummary || node == nil || node.Type != types.NodeTypeDirectory {
		return ""
	}
	count := node.TotalFiles
	size := node.TotalSize
	tokens := node.TotalTokens
	if count == 0 || size == "" {
		files, bytes, countedTokens := summarizeTree(node)
		if count == 0 {
			count = files
		}
		if size == "" {
			size = utils.FormatFileSize(bytes)
		}
		if tokens == 0 {
			tokens = countedTokens
		}
	}
	label := "files"
	if count == 1 {
		label = "file"
	}
	tokenSuffix := ""
	if tokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d tokens", tokens)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s", count, label, size, tokenSuffix)
}

func summarizeTree(node *types.TreeOutputNode) (int, int64, int) {
	if node == nil {
		return 0, 0, 0
	}
	if node.Type == types.NodeTypeFile || node.Type == types.NodeTypeBinary {
		return 1, node.SizeBytes, node.Tokens
	}
	var totalFiles int
	var totalBytes int64
	var totalTokens int
	for _, child := range node.Children {
		files, bytes, tokens := summarizeTree(child)
		totalFiles += files
		totalBytes += bytes
		totalTokens += tokens
	}
	return totalFiles, totalBytes, totalTokens
}

// ComputeSummary aggregates the selected files into an OutputSummary.
func ComputeSummary(files []types.FileOutput, model string) *types.OutputSummary {
	summary := &types.OutputSummary{}
	var totalBytes int64
	for _, file := range files {
		summary.TotalFiles++
		totalBytes += file.SizeBytes
		summary.TotalTokens += file.Tokens
	}
	summary.TotalSize = utils.FormatFileSize(totalBytes)
	if summary.TotalTokens > 0 {
		summary.Model = model
	}
	return summary
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	extra := ""
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, summary.TotalSize, extra, modelSuffix)
}
