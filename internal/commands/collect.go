package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/placerte/project-dumper/internal/tokenizer"
	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

// CollectOptions configures file collection for the dump command.
type CollectOptions struct {
	Root                  string
	IgnorePatterns        []string
	BinaryRevealPatterns  []string
	ExcludeDirectoryNames []string
	IncludeExtensions     []string
	ExcludeExtensions     []string
	MaxFileBytes          int64
	SkipAbsolutePaths     []string
	TokenCounter          tokenizer.Counter
	TokenModel            string
	Warn                  func(string)
}

// StreamFiles walks the directory tree under options.Root and emits one
// FileOutput per selected file on the events channel. A file is emitted if and
// only if it passes the ignore, directory-name, and extension filters, fits
// the size cutoff, and could be read. Binary files are emitted with their
// content omitted unless a reveal pattern matches. The caller owns the channel;
// StreamFiles never closes it.
func StreamFiles(streamContext context.Context, options CollectOptions, events chan<- types.FileOutput) error {
	absoluteRootPath, absolutePathError := filepath.Abs(options.Root)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, options.Root, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	warn := options.Warn
	if warn == nil {
		warn = func(message string) { fmt.Fprintln(os.Stderr, message) }
	}

	includeExtensions := normalizeExtensions(options.IncludeExtensions)
	excludeExtensions := normalizeExtensions(options.ExcludeExtensions)
	skipPaths := make(map[string]struct{}, len(options.SkipAbsolutePaths))
	for _, skipPath := range options.SkipAbsolutePaths {
		skipPaths[filepath.Clean(skipPath)] = struct{}{}
	}

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry os.DirEntry, accessError error) error {
		if contextError := streamContext.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			warn(fmt.Sprintf("Warning: error accessing path %s: %v", walkedPath, accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			return nil
		}
		if directoryEntry.IsDir() {
			if utils.ContainsString(options.ExcludeDirectoryNames, directoryEntry.Name()) {
				return filepath.SkipDir
			}
			if utils.ShouldIgnoreByPath(relativePath, options.IgnorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.ShouldIgnoreByPath(relativePath, options.IgnorePatterns) {
			return nil
		}
		if _, isSkipped := skipPaths[filepath.Clean(walkedPath)]; isSkipped {
			return nil
		}

		extension := strings.ToLower(filepath.Ext(directoryEntry.Name()))
		if len(includeExtensions) > 0 {
			if _, isIncluded := includeExtensions[extension]; !isIncluded {
				return nil
			}
		}
		if _, isExcluded := excludeExtensions[extension]; isExcluded {
			return nil
		}

		entryInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			warn(fmt.Sprintf(warningStatPathFormat, walkedPath, infoError))
			return nil
		}
		if options.MaxFileBytes > 0 && entryInfo.Size() > options.MaxFileBytes {
			warn(fmt.Sprintf(warningFileTooLargeFormat, walkedPath, entryInfo.Size(), options.MaxFileBytes))
			return nil
		}

		inspection, usable := inspectFile(walkedPath, fileInspectionConfig{
			RelativePath:         relativePath,
			BinaryRevealPatterns: options.BinaryRevealPatterns,
			TokenCounter:         options.TokenCounter,
			TokenModel:           options.TokenModel,
			Warn:                 warn,
		})
		if !usable {
			return nil
		}

		fileType := types.NodeTypeFile
		if inspection.IsBinary {
			fileType = types.NodeTypeBinary
		}
		fileOutput := types.FileOutput{
			Path:            walkedPath,
			RelativePath:    relativePath,
			Type:            fileType,
			Content:         inspection.Content,
			ContentEncoding: inspection.ContentEncoding,
			Size:            utils.FormatFileSize(entryInfo.Size()),
			SizeBytes:       entryInfo.Size(),
			LastModified:    utils.FormatTimestamp(entryInfo.ModTime()),
			MimeType:        inspection.MimeType,
			Tokens:          inspection.Tokens,
			Model:           inspection.Model,
		}

		select {
		case events <- fileOutput:
			return nil
		case <-streamContext.Done():
			return streamContext.Err()
		}
	})

	return directoryWalkError
}

// normalizeExtensions lower-cases extensions and ensures each starts with a dot.
func normalizeExtensions(extensions []string) map[string]struct{} {
	normalized := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		trimmed := strings.ToLower(strings.TrimSpace(extension))
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		normalized[trimmed] = struct{}{}
	}
	return normalized
}
