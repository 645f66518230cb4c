package commands

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/placerte/project-dumper/internal/tokenizer"
	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

type fileInspectionConfig struct {
	RelativePath         string
	BinaryRevealPatterns []string
	TokenCounter         tokenizer.Counter
	TokenModel           string
	Warn                 func(string)
}

type fileInspectionResult struct {
	IsBinary        bool
	MimeType        string
	Content         string
	ContentEncoding string
	Tokens          int
	Model           string
}

// inspectFile reads and classifies a single file. The second return value is
// false when the file had to be skipped entirely.
func inspectFile(path string, configuration fileInspectionConfig) (fileInspectionResult, bool) {
	warn := configuration.Warn
	if warn == nil {
		warn = func(string) {}
	}

	fileBytes, readErr := os.ReadFile(path)
	if readErr != nil {
		warn(fmt.Sprintf(warningFileReadFormat, path, readErr))
		placeholder := fileInspectionResult{
			Content:         fmt.Sprintf(unreadableFilePlaceholderFormat, path),
			ContentEncoding: types.ContentEncodingUTF8,
		}
		return placeholder, true
	}

	var result fileInspectionResult
	if utils.SniffBinary(fileBytes) {
		result.IsBinary = true
		result.MimeType = utils.DetectMimeType(path)
		if utils.ShouldRevealBinaryContentByPath(configuration.RelativePath, configuration.BinaryRevealPatterns) {
			result.Content = base64.StdEncoding.EncodeToString(fileBytes)
			result.ContentEncoding = types.ContentEncodingBase64
		}
	} else {
		result.Content = string(fileBytes)
		result.ContentEncoding = types.ContentEncodingUTF8
	}

	if configuration.TokenCounter != nil && !result.IsBinary {
		countResult, tokenErr := tokenizer.CountBytes(configuration.TokenCounter, fileBytes)
		if tokenErr != nil {
			warn(fmt.Sprintf(warningTokenCountFormat, path, tokenErr))
		} else if countResult.Counted {
			result.Tokens = countResult.Tokens
			if result.Tokens > 0 && configuration.TokenModel != "" {
				result.Model = configuration.TokenModel
			}
		}
	}

	return result, true
}
