package commands

import "github.com/placerte/project-dumper/internal/tokenizer"

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	IgnorePatterns        []string
	ExcludeDirectoryNames []string
	IncludeSummary        bool
	TokenCounter          tokenizer.Counter
	TokenModel            string
	Warn                  func(string)
}

func (treeBuilder *TreeBuilder) warn(message string) {
	if treeBuilder.Warn != nil {
		treeBuilder.Warn(message)
	}
}
