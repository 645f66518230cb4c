// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

const (
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	stdoutFlagName      = "stdout"
	includeExtFlagName  = "include-ext"
	excludeExtFlagName  = "exclude-ext"
	excludeDirFlagName  = "exclude-dir"
	exclusionFlagName   = "e"
	maxBytesFlagName    = "max-bytes"
	noTreeFlagName      = "no-tree"
	lineNumbersFlagName = "line-numbers"
	noGitignoreFlagName = "no-gitignore"
	noIgnoreFlagName    = "no-ignore"
	includeGitFlagName  = "git"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	summaryFlagName     = "summary"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	versionTemplate      = "pdump version: %s\n"
	defaultPath          = "."
	rootUse              = "pdump"
	rootShortDescription = "pdump command line interface"
	rootLongDescription  = `pdump concatenates a project's text files into a single dump document
suitable for sharing with a language model. The document contains an
explanatory header, a directory tree, a flat file list, and the contents
of every included text file. Running pdump without a subcommand is
equivalent to running pdump dump.`

	dumpUse              = "dump [root]"
	dumpAlias            = "d"
	dumpShortDescription = "write the project dump document (" + dumpAlias + ")"
	dumpLongDescription  = `Produce the dump document for a project directory.
By default the document is written to <project>-dump-<timestamp>.txt in the
working directory; use --output to pick a path or --stdout to print it.`
	dumpUsageExample = `  # Dump the current project using default filters
  pdump dump

  # Only Go and Markdown files, numbered lines, straight to stdout
  pdump dump --include-ext .go --include-ext .md --line-numbers --stdout

  # Dump another project and copy the result to the clipboard
  pdump dump ../service --clipboard`

	treeUse              = "tree [root]"
	treeAlias            = "t"
	treeShortDescription = "display the directory tree (" + treeAlias + ")"
	treeLongDescription  = `Print the directory tree that a dump of the same directory would contain,
honoring the same ignore rules and directory exclusions.`
	treeUsageExample = `  # Show the tree with per-directory summaries
  pdump tree --summary

  # Exclude vendor and include token counts
  pdump tree --exclude-dir vendor --tokens`

	initUse              = "init"
	initShortDescription = "write a starter configuration file"
	initLongDescription  = `Create a commented .pdump.yaml configuration file, either in the current
directory or, with --global, under the home configuration directory.`

	versionFlagDescription     = "display application version"
	outputFlagDescription      = "output file path"
	stdoutFlagDescription      = "write the document to stdout instead of a file"
	includeExtFlagDescription  = "whitelist file extension (repeatable)"
	excludeExtFlagDescription  = "exclude file extension in addition to defaults (repeatable)"
	excludeDirFlagDescription  = "exclude directory name in addition to defaults (repeatable)"
	exclusionFlagDescription   = "exclude path pattern in ignore-file syntax (repeatable)"
	maxBytesFlagDescription    = "skip files larger than this many bytes"
	noTreeFlagDescription      = "omit the directory tree section"
	lineNumbersFlagDescription = "prefix content lines with line numbers"
	disableGitignoreFlagDesc   = "do not load .gitignore files"
	disableIgnoreFlagDesc      = "do not load .dumpignore files"
	includeGitFlagDescription  = "include the .git directory"
	tokensFlagDescription      = "include token counts"
	modelFlagDescription       = "tokenizer model to use for token counting"
	clipboardFlagDescription   = "copy the rendered document to the clipboard"
	summaryFlagDescription     = "include an aggregate summary line"
	globalFlagDescription      = "write the global configuration file"
	forceFlagDescription       = "overwrite an existing configuration file"

	defaultTokenizerModelName = "gpt-4o"

	initializedConfigurationFormat = "Wrote configuration to %s\n"
	dumpCompletedFormat            = "Wrote dump for %d files to %s\n"
	warningFormat                  = "Warning: %s\n"
	clipboardCopyErrorFormat       = "copying document to clipboard: %w"
	loadConfigurationErrorFormat   = "loading configuration: %w"
	loadIgnorePatternsErrorFormat  = "loading ignore patterns: %w"
	renderDocumentErrorFormat      = "rendering document: %w"
	writeOutputErrorFormat         = "writing output file %s: %w"
	errorAbsolutePathFormat        = "abs failed for '%s': %w"
	errorPathMissingFormat         = "path '%s' does not exist"
	errorStatFormat                = "stat failed for '%s': %w"
	errorNotDirectoryFormat        = "path '%s' is not a directory"
)

// Execute runs the pdump application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command. The root command carries
// the full dump flag set so that pdump with no subcommand behaves like
// pdump dump.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var rootDumpConfiguration dumpOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDump(command, rootDumpConfiguration, arguments)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	addDumpFlags(rootCommand, &rootDumpConfiguration)
	rootCommand.AddCommand(
		createDumpCommand(),
		createTreeCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// dispatchStream runs a producer and a consumer goroutine connected by an
// event channel and waits for both.
func dispatchStream(
	dispatchContext context.Context,
	produce func(context.Context, chan<- types.FileOutput) error,
	consume func(types.FileOutput) error,
) error {
	group, streamContext := errgroup.WithContext(dispatchContext)
	events := make(chan types.FileOutput)

	group.Go(func() error {
		defer close(events)
		return produce(streamContext, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamContext.Done():
				return streamContext.Err()
			case event, open := <-events:
				if !open {
					return nil
				}
				if consumeError := consume(event); consumeError != nil {
					return consumeError
				}
			}
		}
	})

	if waitError := group.Wait(); waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}

// resolveAndValidateRoot converts the input path to absolute form and
// validates that it names an existing directory.
func resolveAndValidateRoot(inputPath string) (types.ValidatedRoot, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedRoot{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return types.ValidatedRoot{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedRoot{}, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
	}
	if !info.IsDir() {
		return types.ValidatedRoot{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedRoot{AbsolutePath: cleanPath, Name: filepath.Base(cleanPath)}, nil
}

func stderrWarningSink() func(string) {
	return func(message string) {
		fmt.Fprintf(os.Stderr, warningFormat, message)
	}
}
