package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/placerte/project-dumper/internal/commands"
	"github.com/placerte/project-dumper/internal/config"
	"github.com/placerte/project-dumper/internal/output"
	"github.com/placerte/project-dumper/internal/project"
	"github.com/placerte/project-dumper/internal/services/clipboard"
	"github.com/placerte/project-dumper/internal/tokenizer"
	"github.com/placerte/project-dumper/internal/types"
	"github.com/placerte/project-dumper/internal/utils"
)

// dumpOptions stores the flag values of the dump command.
type dumpOptions struct {
	outputPath         string
	toStdout           bool
	includeExtensions  []string
	excludeExtensions  []string
	excludeDirectories []string
	exclusionPatterns  []string
	maxFileBytes       int64
	noTree             bool
	lineNumbers        bool
	disableGitignore   bool
	disableIgnoreFile  bool
	includeGit         bool
	tokensEnabled      bool
	tokenModel         string
	clipboardEnabled   bool
	summaryEnabled     bool
}

// addDumpFlags registers the dump flag set on the command.
func addDumpFlags(command *cobra.Command, options *dumpOptions) {
	command.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	command.Flags().BoolVar(&options.toStdout, stdoutFlagName, false, stdoutFlagDescription)
	command.Flags().StringArrayVar(&options.includeExtensions, includeExtFlagName, nil, includeExtFlagDescription)
	command.Flags().StringArrayVar(&options.excludeExtensions, excludeExtFlagName, nil, excludeExtFlagDescription)
	command.Flags().StringArrayVar(&options.excludeDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().Int64Var(&options.maxFileBytes, maxBytesFlagName, config.DefaultMaxFileBytes, maxBytesFlagDescription)
	command.Flags().BoolVar(&options.noTree, noTreeFlagName, false, noTreeFlagDescription)
	command.Flags().BoolVar(&options.lineNumbers, lineNumbersFlagName, false, lineNumbersFlagDescription)
	command.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDesc)
	command.Flags().BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDesc)
	command.Flags().BoolVar(&options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	command.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	command.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	command.Flags().BoolVar(&options.clipboardEnabled, clipboardFlagName, false, clipboardFlagDescription)
	command.Flags().BoolVar(&options.summaryEnabled, summaryFlagName, false, summaryFlagDescription)
}

// createDumpCommand returns the dump subcommand.
func createDumpCommand() *cobra.Command {
	var options dumpOptions

	dumpCommand := &cobra.Command{
		Use:     dumpUse,
		Aliases: []string{dumpAlias},
		Short:   dumpShortDescription,
		Long:    dumpLongDescription,
		Example: dumpUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runDump(command, options, arguments)
		},
	}

	addDumpFlags(dumpCommand, &options)
	return dumpCommand
}

// applyDumpConfiguration fills options from the application configuration for
// every flag the user did not set explicitly. List-valued configuration is
// appended to flag values rather than replaced.
func applyDumpConfiguration(command *cobra.Command, options *dumpOptions, configuration config.DumpCommandConfiguration) {
	flags := command.Flags()

	if !flags.Changed(outputFlagName) && configuration.Output != "" {
		options.outputPath = configuration.Output
	}
	if !flags.Changed(stdoutFlagName) && configuration.Stdout != nil {
		options.toStdout = *configuration.Stdout
	}
	if !flags.Changed(lineNumbersFlagName) && configuration.LineNumbers != nil {
		options.lineNumbers = *configuration.LineNumbers
	}
	if !flags.Changed(noTreeFlagName) && configuration.Tree != nil {
		options.noTree = !*configuration.Tree
	}
	if !flags.Changed(summaryFlagName) && configuration.Summary != nil {
		options.summaryEnabled = *configuration.Summary
	}
	if !flags.Changed(maxBytesFlagName) && configuration.MaxFileBytes != nil {
		options.maxFileBytes = *configuration.MaxFileBytes
	}
	if !flags.Changed(clipboardFlagName) && configuration.Clipboard != nil {
		options.clipboardEnabled = *configuration.Clipboard
	}
	if !flags.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.tokensEnabled = *configuration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.tokenModel = configuration.Tokens.Model
	}
	if !flags.Changed(noGitignoreFlagName) && configuration.Paths.UseGitignore != nil {
		options.disableGitignore = !*configuration.Paths.UseGitignore
	}
	if !flags.Changed(noIgnoreFlagName) && configuration.Paths.UseIgnoreFile != nil {
		options.disableIgnoreFile = !*configuration.Paths.UseIgnoreFile
	}
	if !flags.Changed(includeGitFlagName) && configuration.Paths.IncludeGit != nil {
		options.includeGit = *configuration.Paths.IncludeGit
	}
	options.exclusionPatterns = append(options.exclusionPatterns, configuration.Paths.Exclude...)
	options.excludeDirectories = append(options.excludeDirectories, configuration.Paths.ExcludeDirectories...)
	options.includeExtensions = append(options.includeExtensions, configuration.Paths.IncludeExtensions...)
	options.excludeExtensions = append(options.excludeExtensions, configuration.Paths.ExcludeExtensions...)
}

// runDump executes the dump command against a single root directory.
func runDump(command *cobra.Command, options dumpOptions, arguments []string) error {
	rootArgument := defaultPath
	if len(arguments) > 0 {
		rootArgument = arguments[0]
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorFormat, configurationError)
	}
	applyDumpConfiguration(command, &options, applicationConfiguration.Dump)

	validatedRoot, rootValidationError := resolveAndValidateRoot(rootArgument)
	if rootValidationError != nil {
		return rootValidationError
	}

	excludeDirectoryNames := utils.DeduplicatePatterns(
		append(append([]string{}, config.DefaultExcludedDirectoryNames...), options.excludeDirectories...),
	)
	excludeExtensions := utils.DeduplicatePatterns(
		append(append([]string{}, config.DefaultExcludedExtensions...), options.excludeExtensions...),
	)

	ignorePatterns, binaryRevealPatterns, ignoreLoadError := config.LoadRecursiveIgnorePatterns(
		validatedRoot.AbsolutePath,
		options.exclusionPatterns,
		!options.disableGitignore,
		!options.disableIgnoreFile,
		options.includeGit,
	)
	if ignoreLoadError != nil {
		return fmt.Errorf(loadIgnorePatternsErrorFormat, ignoreLoadError)
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if options.tokensEnabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.tokenModel})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	warn := stderrWarningSink()

	var outputFilePath string
	var skipAbsolutePaths []string
	if !options.toStdout {
		outputFilePath = options.outputPath
		if outputFilePath == "" {
			outputFilePath = defaultOutputFileName(validatedRoot.Name, time.Now())
		}
		if absoluteOutputPath, absoluteOutputError := filepath.Abs(outputFilePath); absoluteOutputError == nil {
			skipAbsolutePaths = append(skipAbsolutePaths, absoluteOutputPath)
		}
	}

	collectOptions := commands.CollectOptions{
		Root:                  validatedRoot.AbsolutePath,
		IgnorePatterns:        ignorePatterns,
		BinaryRevealPatterns:  binaryRevealPatterns,
		ExcludeDirectoryNames: excludeDirectoryNames,
		IncludeExtensions:     options.includeExtensions,
		ExcludeExtensions:     excludeExtensions,
		MaxFileBytes:          options.maxFileBytes,
		SkipAbsolutePaths:     skipAbsolutePaths,
		TokenCounter:          tokenCounter,
		TokenModel:            tokenModel,
		Warn:                  warn,
	}

	var collected []types.FileOutput
	collectError := dispatchStream(
		context.Background(),
		func(streamContext context.Context, events chan<- types.FileOutput) error {
			return commands.StreamFiles(streamContext, collectOptions, events)
		},
		func(file types.FileOutput) error {
			collected = append(collected, file)
			return nil
		},
	)
	if collectError != nil {
		return collectError
	}

	var treeNode *types.TreeOutputNode
	if !options.noTree {
		treeBuilder := &commands.TreeBuilder{
			IgnorePatterns:        ignorePatterns,
			ExcludeDirectoryNames: excludeDirectoryNames,
			TokenCounter:          tokenCounter,
			TokenModel:            tokenModel,
			Warn:                  warn,
		}
		builtTree, treeError := treeBuilder.GetTreeData(validatedRoot.AbsolutePath)
		if treeError != nil {
			return treeError
		}
		treeNode = builtTree
	}

	var summary *types.OutputSummary
	if options.summaryEnabled {
		summary = output.ComputeSummary(collected, tokenModel)
	}

	projectMetadata, projectDetectError := project.Detect(validatedRoot.AbsolutePath)
	if projectDetectError != nil {
		warn(projectDetectError.Error())
	}

	documentOptions := output.DocumentOptions{
		Root:                  validatedRoot,
		GeneratedAt:           time.Now(),
		Project:               projectMetadata,
		Tree:                  treeNode,
		Summary:               summary,
		LineNumbers:           options.lineNumbers,
		IncludeExtensions:     options.includeExtensions,
		ExcludeExtensions:     excludeExtensions,
		ExcludeDirectoryNames: excludeDirectoryNames,
	}

	var documentBuffer bytes.Buffer
	if renderError := output.RenderDocument(&documentBuffer, documentOptions, collected); renderError != nil {
		return fmt.Errorf(renderDocumentErrorFormat, renderError)
	}

	if options.clipboardEnabled {
		if copyError := clipboard.NewService().Copy(documentBuffer.String()); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}

	if options.toStdout {
		_, stdoutWriteError := command.OutOrStdout().Write(documentBuffer.Bytes())
		return stdoutWriteError
	}
	if writeError := os.WriteFile(outputFilePath, documentBuffer.Bytes(), 0o644); writeError != nil {
		return fmt.Errorf(writeOutputErrorFormat, outputFilePath, writeError)
	}
	fmt.Fprintf(command.OutOrStdout(), dumpCompletedFormat, len(collected), outputFilePath)
	return nil
}

// defaultOutputFileName derives the dump file name from the project name and
// the current time.
func defaultOutputFileName(projectName string, now time.Time) string {
	return fmt.Sprintf("%s-dump-%s.txt", projectName, utils.FormatFileStamp(now))
}
