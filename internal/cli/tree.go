package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placerte/project-dumper/internal/commands"
	"github.com/placerte/project-dumper/internal/config"
	"github.com/placerte/project-dumper/internal/output"
	"github.com/placerte/project-dumper/internal/tokenizer"
	"github.com/placerte/project-dumper/internal/utils"
)

// treeOptions stores the flag values of the tree command.
type treeOptions struct {
	excludeDirectories []string
	exclusionPatterns  []string
	disableGitignore   bool
	disableIgnoreFile  bool
	includeGit         bool
	tokensEnabled      bool
	tokenModel         string
	summaryEnabled     bool
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand() *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runTree(command, options, arguments)
		},
	}

	treeCommand.Flags().StringArrayVar(&options.excludeDirectories, excludeDirFlagName, nil, excludeDirFlagDescription)
	treeCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	treeCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDesc)
	treeCommand.Flags().BoolVar(&options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDesc)
	treeCommand.Flags().BoolVar(&options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	treeCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	treeCommand.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	treeCommand.Flags().BoolVar(&options.summaryEnabled, summaryFlagName, false, summaryFlagDescription)
	return treeCommand
}

// applyTreeConfiguration fills options from the application configuration for
// every flag the user did not set explicitly.
func applyTreeConfiguration(command *cobra.Command, options *treeOptions, configuration config.TreeCommandConfiguration) {
	flags := command.Flags()

	if !flags.Changed(summaryFlagName) && configuration.Summary != nil {
		options.summaryEnabled = *configuration.Summary
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
}

// runTree executes the tree command against a single root directory.
func runTree(command *cobra.Command, options treeOptions, arguments []string) error {
	rootArgument := defaultPath
	if len(arguments) > 0 {
		rootArgument = arguments[0]
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorFormat, configurationError)
	}
	applyTreeConfiguration(command, &options, applicationConfiguration.Tree)

	validatedRoot, rootValidationError := resolveAndValidateRoot(rootArgument)
	if rootValidationError != nil {
		return rootValidationError
	}

	excludeDirectoryNames := utils.DeduplicatePatterns(
		append(append([]string{}, config.DefaultExcludedDirectoryNames...), options.excludeDirectories...),
	)

	ignorePatterns, _, ignoreLoadError := config.LoadRecursiveIgnorePatterns(
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

	treeBuilder := &commands.TreeBuilder{
		IgnorePatterns:        ignorePatterns,
		ExcludeDirectoryNames: excludeDirectoryNames,
		IncludeSummary:        options.summaryEnabled,
		TokenCounter:          tokenCounter,
		TokenModel:            tokenModel,
		Warn:                  stderrWarningSink(),
	}
	treeNode, treeError := treeBuilder.GetTreeData(validatedRoot.AbsolutePath)
	if treeError != nil {
		return treeError
	}

	output.WriteTreeRaw(command.OutOrStdout(), treeNode, options.summaryEnabled)
	return nil
}
