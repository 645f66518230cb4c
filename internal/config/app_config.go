package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/placerte/project-dumper/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Dump DumpCommandConfiguration `mapstructure:"dump"`
	Tree TreeCommandConfiguration `mapstructure:"tree"`
}

// DumpCommandConfiguration defines defaults for the dump command.
type DumpCommandConfiguration struct {
	Output       string             `mapstructure:"output"`
	Stdout       *bool              `mapstructure:"stdout"`
	LineNumbers  *bool              `mapstructure:"line_numbers"`
	Tree         *bool              `mapstructure:"tree"`
	Summary      *bool              `mapstructure:"summary"`
	MaxFileBytes *int64             `mapstructure:"max_bytes"`
	Clipboard    *bool              `mapstructure:"clipboard"`
	Tokens       TokenConfiguration `mapstructure:"tokens"`
	Paths        PathConfiguration  `mapstructure:"paths"`
}

// TreeCommandConfiguration defines defaults for the tree command.
type TreeCommandConfiguration struct {
	Summary *bool              `mapstructure:"summary"`
	Tokens  TokenConfiguration `mapstructure:"tokens"`
	Paths   PathConfiguration  `mapstructure:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures inclusion and exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude            []string `mapstructure:"exclude"`
	ExcludeDirectories []string `mapstructure:"exclude_dirs"`
	IncludeExtensions  []string `mapstructure:"include_ext"`
	ExcludeExtensions  []string `mapstructure:"exclude_ext"`
	UseGitignore       *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile      *bool    `mapstructure:"use_ignore"`
	IncludeGit         *bool    `mapstructure:"include_git"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// The local file overrides the global one; both are optional.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Dump.Paths.Exclude = utils.DeduplicatePatterns(merged.Dump.Paths.Exclude)
	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var configuration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Dump = result.Dump.merge(override.Dump)
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (configuration DumpCommandConfiguration) merge(override DumpCommandConfiguration) DumpCommandConfiguration {
	result := configuration
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Stdout != nil {
		result.Stdout = cloneBool(override.Stdout)
	}
	if override.LineNumbers != nil {
		result.LineNumbers = cloneBool(override.LineNumbers)
	}
	if override.Tree != nil {
		result.Tree = cloneBool(override.Tree)
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.MaxFileBytes != nil {
		result.MaxFileBytes = cloneInt64(override.MaxFileBytes)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration TreeCommandConfiguration) merge(override TreeCommandConfiguration) TreeCommandConfiguration {
	result := configuration
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.ExcludeDirectories) > 0 {
		result.ExcludeDirectories = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirectories)...)
	}
	if len(override.IncludeExtensions) > 0 {
		result.IncludeExtensions = append([]string{}, utils.DeduplicatePatterns(override.IncludeExtensions)...)
	}
	if len(override.ExcludeExtensions) > 0 {
		result.ExcludeExtensions = append([]string{}, utils.DeduplicatePatterns(override.ExcludeExtensions)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = cloneBool(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
