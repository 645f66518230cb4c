package utils

// File names with special meaning to the dumper.
const (
	// DumpIgnoreFileName is the name of the project's own ignore file.
	DumpIgnoreFileName = ".dumpignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the application configuration file.
	ConfigFileName = ".pdump.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that
	// holds the global configuration file.
	GlobalConfigDirectoryName = ".pdump"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal execution errors.
const ApplicationExecutionFailedMessage = "pdump execution failed"
