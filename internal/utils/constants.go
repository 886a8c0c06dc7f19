package utils

// Well-known file names used across the project.
const (
	// IgnoreFileName is the name of the project-local ignore file.
	IgnoreFileName = ".ccignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the name of the application configuration file.
	ConfigFileName = "codecollector.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codecollector"
	// DefaultOutputFileName is the aggregated output file written when none is configured.
	DefaultOutputFileName = "aggregated_output.txt"
	// DefaultFileExtension is the accepted extension when none is configured.
	DefaultFileExtension = ".py"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
