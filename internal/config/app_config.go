package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/codecollector/internal/utils"
)

const defaultTokenizerModelName = "gpt-4o"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the keys accepted in utils.ConfigFileName.
// Pointer fields distinguish an absent key from an explicit false.
type ApplicationConfiguration struct {
	Directory    string             `mapstructure:"directory" yaml:"directory"`
	Output       string             `mapstructure:"output" yaml:"output"`
	Recursive    *bool              `mapstructure:"recursive" yaml:"recursive"`
	FileTypes    []string           `mapstructure:"file_types" yaml:"file_types"`
	Interactive  *bool              `mapstructure:"interactive" yaml:"interactive"`
	UseGitignore *bool              `mapstructure:"use_gitignore" yaml:"use_gitignore"`
	Tokens       TokenConfiguration `mapstructure:"tokens" yaml:"tokens"`
	Clipboard    *bool              `mapstructure:"clipboard" yaml:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// AggregationConfig is the fully resolved, immutable configuration of one run.
type AggregationConfig struct {
	BaseDirectory   string
	OutputPath      string
	Recursive       bool
	Extensions      []string
	Interactive     bool
	UseGitignore    bool
	CountTokens     bool
	TokenModel      string
	CopyToClipboard bool
}

// LoadApplicationConfiguration loads configuration from the global file and then the local
// (or explicitly requested) file, the latter taking precedence.
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

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s does not exist", localPath)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
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
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Directory != "" {
		result.Directory = override.Directory
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Recursive != nil {
		result.Recursive = cloneBool(override.Recursive)
	}
	if len(override.FileTypes) > 0 {
		result.FileTypes = append([]string{}, override.FileTypes...)
	}
	if override.Interactive != nil {
		result.Interactive = cloneBool(override.Interactive)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Resolve fills every unset value with its built-in default and returns the run configuration.
func (config ApplicationConfiguration) Resolve() AggregationConfig {
	resolved := AggregationConfig{
		BaseDirectory:   config.Directory,
		OutputPath:      config.Output,
		Recursive:       boolOrDefault(config.Recursive, true),
		Extensions:      utils.NormalizeExtensions(config.FileTypes),
		Interactive:     boolOrDefault(config.Interactive, false),
		UseGitignore:    boolOrDefault(config.UseGitignore, false),
		CountTokens:     boolOrDefault(config.Tokens.Enabled, false),
		TokenModel:      config.Tokens.Model,
		CopyToClipboard: boolOrDefault(config.Clipboard, false),
	}
	if resolved.BaseDirectory == "" {
		resolved.BaseDirectory = "."
	}
	if resolved.OutputPath == "" {
		resolved.OutputPath = utils.DefaultOutputFileName
	}
	if len(resolved.Extensions) == 0 {
		resolved.Extensions = []string{utils.DefaultFileExtension}
	}
	if resolved.TokenModel == "" {
		resolved.TokenModel = defaultTokenizerModelName
	}
	return resolved
}

// DefaultApplicationConfiguration returns a configuration with every key set to its built-in default.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	defaults := ApplicationConfiguration{}.Resolve()
	return ApplicationConfiguration{
		Directory:    defaults.BaseDirectory,
		Output:       defaults.OutputPath,
		Recursive:    cloneBool(&defaults.Recursive),
		FileTypes:    defaults.Extensions,
		Interactive:  cloneBool(&defaults.Interactive),
		UseGitignore: cloneBool(&defaults.UseGitignore),
		Tokens: TokenConfiguration{
			Enabled: cloneBool(&defaults.CountTokens),
			Model:   defaults.TokenModel,
		},
		Clipboard: cloneBool(&defaults.CopyToClipboard),
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
