// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/codecollector/internal/aggregate"
	"github.com/temirov/codecollector/internal/config"
	"github.com/temirov/codecollector/internal/ignore"
	"github.com/temirov/codecollector/internal/selection"
	"github.com/temirov/codecollector/internal/services/clipboard"
	"github.com/temirov/codecollector/internal/tokenizer"
	"github.com/temirov/codecollector/internal/tree"
	"github.com/temirov/codecollector/internal/tui"
	"github.com/temirov/codecollector/internal/utils"
)

const (
	directoryFlagName    = "directory"
	outputFlagName       = "output"
	recursiveFlagName    = "recursive"
	fileTypesFlagName    = "file-types"
	interactiveFlagName  = "interactive"
	gitignoreFlagName    = "gitignore"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	configFlagName       = "config"
	verboseFlagName      = "verbose"
	versionFlagName      = "version"
	rootUse              = "codecollector"
	rootShortDescription = "aggregate source files into a single document"
	rootLongDescription  = `codecollector walks a project directory, skips ignored paths (.ccignore plus built-in
defaults such as .git and __pycache__) and concatenates every file with an accepted extension
into one output file, each preceded by a "// File: <path>" header.
Use --interactive to pick files and directories from a tree view before aggregating.`
	rootUsageExample = `  # Aggregate Python and JavaScript files from ./src
  codecollector -d ./src -t .py -t .js -o context.txt

  # Only the top level of the project, without descending into subdirectories
  codecollector --no-recursive

  # Choose files interactively and report token usage
  codecollector -i --tokens`

	directoryFlagDescription   = "base directory to start searching from"
	outputFlagDescription      = "output file name"
	recursiveFlagDescription   = "descend into subdirectories (--no-recursive to disable)"
	fileTypesFlagDescription   = "file extension to include (repeatable)"
	interactiveFlagDescription = "launch interactive selection mode"
	gitignoreFlagDescription   = "also skip paths matched by the base directory's .gitignore"
	tokensFlagDescription      = "report token counts of the aggregated files"
	modelFlagDescription       = "tokenizer model to use for token counting"
	copyFlagDescription        = "copy the aggregated document to the clipboard"
	configFlagDescription      = "path to a configuration file (default ./" + utils.ConfigFileName + ")"
	verboseFlagDescription     = "log ignore decisions and tree construction"
	versionFlagDescription     = "display application version"

	versionTemplate          = "codecollector version: %s\n"
	aggregatedMessageFormat  = "Aggregated %d files into %s\n"
	quitMessage              = "Quitting without processing selection.\n"
	copiedMessage            = "Copied aggregated output to clipboard.\n"
	clipboardWarningFormat   = "Warning: %v\n"
	errorLoadConfigFormat    = "load configuration: %w"
	errorLoadPatternsFormat  = "load ignore patterns: %w"
	errorBuildTreeFormat     = "build tree for %s: %w"
	errorTokenizerFormat     = "initialize tokenizer: %w"
	errorReadOutputFormat    = "read aggregated output %s: %w"
	errorInteractiveFormat   = "interactive selection: %w"
	errorInitConfigFormat    = "initialize configuration: %w"
	defaultDirectory         = "."
	scriptedSelectionMessage = "Standard input is not a terminal; reading selection events line by line"
)

// application carries the collaborators of one command invocation.
type application struct {
	input       io.Reader
	output      io.Writer
	errorOutput io.Writer
	logger      *zap.Logger
	logLevel    zap.AtomicLevel
	copier      clipboard.Copier
	isTerminal  func(input io.Reader) bool
}

// rootOptions holds the raw flag values of the root command.
type rootOptions struct {
	directory   string
	output      string
	recursive   bool
	fileTypes   []string
	interactive bool
	gitignore   bool
	tokens      bool
	model       string
	copy        bool
	configPath  string
	verbose     bool
	showVersion bool
}

// Execute runs the codecollector application. logLevel is raised to debug when --verbose is set.
func Execute(logger *zap.Logger, logLevel zap.AtomicLevel) error {
	app := &application{
		input:       os.Stdin,
		output:      os.Stdout,
		errorOutput: os.Stderr,
		logger:      logger,
		logLevel:    logLevel,
		copier:      clipboard.NewService(),
		isTerminal:  isTerminalInput,
	}
	rootCommand := app.createRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

func isTerminalInput(input io.Reader) bool {
	file, isFile := input.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// createRootCommand builds the root Cobra command.
func (app *application) createRootCommand() *cobra.Command {
	options := &rootOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose {
				app.logLevel.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(app.output, versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			aggregationConfig, configError := app.resolveConfiguration(command, options)
			if configError != nil {
				return configError
			}
			return app.run(aggregationConfig, options.verbose)
		},
	}
	rootCommand.SetOut(app.output)
	rootCommand.SetErr(app.errorOutput)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.directory, directoryFlagName, "d", defaultDirectory, directoryFlagDescription)
	flagSet.StringVarP(&options.output, outputFlagName, "o", utils.DefaultOutputFileName, outputFlagDescription)
	registerBooleanFlag(flagSet, &options.recursive, recursiveFlagName, "r", true, recursiveFlagDescription)
	flagSet.StringArrayVarP(&options.fileTypes, fileTypesFlagName, "t", []string{utils.DefaultFileExtension}, fileTypesFlagDescription)
	registerBooleanFlag(flagSet, &options.interactive, interactiveFlagName, "i", false, interactiveFlagDescription)
	registerBooleanFlag(flagSet, &options.gitignore, gitignoreFlagName, "", false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flagSet.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flagSet, &options.copy, copyFlagName, "", false, copyFlagDescription)
	flagSet.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(app.createInitCommand())
	return rootCommand
}

// resolveConfiguration layers explicitly set flags over the configuration files.
func (app *application) resolveConfiguration(command *cobra.Command, options *rootOptions) (config.AggregationConfig, error) {
	fileConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if loadError != nil {
		return config.AggregationConfig{}, fmt.Errorf(errorLoadConfigFormat, loadError)
	}
	return fileConfiguration.Merge(flagOverrides(command, options)).Resolve(), nil
}

// flagOverrides returns a configuration holding only the flags the user set on the command line.
func flagOverrides(command *cobra.Command, options *rootOptions) config.ApplicationConfiguration {
	flagSet := command.Flags()
	var overrides config.ApplicationConfiguration
	if flagSet.Changed(directoryFlagName) {
		overrides.Directory = options.directory
	}
	if flagSet.Changed(outputFlagName) {
		overrides.Output = options.output
	}
	if flagSet.Changed(recursiveFlagName) {
		overrides.Recursive = boolPointer(options.recursive)
	}
	if flagSet.Changed(fileTypesFlagName) {
		overrides.FileTypes = append([]string{}, options.fileTypes...)
	}
	if flagSet.Changed(interactiveFlagName) {
		overrides.Interactive = boolPointer(options.interactive)
	}
	if flagSet.Changed(gitignoreFlagName) {
		overrides.UseGitignore = boolPointer(options.gitignore)
	}
	if flagSet.Changed(tokensFlagName) {
		overrides.Tokens.Enabled = boolPointer(options.tokens)
	}
	if flagSet.Changed(modelFlagName) {
		overrides.Tokens.Model = options.model
	}
	if flagSet.Changed(copyFlagName) {
		overrides.Clipboard = boolPointer(options.copy)
	}
	return overrides
}

func boolPointer(value bool) *bool {
	return &value
}

// run builds the tree, narrows it down interactively when requested and writes the output.
func (app *application) run(aggregationConfig config.AggregationConfig, verbose bool) error {
	logger := utils.LoggerOrNop(app.logger)
	logger.Debug("Resolved configuration",
		zap.String("directory", aggregationConfig.BaseDirectory),
		zap.String("output", aggregationConfig.OutputPath),
		zap.Bool("recursive", aggregationConfig.Recursive),
		zap.Strings("file_types", aggregationConfig.Extensions),
		zap.Bool("interactive", aggregationConfig.Interactive),
	)

	filePaths, proceed, collectError := app.collectFiles(aggregationConfig, verbose)
	if collectError != nil {
		return collectError
	}
	if !proceed {
		fmt.Fprint(app.output, quitMessage)
		return nil
	}

	aggregator := aggregate.Aggregator{Logger: logger}
	if aggregationConfig.CountTokens {
		counter, model, counterError := tokenizer.NewCounter(tokenizer.Config{Model: aggregationConfig.TokenModel})
		if counterError != nil {
			return fmt.Errorf(errorTokenizerFormat, counterError)
		}
		aggregator.Counter = counter
		aggregator.Model = model
	}

	result, aggregateError := aggregator.AggregateToFile(filePaths, aggregationConfig.OutputPath)
	if aggregateError != nil {
		return aggregateError
	}
	color.New(color.FgGreen).Fprintf(app.output, aggregatedMessageFormat, result.Processed, aggregationConfig.OutputPath)
	if aggregationConfig.CountTokens {
		fmt.Fprintln(app.output, aggregate.FormatSummaryLine(result))
	}

	if aggregationConfig.CopyToClipboard {
		return app.copyOutput(aggregationConfig.OutputPath)
	}
	return nil
}

// collectFiles returns the files to aggregate. proceed is false when the user quit the
// interactive selection.
func (app *application) collectFiles(aggregationConfig config.AggregationConfig, verbose bool) (filePaths []string, proceed bool, err error) {
	logger := utils.LoggerOrNop(app.logger)
	patterns, patternsError := config.LoadIgnorePatterns(aggregationConfig.BaseDirectory)
	if patternsError != nil {
		return nil, false, fmt.Errorf(errorLoadPatternsFormat, patternsError)
	}
	logger.Debug("Loaded ignore patterns", zap.Strings("patterns", patterns))

	matcher, matcherError := ignore.NewMatcher(ignore.MatcherOptions{
		BaseDirectory: aggregationConfig.BaseDirectory,
		Patterns:      patterns,
		UseGitignore:  aggregationConfig.UseGitignore,
		Logger:        logger,
	})
	if matcherError != nil {
		return nil, false, matcherError
	}

	builder := tree.Builder{
		Ignorer:     matcher,
		Extensions:  aggregationConfig.Extensions,
		Recursive:   aggregationConfig.Recursive,
		Interactive: aggregationConfig.Interactive,
		Logger:      logger,
	}
	builtTree, buildError := builder.Build(aggregationConfig.BaseDirectory)
	if errors.Is(buildError, tree.ErrRootIgnored) {
		logger.Warn("Base directory is ignored; nothing to aggregate", zap.String("directory", aggregationConfig.BaseDirectory))
		return nil, true, nil
	}
	if buildError != nil {
		return nil, false, fmt.Errorf(errorBuildTreeFormat, aggregationConfig.BaseDirectory, buildError)
	}

	if !aggregationConfig.Interactive {
		return builtTree.Files(), true, nil
	}

	controller := selection.NewController(builtTree)
	outcome, selectionError := app.selectInteractively(controller, verbose)
	if selectionError != nil {
		return nil, false, fmt.Errorf(errorInteractiveFormat, selectionError)
	}
	if outcome != selection.OutcomeFinished {
		return nil, false, nil
	}
	return controller.SelectedFiles(), true, nil
}

// selectInteractively runs the terminal UI, or reads event names line by line when standard
// input is not a terminal.
func (app *application) selectInteractively(controller *selection.Controller, verbose bool) (selection.Outcome, error) {
	if app.isTerminal != nil && app.isTerminal(app.input) {
		return tui.Run(controller, app.input, app.output)
	}
	utils.LoggerOrNop(app.logger).Info(scriptedSelectionMessage)
	var render func(*selection.Controller) error
	if verbose {
		render = func(current *selection.Controller) error {
			return current.Render(app.errorOutput)
		}
	}
	return controller.Run(selection.NewLineEventSource(app.input), render)
}

// copyOutput places the aggregated document on the clipboard. Clipboard failures are reported
// as warnings because the output file has already been written.
func (app *application) copyOutput(outputPath string) error {
	content, readError := os.ReadFile(outputPath)
	if readError != nil {
		return fmt.Errorf(errorReadOutputFormat, outputPath, readError)
	}
	if copyError := app.copier.Copy(string(content)); copyError != nil {
		utils.LoggerOrNop(app.logger).Warn("Clipboard copy failed", zap.Error(copyError))
		color.New(color.FgYellow).Fprintf(app.errorOutput, clipboardWarningFormat, copyError)
		return nil
	}
	fmt.Fprint(app.output, copiedMessage)
	return nil
}
