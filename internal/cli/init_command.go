package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/temirov/codecollector/internal/config"
	"github.com/temirov/codecollector/internal/utils"
)

const (
	initUse              = "init"
	initShortDescription = "write a default " + utils.ConfigFileName
	initLongDescription  = `Write the built-in defaults to ` + utils.ConfigFileName + ` in the current directory,
or to ~/` + utils.GlobalConfigDirectoryName + `/` + utils.ConfigFileName + ` with --global. Command line flags always take
precedence over configuration files, and a local file takes precedence over the global one.`
	globalFlagName             = "global"
	forceFlagName              = "force"
	globalFlagDescription      = "write the global configuration instead of the local one"
	forceFlagDescription       = "overwrite an existing configuration file"
	configurationWrittenFormat = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	var writeGlobal bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initError != nil {
				return fmt.Errorf(errorInitConfigFormat, initError)
			}
			color.New(color.FgGreen).Fprintf(app.output, configurationWrittenFormat, destinationPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &writeGlobal, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}
