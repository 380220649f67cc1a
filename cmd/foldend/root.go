package main

import (
	"github.com/spf13/cobra"

	foldendcmd "github.com/foldend/foldend/cmd"
	"github.com/foldend/foldend/pkg/foldend"
)

// rootConfiguration holds the values of the root command's persistent
// flags, shared by every subcommand.
var rootConfiguration struct {
	// configPath is the path to the daemon configuration document. Empty
	// means "use the default path computed from the foldend data
	// directory".
	configPath string
}

var rootCommand = &cobra.Command{
	Use:          "foldend",
	Short:        "foldend watches directories and runs configured pipelines against matching files",
	Args:         foldendcmd.DisallowArguments,
	SilenceUsage: true,
	RunE: func(command *cobra.Command, arguments []string) error {
		return command.Help()
	},
}

func init() {
	rootCommand.PersistentFlags().StringVar(
		&rootConfiguration.configPath, "config", "",
		"specify the path to the daemon configuration document",
	)
	rootCommand.PersistentFlags().BoolVar(
		&foldend.DebugEnabled, "debug", false,
		"enable debug-level logging",
	)
}
