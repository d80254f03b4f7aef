// Command firesim runs the probabilistic wildland-fire-growth
// Monte-Carlo simulator. Its command structure follows inmaputil's
// Cfg/cobra tree: a Root command carrying shared configuration, with
// "run" and "version" subcommands, configuration bindable by flag,
// "FIRESIM_"-prefixed environment variable, or TOML file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildfiresim/firesim/internal/config"
)

// version is the firesim release identifier, set at build time via
// -ldflags, matching the teacher's inmap.Version convention.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "firesim",
		Short: "A probabilistic wildland fire growth Monte-Carlo simulator.",
		Long: `firesim replicates cell-point fire growth scenarios across random
threshold realizations drawn from the Canadian Forest Fire Behavior
Prediction system, and aggregates the results into burn-probability
surfaces.

Configuration can be set with a TOML file (--config), with command-line
flags, or with environment variables of the form FIRESIM_VAR, where VAR
is the flag name with dashes replaced by underscores.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML configuration file")

	if err := config.BindFlags(root.PersistentFlags(), v, config.Defaults()); err != nil {
		panic(err)
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newRunCmd(v, &cfgFile))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "firesim v%s\n", version)
		},
	}
}
