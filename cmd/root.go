package cmd

import (
	"fmt"
	"os"

	"github.com/adikso/dwarfdecl/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd is the base command when dwarfdecl is called without any
// subcommands.
var RootCmd = &cobra.Command{
	Use:   "dwarfdecl",
	Short: "Reconstruct C/C++ declarations from DWARF debug info",
	Long: `dwarfdecl recovers C/C++ class, struct, union and namespace declarations
from the DWARF debug info embedded in a compiled ELF binary.

It walks the DIE tree of each compile unit, reassembles method declarations
split across a class body and its out-of-line definition, and renders the
result as compilable-looking C++ headers, one per originating source file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to RootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dwarfdeclrc)")
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".dwarfdeclrc" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dwarfdeclrc")
	}

	config.SetDefaults()
	viper.SetEnvPrefix("DWARFDECL")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
