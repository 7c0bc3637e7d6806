package cmd

import (
	"fmt"
	"os"

	"github.com/dwgrep/zwerg/cmd/query"
	"github.com/dwgrep/zwerg/cmd/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "dwgrep",
	Short: "Inspect ELF/DWARF binaries with a grep-like query language",
	Long: `dwgrep evaluates a concatentative, stack-based query expression
against a binary and prints every result stack it produces.

This CLI is the entry point for the dwgrep query engine, providing
access to query evaluation and vocabulary documentation.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dwgrep.yaml)")
	RootCmd.AddCommand(query.QueryCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dwgrep")
	}

	viper.SetDefault("color", true)
	viper.SetDefault("verbose", false)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
