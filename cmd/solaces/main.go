package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "solaces",
	Short:         "Personal control panel: home devices, systems atlas, oracle journal and memory keep",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(oracleCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(briefingCmd)
	rootCmd.AddCommand(synthesisCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dataCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
