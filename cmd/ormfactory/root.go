package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xraph/ormfactory"
)

var (
	Green   = color.New(color.FgGreen).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Gray    = color.New(color.FgHiBlack).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	BoldRed = color.New(color.FgRed, color.Bold).SprintFunc()
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "ormfactory",
	Short:         "Build ORM caches and mapping drivers from configuration",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "orm.yaml", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every build")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func newLogger() ormfactory.Logger {
	if verbose {
		return ormfactory.NewDevelopmentLogger()
	}
	return ormfactory.NewNoopLogger()
}
