package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xraph/ormfactory"
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "List the built-in cache configurations",
	Args:  cobra.NoArgs,
	RunE:  listDefaults,
}

func init() {
	rootCmd.AddCommand(defaultsCmd)
}

func listDefaults(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, key := range ormfactory.DefaultCacheKeys() {
		entry := ormfactory.DefaultCacheConfig(key)
		class, _ := entry.Class()
		fmt.Fprintf(out, "%s %s\n", Bold(key), Green(class))

		params := make([]string, 0, len(entry))
		for k := range entry {
			if k != "class" {
				params = append(params, k)
			}
		}
		sort.Strings(params)
		for _, k := range params {
			fmt.Fprintf(out, "  %s %v\n", Gray(k+":"), entry[k])
		}
	}
	return nil
}
