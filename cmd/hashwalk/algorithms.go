package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/output"
)

var algorithmsAll bool

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the hash algorithms available on this host",
	Long: `Probe every known algorithm by hashing a test vector and print the names
that work as a JSON array. This is the same list --verify-supported prints.

With --registered the list is the set hashwalk can write to a manifest,
without probing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if algorithmsAll {
			return output.WriteNames(cmd.OutOrStdout(), hasher.Supported())
		}
		return printAlgorithms(cmd)
	},
}

func init() {
	algorithmsCmd.Flags().BoolVar(&algorithmsAll, "registered", false, "list registered algorithms without probing")
	rootCmd.AddCommand(algorithmsCmd)
}

// printAlgorithms prints the probed algorithm names.
func printAlgorithms(cmd *cobra.Command) error {
	return output.WriteNames(cmd.OutOrStdout(), hasher.Probe(nil))
}
