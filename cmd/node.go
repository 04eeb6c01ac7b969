package cmd

import (
	"github.com/spf13/cobra"

	"uguulink/internal/node"
)

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Print the node registration mappings as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, node.Register())
	},
}
