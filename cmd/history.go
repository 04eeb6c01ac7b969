package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"uguulink/internal/history"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous uploads",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the upload history",
	Args:  cobra.NoArgs,
	RunE:  historyClearRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := history.OpenDefault()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	records, err := store.Load(cmd.Context(), flagLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if flagJSON {
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No uploads recorded yet.")
		return nil
	}

	for _, line := range history.FormatForDisplay(records) {
		fmt.Fprintln(cmd.OutOrStdout(), styleMuted(line))
	}
	return nil
}

func historyClearRun(cmd *cobra.Command, args []string) error {
	store, err := history.OpenDefault()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
