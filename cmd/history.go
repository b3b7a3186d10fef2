package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kvload/internal/report"
	"kvload/internal/storage"
	"kvload/internal/tui/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.List(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), history.Render(items))
			return nil
		},
	}
	historyCmd.Flags().IntP("limit", "n", 20, "number of runs to show, 0 for all")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.Get(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, item.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out, report.Header(item.Config))
			fmt.Fprintln(out, report.Render(&item.Report))
			return nil
		},
	}

	historyCmd.AddCommand(showCmd)
	return historyCmd
}

func (a *app) openStore() (*storage.Store, error) {
	path, err := a.historyPath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}
