package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRecordsCmd(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Browse the inspection log",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list <template_id>",
		Short: "List recent inspections of a template, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := root.c.InspectionService.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range records {
				verdict := "PASS"
				if !r.Passed {
					verdict = "FAIL"
				}
				fmt.Fprintf(w, "%s  %s  %s  %s\n", r.ID, r.CreatedAt.Format(time.RFC3339), r.Strategy, verdict)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of records (0 = all)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <record_id>",
		Short: "Print one inspection record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := root.c.InspectionService.Record(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), record)
		},
	})

	return cmd
}
