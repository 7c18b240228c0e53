package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newTemplateCmd(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage part templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <template.json>",
		Short: "Validate a template definition and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tmpl, err := root.c.TemplateService.ImportJSON(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d features (%d required)\n",
				tmpl.ID(), tmpl.Len(), len(tmpl.RequiredFeatureIDs()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := root.c.TemplateService.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <template_id>",
		Short: "Print a stored template definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := root.c.TemplateService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tmpl.Definition())
		},
	})

	var corners string
	recorner := &cobra.Command{
		Use:   "recorner <template_id>",
		Short: "Move a template to new corners and recompute fingerprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parseCorners(corners)
			if err != nil {
				return err
			}
			tmpl, err := root.c.TemplateService.Recorner(cmd.Context(), args[0], points)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "re-cornered %s\n", tmpl.ID())
			return nil
		},
	}
	recorner.Flags().StringVar(&corners, "corners", "", "New corners x1,y1,...,x4,y4 (TL, TR, BR, BL)")
	_ = recorner.MarkFlagRequired("corners")
	cmd.AddCommand(recorner)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <template_id>",
		Short: "Delete a stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.c.TemplateService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})

	return cmd
}
