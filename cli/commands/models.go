package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List and inspect models",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			list, err := client.Models.List(cmd.Context())
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(list)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tOWNED BY\tSTATUS")
			for _, m := range list.Data {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.OwnedBy, m.Status)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <model>",
		Short: "Show one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			m, err := client.Models.Retrieve(cmd.Context(), args[0])
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				return a.writeJSON(m)
			}

			fmt.Fprintf(a.stdout, "id:       %s\n", m.ID)
			fmt.Fprintf(a.stdout, "owned by: %s\n", m.OwnedBy)
			fmt.Fprintf(a.stdout, "status:   %s\n", m.Status)
			if m.Created > 0 {
				fmt.Fprintf(a.stdout, "created:  %s\n", time.Unix(m.Created, 0).UTC().Format(time.RFC3339))
			}
			return nil
		},
	})

	return cmd
}
