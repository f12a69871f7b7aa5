package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
)

func newKeysCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Inspect the SerpAPI credential pool",
	}
	cmd.AddCommand(newKeysStatusCmd(opts))
	return cmd
}

func newKeysStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print per-credential usage for the current month",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			app, err := buildApp(cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			status, err := app.Pool.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "credentials: %d  available: %d  used: %d/%d\n",
				len(status.Keys), status.Available, status.UsedTotal, status.Capacity)
			for _, k := range status.Keys {
				marker := ""
				if k.Used >= credential.MonthlyCap {
					marker = "  EXHAUSTED"
				}
				fmt.Fprintf(out, "  %-12s %3d/%d%s\n", k.Name, k.Used, credential.MonthlyCap, marker)
			}
			return nil
		},
	}
}
