package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tipjar-labs/tipjar/internal/tip"
)

func newResolveCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "resolve <handle>",
		Short: "Show the wallet address a tip to <handle> would go to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			addr := tip.NewResolver(e.remote, e.local, e.logger).Resolve(cmd.Context(), args[0], to)
			if addr == "" {
				return fmt.Errorf("%s has not set up a wallet", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "address to fall back to")
	return cmd
}
