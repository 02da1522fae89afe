package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tipjar-labs/tipjar/internal/profile"
	"github.com/tipjar-labs/tipjar/internal/tip"
)

func newStatsCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your tip stats",
		Long:  `Stats shows the locally tracked stats for TIPPER_USER next to the profile service's view and the merged result.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			rec := tip.NewReconciler(e.local, e.user())
			if reset {
				if err := rec.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "local stats cleared")
				return nil
			}

			local, err := rec.Local(cmd.Context())
			if err != nil {
				return err
			}
			var remote profile.WalletStats
			if e.cfg.User != "" {
				p, err := e.remote.Fetch(cmd.Context(), e.cfg.User)
				if err != nil {
					e.logger.Warn("profile service unavailable, showing local stats", slog.Any("error", err))
				} else {
					remote = p.Stats()
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "user: %s\n", e.user())
			printStats(w, "local", local)
			printStats(w, "remote", remote)
			printStats(w, "combined", tip.Merge(local, remote))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the local stats")
	return cmd
}

func printStats(w io.Writer, label string, s profile.WalletStats) {
	fmt.Fprintf(w, "%-9s earnings=%g balance=%g donations=%d\n", label+":", s.Earnings, s.Balance, s.Donations)
}
