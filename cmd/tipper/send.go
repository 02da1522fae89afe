package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tipjar-labs/tipjar/internal/tip"
	"github.com/tipjar-labs/tipjar/internal/wallet"
)

func newSendCmd() *cobra.Command {
	var (
		message string
		name    string
		to      string
	)
	cmd := &cobra.Command{
		Use:   "send <handle> <amount>",
		Short: "Send a tip to a streamer",
		Long: `Send transfers <amount> of the network's native token to the wallet registered
for <handle>. The address is looked up again right before sending; --to is only used
when neither the profile service nor the local cache knows one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			amount, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			provider, closeWallet := dialWallet(cmd.Context(), e)
			defer closeWallet()

			sender := tip.NewSender(
				tip.NewResolver(e.remote, e.local, e.logger),
				tip.NewSubmitter(provider, e.network, e.logger),
				tip.NewReconciler(e.local, e.user()),
				e.remote,
				printNotifier{w: cmd.OutOrStdout()},
				e.logger,
			)
			intent := tip.TipIntent{Handle: args[0], Amount: amount, Message: message, DonorName: name}
			if intent.Message != "" {
				e.logger.Info("tip message", slog.String("handle", intent.Handle), slog.String("message", intent.Message))
			}

			res, err := sender.Send(cmd.Context(), intent, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tx: %s\n", res.Tx.Hash.Hex())
			if len(e.network.ExplorerURLs) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "explorer: %s/tx/%s\n", e.network.ExplorerURLs[0], res.Tx.Hash.Hex())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "message for the streamer")
	cmd.Flags().StringVar(&name, "name", "", "your display name")
	cmd.Flags().StringVar(&to, "to", "", "recipient address to use if the streamer has none on file")
	return cmd
}

// dialWallet connects to the wallet endpoint. A failed dial leaves the provider nil so
// the submission reports the wallet as not connected.
func dialWallet(ctx context.Context, e *env) (wallet.Provider, func()) {
	p, err := wallet.Dial(ctx, e.cfg.WalletURL)
	if err != nil {
		e.logger.Warn("wallet unavailable", slog.Any("error", err))
		return nil, func() {}
	}
	return p, p.Close
}
