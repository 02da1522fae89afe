package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tipjar-labs/tipjar/internal/config"
	"github.com/tipjar-labs/tipjar/internal/infra"
	"github.com/tipjar-labs/tipjar/internal/logging"
	"github.com/tipjar-labs/tipjar/internal/notification"
	"github.com/tipjar-labs/tipjar/internal/profileclient"
	"github.com/tipjar-labs/tipjar/internal/tip"
	"github.com/tipjar-labs/tipjar/internal/wallet"
)

const guestUser = "guest"

// env holds what every subcommand needs. It is built once per invocation.
type env struct {
	cfg     config.ClientConfig
	network wallet.Network
	logger  *slog.Logger
	remote  *profileclient.Client
	local   tip.LocalStore
	closers []func()
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// user is the handle local stats are kept under.
func (e *env) user() string {
	if e.cfg.User == "" {
		return guestUser
	}
	return e.cfg.User
}

func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	network, err := wallet.NetworkByName(cfg.Network)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:     cfg,
		network: network,
		logger:  logging.NewConsole(cfg.LogLevel),
		remote:  profileclient.New(cfg.APIURL, cfg.HTTPTimeout),
		local:   tip.NewMemoryLocalStore(),
	}
	if cfg.RedisURL != "" {
		client, err := infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		e.local = tip.NewRedisLocalStore(client)
		e.closers = append(e.closers, func() { _ = client.Close() })
	} else {
		e.logger.Debug("TIPPER_REDIS_URL not set, local cache lasts for this run only")
	}
	return e, nil
}

type envKey struct{}

func envFrom(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKey{}).(*env)
	return e
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tipper",
		Short: "Send crypto tips to streamers",
		Long: `Tipper resolves a streamer's wallet from their tip link handle and sends a native
token transfer through your wallet. The wallet must expose the EIP-1193 methods over
JSON-RPC at TIPPER_WALLET_URL.

Environment:
	TIPPER_API_URL     profile service (default http://localhost:8080)
	TIPPER_WALLET_URL  wallet endpoint (default http://127.0.0.1:1248)
	TIPPER_NETWORK     base-sepolia or base
	TIPPER_USER        your handle, used to key local stats
	TIPPER_REDIS_URL   optional device cache`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e := envFrom(cmd); e != nil {
				e.close()
			}
		},
	}
	root.AddCommand(newSendCmd(), newStatsCmd(), newResolveCmd())
	return root
}

// printNotifier shows notifications to the donor on the command output.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) Send(_ context.Context, m notification.Message) error {
	prefix := "ok"
	if m.Kind == notification.KindTipFailed {
		prefix = "failed"
	}
	_, err := fmt.Fprintf(n.w, "[%s] %s\n", prefix, m.Body)
	return err
}
