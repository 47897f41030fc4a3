package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/internal/api"
	"github.com/tcfw/ledgerd/internal/config"
	"github.com/tcfw/ledgerd/internal/node"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

var (
	daemonCmd = &cobra.Command{
		Use:   "daemon",
		RunE:  runDaemon,
		Short: "run the node",
	}
)

func init() {
	daemonCmd.Flags().String("miner", "", "participant credited with mining rewards")
	viper.BindPFlag(config.Cfg_chain_miner, daemonCmd.Flags().Lookup("miner"))

	daemonCmd.Flags().StringSlice("peer", nil, "seed peer address. Can be used multiple times")
	viper.BindPFlag(config.Cfg_p2p_peers, daemonCmd.Flags().Lookup("peer"))

	daemonCmd.Flags().String("storage", "", "storage driver: pebble, file or memory")
	viper.BindPFlag(config.Cfg_storage_driver, daemonCmd.Flags().Lookup("storage"))

	daemonCmd.Flags().String("data", "", "storage path")
	viper.BindPFlag(config.Cfg_storage_path, daemonCmd.Flags().Lookup("data"))
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.GetConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	n, err := node.NewNode(ctx, node.WithConfig(cfg))
	if err != nil {
		return errors.Wrap(err, "initing node")
	}

	a, err := api.NewAPI(n)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		if err := a.ListenAndServe(cfg.API().Listen); err != nil {
			errCh <- err
		}
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		n.RunResolveLoop(ctx)
	}()

	var runErr error

	select {
	case runErr = <-errCh:
	case <-waitExit(ctx):
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		logging.WithError(err).Error("shutting down api")
	}

	if err := stopNode(cancel, loopDone, n); err != nil {
		logging.WithError(err).Error("stopping node")
	}

	return runErr
}

type stopper interface {
	Stop() error
}

// stopNode ends the resolve loop and waits for it to return before the
// node closes its store.
func stopNode(cancel context.CancelFunc, loopDone <-chan struct{}, n stopper) error {
	cancel()
	<-loopDone
	return n.Stop()
}

func waitExit(ctx context.Context) <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
