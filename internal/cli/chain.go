package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/tcfw/ledgerd/internal/api"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

var (
	chainCmd = &cobra.Command{
		Use:   "chain",
		Short: "print the full chain",
		RunE:  runChain,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "print node status",
		RunE:  runStatus,
	}

	balanceCmd = &cobra.Command{
		Use:   "balance [participant]",
		Short: "print a participant balance. Defaults to the miner",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBalance,
	}

	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "mine the pending transactions into a new block",
		RunE:  runMine,
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "adopt the longest valid chain among peers",
		RunE:  runResolve,
	}
)

func runChain(cmd *cobra.Command, args []string) error {
	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		chain, err := c.Chain(ctx)
		if err != nil {
			logging.WithError(err).Error("fetching chain")
			return err
		}
		return printJSON(chain)
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		s, err := c.Status(ctx)
		if err != nil {
			logging.WithError(err).Error("fetching status")
			return err
		}
		return printJSON(s)
	})
}

func runBalance(cmd *cobra.Command, args []string) error {
	participant := ""
	if len(args) > 0 {
		participant = args[0]
	}

	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		b, err := c.Balance(ctx, participant)
		if err != nil {
			logging.WithError(err).Error("fetching balance")
			return err
		}
		return printJSON(b)
	})
}

func runMine(cmd *cobra.Command, args []string) error {
	// proof search has no upper bound
	return withClient(24*time.Hour, func(ctx context.Context, c *api.Client) error {
		b, err := c.Mine(ctx)
		if err != nil {
			logging.WithError(err).Error("mining")
			return err
		}
		return printJSON(b)
	})
}

func runResolve(cmd *cobra.Command, args []string) error {
	return withClient(time.Minute, func(ctx context.Context, c *api.Client) error {
		res, err := c.Resolve(ctx)
		if err != nil {
			logging.WithError(err).Error("resolving")
			return err
		}
		return printJSON(res)
	})
}
