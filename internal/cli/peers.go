package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tcfw/ledgerd/internal/api"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

var (
	peersCmd = &cobra.Command{
		Use:   "peers",
		Short: "peer commands",
	}

	peers_listCmd = &cobra.Command{
		Use:   "list",
		Short: "list peers",
		RunE:  runPeersList,
	}

	peers_addCmd = &cobra.Command{
		Use:   "add <address>",
		Short: "add a peer",
		Args:  cobra.ExactArgs(1),
		RunE:  runPeersAdd,
	}

	peers_removeCmd = &cobra.Command{
		Use:   "remove <address>",
		Short: "remove a peer",
		Args:  cobra.ExactArgs(1),
		RunE:  runPeersRemove,
	}
)

func runPeersList(cmd *cobra.Command, args []string) error {
	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		peers, err := c.Peers(ctx)
		if err != nil {
			logging.WithError(err).Error("fetching peers")
			return err
		}
		return printJSON(peers)
	})
}

func runPeersAdd(cmd *cobra.Command, args []string) error {
	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		peers, err := c.AddPeer(ctx, args[0])
		if err != nil {
			logging.WithError(err).Error("adding peer")
			return err
		}
		return printJSON(peers)
	})
}

func runPeersRemove(cmd *cobra.Command, args []string) error {
	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		peers, err := c.RemovePeer(ctx, args[0])
		if err != nil {
			logging.WithError(err).Error("removing peer")
			return err
		}
		return printJSON(peers)
	})
}
