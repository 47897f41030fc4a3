package cli

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/ledgerd/internal/api"
	"github.com/tcfw/ledgerd/internal/utils/logging"
	"github.com/tcfw/ledgerd/pkg/wallet"
)

var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "wallet commands",
	}

	wallet_newCmd = &cobra.Command{
		Use:   "new",
		Short: "generate a key file and print its participant id",
		RunE:  runWalletNew,
	}

	sendCmd = &cobra.Command{
		Use:   "send",
		Short: "sign a transfer with a key file and submit it",
		RunE:  runSend,
	}
)

func init() {
	wallet_newCmd.Flags().StringP("out", "o", "wallet.yaml", "key file to write")

	sendCmd.Flags().StringP("key", "k", "wallet.yaml", "key file to sign with")
	sendCmd.Flags().StringP("to", "t", "", "recipient participant id")
	sendCmd.Flags().Float64P("amount", "a", 0, "amount to transfer")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func runWalletNew(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	w, err := wallet.Generate(rand.Reader)
	if err != nil {
		return errors.Wrap(err, "generating key")
	}

	if err := w.Save(out); err != nil {
		return errors.Wrap(err, "writing key file")
	}

	fmt.Println(w.ID())

	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	keyPath, _ := cmd.Flags().GetString("key")
	to, _ := cmd.Flags().GetString("to")
	amount, _ := cmd.Flags().GetFloat64("amount")

	w, err := wallet.Load(keyPath)
	if err != nil {
		return errors.Wrap(err, "loading key file")
	}

	t, err := w.Transfer(to, amount)
	if err != nil {
		return errors.Wrap(err, "signing transfer")
	}

	return withClient(requestTimeout, func(ctx context.Context, c *api.Client) error {
		if err := c.Submit(ctx, t); err != nil {
			logging.WithError(err).Error("submitting transfer")
			return err
		}
		return printJSON(t)
	})
}
