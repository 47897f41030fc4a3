package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/ledgerd/internal/api"
	"github.com/tcfw/ledgerd/internal/config"
	"github.com/tcfw/ledgerd/internal/utils/logging"
)

const (
	requestTimeout = 10 * time.Second
)

var (
	rootCmd = &cobra.Command{
		Use:   "ledgerd",
		Short: "proof-of-work ledger node",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(viper.GetBool(config.Cfg_verbose))
		},
	}
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().String("addr", ":5000", "daemon API address")
	viper.BindPFlag(config.Cfg_api_listen, rootCmd.PersistentFlags().Lookup("addr"))

	regCommands()

	return rootCmd.Execute()
}

// withClient runs fn against the daemon with a bounded context.
func withClient(timeout time.Duration, fn func(ctx context.Context, c *api.Client) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, err := api.NewClient()
	if err != nil {
		logging.WithError(err).Error("constructing client")
		return err
	}

	return fn(ctx, c)
}

func printJSON(v interface{}) error {
	s, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", s)

	return nil
}
