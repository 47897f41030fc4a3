package cli

func regCommands() {
	//Peers
	peersCmd.AddCommand(peers_listCmd)
	peersCmd.AddCommand(peers_addCmd)
	peersCmd.AddCommand(peers_removeCmd)

	//Wallet
	walletCmd.AddCommand(wallet_newCmd)

	//Root
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(peersCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(sendCmd)
}
