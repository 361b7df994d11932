package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	storage  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cleanshop",
		Short: "Clean Shop storefront cart",
		Long: `Manage the Clean Shop cart from the terminal
or serve the storefront page.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.storage, "storage", "", "cart storage backend (memory, bunt, sqlite, redis, mongo)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newProductsCmd(opts),
		newAddCmd(opts),
		newQtyCmd(opts),
		newRemoveCmd(opts),
		newClearCmd(opts),
		newShowCmd(opts),
		newCheckoutCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
