package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "billcycle-cli",
		Short:         "Billcycle CLI tool",
		Long:          `A command line interface for interacting with the Billcycle API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Billcycle API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	client := func() *apiClient {
		return newAPIClient(baseURL, timeout)
	}

	rootCmd.AddCommand(
		syncCmd(client),
		cardsCmd(client),
		statementCmd(client),
		historyCmd(client),
		installmentCmd(client),
	)

	return rootCmd
}
