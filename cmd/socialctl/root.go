package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cppla/socialnet/client"
)

var (
	serverURL string
	token     string
	timeout   time.Duration
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "socialctl [command] [flags]",
	Short:         "Command line client for the socialnet API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SOCIAL_SERVER", "http://localhost:8080"), "API base URL")
	RootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("SOCIAL_TOKEN"), "bearer token (defaults to $SOCIAL_TOKEN)")
	RootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		outputErrorAndExit("%v", err)
	}
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithToken(token), client.WithTimeout(timeout))
}

func requireToken() error {
	if token == "" {
		return fmt.Errorf("not logged in: pass --token or set SOCIAL_TOKEN")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func outputErrorAndExit(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("🚨 ")+fmt.Sprintf(format, args...))
	os.Exit(1)
}

func success(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen, color.Bold).Sprint("✅ ")+fmt.Sprintf(format, args...))
}
