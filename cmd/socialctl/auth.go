package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cppla/socialnet/client"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and print a token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		email := ""
		if len(args) > 0 {
			email = args[0]
		} else {
			email = prompt(cmd, in, "Email: ")
		}
		password := prompt(cmd, in, "Password: ")

		tok, err := newClient().Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		success(cmd, "Logged in. Export the token to stay logged in:")
		fmt.Fprintf(cmd.OutOrStdout(), "export SOCIAL_TOKEN=%s\n", tok)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <handle> <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		password := prompt(cmd, in, "Password: ")
		confirm := prompt(cmd, in, "Confirm password: ")
		tok, err := newClient().Register(cmd.Context(), client.RegisterRequest{
			Handle:          args[0],
			Email:           args[1],
			Password:        password,
			ConfirmPassword: confirm,
		})
		if err != nil {
			return err
		}
		success(cmd, "Registered %s", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "export SOCIAL_TOKEN=%s\n", tok)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		if err := newClient().Logout(cmd.Context()); err != nil {
			return err
		}
		success(cmd, "Logged out")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) string {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
