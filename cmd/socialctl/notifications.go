package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cppla/socialnet/client"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs"},
	Short:   "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		store := client.NewStore(newClient())
		if err := store.RefreshNotifications(cmd.Context()); err != nil {
			return err
		}
		items := store.Notifications.State().Items
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "🤷‍♂️ No notifications")
			return nil
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"ID", "From", "Type", "Post", "Read"})
		for _, n := range items {
			read := color.New(color.FgYellow).Sprint("new")
			if n.Read {
				read = "read"
			}
			table.Append([]string{n.NotificationID, "@" + n.Sender, n.Type, n.PostID, read})
		}
		table.Render()
		return nil
	},
}

var markReadCmd = &cobra.Command{
	Use:   "read <notificationId>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		if err := newClient().MarkRead(cmd.Context(), args[0]); err != nil {
			return err
		}
		success(cmd, "Marked read")
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := newClient().Users(cmd.Context())
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Handle", "Location", "Website", "Joined"})
		for _, u := range users {
			table.Append([]string{"@" + u.Handle, u.Location, u.Website, u.CreatedAt.Local().Format("2006-01-02")})
		}
		table.Render()
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(markReadCmd)
	RootCmd.AddCommand(notificationsCmd, usersCmd)
}
