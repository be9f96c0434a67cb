package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cppla/socialnet/client"
)

var postsCmd = &cobra.Command{
	Use:     "posts",
	Aliases: []string{"feed"},
	Short:   "List posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := client.NewStore(newClient())
		if err := store.RefreshPosts(cmd.Context()); err != nil {
			return err
		}
		posts := store.Posts.State().Items
		if len(posts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "🤷‍♂️ No posts yet")
			return nil
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetAutoWrapText(false)
		table.SetHeader([]string{"ID", "Author", "Body", "Likes", "Comments", "Created"})
		for _, p := range posts {
			table.Append([]string{
				p.PostID,
				color.New(color.Bold).Sprint("@" + p.UserHandle),
				truncate(p.Body, 60),
				strconv.Itoa(p.LikeCount),
				strconv.Itoa(p.CommentCount),
				p.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		table.Render()
		return nil
	},
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create, show or delete a post",
}

var postShowCmd = &cobra.Command{
	Use:   "show <postId>",
	Short: "Show a post with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := newClient().Post(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n%s\n", color.New(color.Bold).Sprint("@"+detail.UserHandle), detail.CreatedAt.Local().Format("2006-01-02 15:04"), detail.Body)
		fmt.Fprintf(cmd.OutOrStdout(), "♥ %d  💬 %d\n", detail.LikeCount, detail.CommentCount)
		if len(detail.Comments) == 0 {
			return nil
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Comment", "Author", "Body"})
		for _, c := range detail.Comments {
			table.Append([]string{c.CommentID, "@" + c.UserHandle, truncate(c.Body, 60)})
		}
		table.Render()
		return nil
	},
}

var postCreateCmd = &cobra.Command{
	Use:   "create <body...>",
	Short: "Publish a post",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		post, err := newClient().CreatePost(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		success(cmd, "Created post %s", post.PostID)
		return nil
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <postId>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		if err := newClient().DeletePost(cmd.Context(), args[0]); err != nil {
			return err
		}
		success(cmd, "Deleted post %s", args[0])
		return nil
	},
}

var likeCmd = &cobra.Command{
	Use:   "like <postId>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		post, err := newClient().Like(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		success(cmd, "Liked, %d likes now", post.LikeCount)
		return nil
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike <postId>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		if err := newClient().Unlike(cmd.Context(), args[0]); err != nil {
			return err
		}
		success(cmd, "Unliked")
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <postId> <body...>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		c, err := newClient().Comment(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		success(cmd, "Commented (%s)", c.CommentID)
		return nil
	},
}

func init() {
	postCmd.AddCommand(postShowCmd, postCreateCmd, postDeleteCmd)
	RootCmd.AddCommand(postsCmd, postCmd, likeCmd, unlikeCmd, commentCmd)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
