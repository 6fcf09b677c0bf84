// Command blogctl publishes posts and manages API keys and featured tweets
// against a running blog API.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/karthi209/notkarthik/internal/client"
)

var (
	apiFlag string
	keyFlag string
	rootCmd = &cobra.Command{
		Use:           "blogctl",
		Short:         "CLI client for the blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func api() *client.Client { return client.New(apiFlag) }

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", envOr("API_URL", "http://localhost:8080"), "blog API base URL (env API_URL)")
	rootCmd.PersistentFlags().StringVarP(&keyFlag, "key", "k", os.Getenv("API_KEY"), "API key (env API_KEY)")

	// create
	createCmd := &cobra.Command{
		Use:   "create [TITLE [CATEGORY [FILE]]]",
		Short: "Publish a markdown post",
		Long: "Publish a post from a markdown file with optional frontmatter (--file),\n" +
			"or from TITLE, CATEGORY and FILE arguments. Content is read from stdin\n" +
			"when no file is given.",
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			in, err := buildPost(args, file, tags, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runCreate(cmd.Context(), api(), keyFlag, in, cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringP("file", "f", "", "markdown file to publish")
	createCmd.Flags().StringSliceP("tags", "t", nil, "tags, overriding any in the file")
	rootCmd.AddCommand(createCmd)

	// keys
	keysCmd := &cobra.Command{Use: "keys", Short: "Manage API keys"}
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new API key (no --key needed for the first one)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			return runIssueKey(cmd.Context(), api(), keyFlag, name, cmd.OutOrStdout())
		},
	}
	issueCmd.Flags().StringP("name", "n", "", "display name for the key")
	keysCmd.AddCommand(issueCmd)
	keysCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListKeys(cmd.Context(), api(), keyFlag, cmd.OutOrStdout())
		},
	})
	keysCmd.AddCommand(&cobra.Command{
		Use:   "revoke ID",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid key id %q", args[0])
			}
			return runRevokeKey(cmd.Context(), api(), keyFlag, id, cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(keysCmd)

	// tweets
	tweetsCmd := &cobra.Command{Use: "tweets", Short: "Show or replace featured tweets"}
	tweetsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List featured tweets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListTweets(cmd.Context(), api(), cmd.OutOrStdout())
		},
	})
	tweetsCmd.AddCommand(&cobra.Command{
		Use:   "set URL...",
		Short: "Replace the featured tweets list (at most 5 are kept)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetTweets(cmd.Context(), api(), keyFlag, args, cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(tweetsCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api().Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
