package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/karthi209/notkarthik/internal/client"
)

func runIssueKey(ctx context.Context, c *client.Client, key, name string, out io.Writer) error {
	issued, err := c.IssueAPIKey(ctx, key, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "id:   %d\nname: %s\nkey:  %s\n", issued.ID, issued.Name, issued.APIKey)
	fmt.Fprintln(out, "Store this key now; it cannot be shown again.")
	return nil
}

func runListKeys(ctx context.Context, c *client.Client, key string, out io.Writer) error {
	keys, err := c.ListAPIKeys(ctx, key)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tLAST USED")
	for _, k := range keys {
		lastUsed := "never"
		if k.LastUsedAt != nil {
			lastUsed = k.LastUsedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", k.ID, k.Name, k.CreatedAt.Format(time.RFC3339), lastUsed)
	}
	return tw.Flush()
}

func runRevokeKey(ctx context.Context, c *client.Client, key string, id int64, out io.Writer) error {
	if err := c.RevokeAPIKey(ctx, key, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "revoked key %d\n", id)
	return nil
}

func runListTweets(ctx context.Context, c *client.Client, out io.Writer) error {
	tweets, err := c.FeaturedTweets(ctx)
	if err != nil {
		return err
	}
	for _, t := range tweets {
		fmt.Fprintf(out, "%d. %s\n", t.Position, t.URL)
	}
	return nil
}

func runSetTweets(ctx context.Context, c *client.Client, key string, urls []string, out io.Writer) error {
	count, err := c.ReplaceFeaturedTweets(ctx, key, urls)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "featured tweets replaced (%d)\n", count)
	return nil
}
