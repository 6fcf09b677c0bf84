package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/karthi209/notkarthik/internal/client"
	"github.com/karthi209/notkarthik/internal/frontmatter"
)

// buildPost assembles a post from either a frontmatter file or positional
// TITLE CATEGORY FILE arguments. Arguments win over frontmatter values.
func buildPost(args []string, file string, tags []string, stdin io.Reader) (client.PostInput, error) {
	var title, category string
	if len(args) > 0 {
		title = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		category = strings.TrimSpace(args[1])
	}
	if len(args) > 2 {
		if file != "" && file != args[2] {
			return client.PostInput{}, errors.New("file given both as argument and --file")
		}
		file = args[2]
	}
	if file == "" && title == "" {
		return client.PostInput{}, errors.New("need --file or a TITLE argument")
	}

	var (
		raw  []byte
		err  error
		name = file
	)
	if file != "" {
		raw, err = os.ReadFile(file)
	} else {
		raw, err = io.ReadAll(stdin)
		name = "stdin"
	}
	if err != nil {
		return client.PostInput{}, fmt.Errorf("read content: %w", err)
	}

	doc, err := frontmatter.Parse(name, string(raw))
	if err != nil {
		return client.PostInput{}, err
	}
	in := client.PostInput{
		Title:    doc.Title,
		Content:  doc.Body,
		Category: doc.Category,
		Tags:     doc.Tags,
	}
	if title != "" {
		in.Title = title
	}
	if category != "" {
		in.Category = category
	}
	if len(tags) > 0 {
		in.Tags = tags
	}
	if strings.TrimSpace(in.Content) == "" {
		return client.PostInput{}, errors.New("post content is empty")
	}
	return in, nil
}

func runCreate(ctx context.Context, c *client.Client, key string, in client.PostInput, out io.Writer) error {
	if key == "" {
		return errors.New("an API key is required (--key or API_KEY)")
	}
	post, err := c.CreatePost(ctx, key, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created post %d: %s [%s]\n", post.ID, post.Title, post.Category)
	return nil
}
