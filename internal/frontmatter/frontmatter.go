// Package frontmatter splits a markdown post into its YAML header and body.
package frontmatter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultCategory = "tech"

const delimiter = "---"

var h1Rx = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)

// Document is a post ready to be sent to the API.
type Document struct {
	Title    string
	Category string
	Tags     []string
	Body     string
}

type header struct {
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Tags     tags   `yaml:"tags"`
}

// tags accepts a YAML sequence or a comma-separated scalar.
type tags []string

func (t *tags) UnmarshalYAML(node *yaml.Node) error {
	var raw []string
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&raw); err != nil {
			return err
		}
	case yaml.ScalarNode:
		raw = strings.Split(node.Value, ",")
	default:
		return fmt.Errorf("tags: unsupported yaml node at line %d", node.Line)
	}
	out := make(tags, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	*t = out
	return nil
}

// Parse reads an optional frontmatter block (title, category, tags) off
// content. Without a title the first level-one heading is used and removed
// from the body; failing that, the file name stands in with dashes as
// spaces. name is only used for that last fallback.
func Parse(name, content string) (Document, error) {
	doc := Document{Category: DefaultCategory}
	body := strings.TrimPrefix(content, "\ufeff")

	if head, rest, ok := split(body); ok {
		var h header
		if err := yaml.Unmarshal([]byte(head), &h); err != nil {
			return Document{}, fmt.Errorf("frontmatter: %w", err)
		}
		doc.Title = strings.TrimSpace(h.Title)
		if c := strings.TrimSpace(h.Category); c != "" {
			doc.Category = c
		}
		if len(h.Tags) > 0 {
			doc.Tags = h.Tags
		}
		body = rest
	}
	body = strings.TrimSpace(body)

	if doc.Title == "" {
		if loc := h1Rx.FindStringSubmatchIndex(body); loc != nil {
			doc.Title = body[loc[2]:loc[3]]
			body = strings.TrimSpace(body[:loc[0]] + body[loc[1]:])
		} else {
			base := filepath.Base(name)
			doc.Title = strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "-", " ")
		}
	}

	doc.Body = body
	return doc, nil
}

// split separates a leading "---" block from the rest of content. Only a
// line that is exactly "---" closes the block.
func split(content string) (head, rest string, ok bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, delimiter+"\n") {
		return "", content, false
	}
	after := normalized[len(delimiter)+1:]

	for offset := 0; offset <= len(after); {
		line := after[offset:]
		next := len(after) + 1
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		if line == delimiter {
			head = strings.TrimSuffix(after[:offset], "\n")
			if next > len(after) {
				return head, "", true
			}
			return head, after[next:], true
		}
		offset = next
	}
	return "", content, false
}
