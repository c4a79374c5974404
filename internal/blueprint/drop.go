package blueprint

import (
	"net/url"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ParseDropPayload extracts file paths from the text a terminal pastes when
// files are dropped onto it. Terminals differ: some quote paths, some escape
// spaces with backslashes, some send file:// URIs, and multiple files arrive
// separated by spaces or newlines.
func ParseDropPayload(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	words, err := shellwords.Parse(text)
	if err != nil || len(words) == 0 {
		// Unbalanced quotes: fall back to one path per line.
		words = strings.Split(text, "\n")
	}

	paths := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		paths = append(paths, fileURIToPath(word))
	}
	return paths
}

// FirstDropped returns the first path of a drop. Additional files in a
// multi-file drop are ignored.
func FirstDropped(text string) (string, bool) {
	paths := ParseDropPayload(text)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

func fileURIToPath(value string) string {
	if !strings.HasPrefix(strings.ToLower(value), "file://") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.Path == "" {
		return value
	}
	return u.Path
}
