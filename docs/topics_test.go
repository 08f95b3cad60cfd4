package docs

import (
	"bufio"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the topics listed in readme.md.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	require.NoError(t, err)
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topics = append(topics, strings.TrimSpace(matches[1]))
		}
	}
	require.NoError(t, scanner.Err())
	return topics
}

func TestTopics(t *testing.T) {
	// readme.md and the topic files must list the same topics.
	all, err := GetAllTopics()
	require.NoError(t, err)
	assert.ElementsMatch(t, readmeTopics(t), all)

	for _, topic := range all {
		_, err := GetTopic(topic)
		assert.NoError(t, err, topic)
	}

	_, err = GetTopic("unknown")
	assert.Error(t, err)
}

func TestTopics_Title(t *testing.T) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	all, err := GetAllTopics()
	require.NoError(t, err)

	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			require.NoError(t, err)
			src := []byte(content)
			doc := md.Parser().Parse(text.NewReader(src))

			// Every topic starts with a single level 1 heading.
			var titles int
			ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
					titles++
				}
				return ast.WalkContinue, nil
			})
			assert.Equal(t, 1, titles)
			first, ok := doc.FirstChild().(*ast.Heading)
			require.True(t, ok, "topic %q does not start with a heading", topic)
			assert.Equal(t, 1, first.Level)
		})
	}
}

func TestGetTopic_All(t *testing.T) {
	got, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, got, "# Ledger")
	assert.Contains(t, got, "# Lot Methods")
	assert.NotContains(t, got, "# Documentation Topics")
}
