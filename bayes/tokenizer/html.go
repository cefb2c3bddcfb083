package tokenizer

import (
	"strings"

	"golang.org/x/net/html"
)

// HTML extracts the visible text of an HTML document and tokenizes it with
// base, so web pages can be trained on directly. Script and style subtrees
// are skipped. Input that fails to parse is tokenized as plain text.
func HTML(base Tokenizer) Tokenizer {
	return func(text string) []string {
		root, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return base(text)
		}

		var visible strings.Builder
		collectText(root, &visible)
		return base(visible.String())
	}
}

func collectText(node *html.Node, visible *strings.Builder) {
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	if node.Type == html.TextNode {
		visible.WriteString(node.Data)
		visible.WriteByte(' ')
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, visible)
	}
}
