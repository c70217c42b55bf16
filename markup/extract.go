// Package markup extracts the styled elements of an HTML fragment.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Element is one styled node of the input, in document order.
type Element struct {
	Tag     string `json:"tag"`
	Classes string `json:"classes"`
	Content string `json:"content"`
}

// IsImage reports whether the element is an <img>; its Content is then the src path.
func (e Element) IsImage() bool { return e.Tag == "img" }

// textTags lists the elements that are extracted when they carry a class attribute.
var textTags = map[string]bool{
	"div":  true,
	"span": true,
	"p":    true,
	"h1":   true,
	"h2":   true,
	"h3":   true,
	"h4":   true,
	"h5":   true,
	"h6":   true,
}

// Extract parses UTF-8 markup and returns its styled elements.
// Malformed markup is recovered by the HTML parser rather than rejected.
func Extract(r io.Reader) ([]Element, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	var elems []Element
	collect(doc, &elems)
	return elems, nil
}

// ExtractString is Extract for in-memory markup.
func ExtractString(s string) ([]Element, error) {
	return Extract(strings.NewReader(s))
}

// ExtractWithCharset decodes r to UTF-8 first. contentType may be empty: input that
// is already valid UTF-8 is parsed as is, anything else is sniffed from a BOM or
// <meta charset> declaration.
func ExtractWithCharset(r io.Reader, contentType string) ([]Element, error) {
	if contentType == "" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading HTML: %w", err)
		}
		// sniffing only sees the first 1024 bytes and falls back to windows-1252
		if utf8.Valid(data) {
			return Extract(bytes.NewReader(data))
		}
		r, contentType = bytes.NewReader(data), "text/html"
	}
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	return Extract(utf8Reader)
}

// collect walks the tree in pre-order. Matching nodes are emitted and their
// descendants are still visited, so nested matches appear flat after their parent.
func collect(n *html.Node, out *[]Element) {
	if n.Type == html.ElementNode {
		if elem, ok := match(n); ok {
			*out = append(*out, elem)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, out)
	}
}

func match(n *html.Node) (Element, bool) {
	class, hasClass := getAttr(n, "class")
	if !hasClass {
		return Element{}, false
	}
	tag := strings.ToLower(n.Data)
	if tag == "img" {
		src, hasSrc := getAttr(n, "src")
		if !hasSrc {
			return Element{}, false
		}
		return Element{Tag: tag, Classes: class, Content: src}, true
	}
	if !textTags[tag] {
		return Element{}, false
	}
	return Element{Tag: tag, Classes: class, Content: getTextContent(n)}, true
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// getTextContent concatenates all descendant text nodes and trims the result.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.TrimSpace(result.String())
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
}
