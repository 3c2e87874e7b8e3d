package crawl

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// Page is the extracted structure of one HTML page.
type Page struct {
	URL      string
	Path     string
	Title    string
	H1       string
	H2       []string
	Text     string
	Markdown string
}

// skipped elements never contribute text or headings.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
}

// ParsePage extracts title, headings, body text and markdown from a page.
// Content comes from <main> when present, otherwise <body>.
func ParsePage(pageURL string, body []byte) (Page, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("parse html: %w", err)
	}

	p := Page{URL: pageURL, Path: "/"}
	if u, err := url.Parse(pageURL); err == nil && u.Path != "" {
		p.Path = u.Path
	}
	if t := findElement(doc, "title"); t != nil {
		p.Title = collapse(textContent(t))
	}

	root := findElement(doc, "main")
	if root == nil {
		root = findElement(doc, "body")
	}
	if root == nil {
		return p, nil
	}
	prune(root)

	var text []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.ElementNode && n.Data == "h1":
			if p.H1 == "" {
				p.H1 = collapse(textContent(n))
			}
		case n.Type == html.ElementNode && n.Data == "h2":
			if h := collapse(textContent(n)); h != "" {
				p.H2 = append(p.H2, h)
			}
		case n.Type == html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				text = append(text, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	p.Text = collapse(strings.Join(text, " "))

	md, err := htmltomarkdown.ConvertString(renderNode(root))
	if err == nil {
		p.Markdown = strings.TrimSpace(md)
	}
	return p, nil
}

// prune removes skipped elements from the subtree.
func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && skipped[c.Data] {
			n.RemoveChild(c)
		} else if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			prune(c)
		}
		c = next
	}
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var get func(*html.Node)
	get = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			get(c)
		}
	}
	get(n)
	return sb.String()
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
