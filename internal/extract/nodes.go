package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether the node's class attribute contains the given
// class name. The forum emits single-class cells, but we split on spaces
// anyway so multi-class markup does not break matching.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if strings.EqualFold(c, class) {
			return true
		}
	}
	return false
}

// isElement reports whether the node is an element with the given tag name.
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// findAll returns all descendant nodes (including n itself) matching the
// predicate, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// findFirst returns the first descendant node matching the predicate in
// document order, or nil.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// parentElement walks up from n to the nearest ancestor with the given tag
// name, or nil.
func parentElement(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if isElement(p, tag) {
			return p
		}
	}
	return nil
}

// nextSiblingElement returns the next sibling of n that is an element with
// the given tag name, skipping text and comment nodes, or nil.
func nextSiblingElement(n *html.Node, tag string) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if isElement(s, tag) {
			return s
		}
	}
	return nil
}

// textContent concatenates all text descendants of n in document order.
// Adjacent text nodes are joined with a space so words from separate
// markup runs do not fuse together; cleanText later collapses the runs.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
