package extract

import (
	"regexp"
	"strconv"

	"golang.org/x/net/html"
)

// startParamRe matches the start offset carried by thread navigation links.
var startParamRe = regexp.MustCompile(`start=(\d+)`)

// HasNextPage reports whether doc contains a navigation link pointing at or
// beyond the given start offset. Thread pagination has no explicit page
// count; the presence of such a link is the only signal that another page
// of posts exists.
func HasNextPage(doc *html.Node, nextStart int) bool {
	for _, a := range findAll(doc, func(n *html.Node) bool { return isElement(n, "a") }) {
		m := startParamRe.FindStringSubmatch(getAttr(a, "href"))
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if start >= nextStart {
			return true
		}
	}
	return false
}
