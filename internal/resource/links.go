package resource

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	cssURLPattern  = regexp.MustCompile(`(?i)url\(["']?(https?://[^"')]+)["']?\)`)
	bareURLPattern = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)
)

// extractLinks collects the distinct absolute http(s) URLs referenced
// by page: href and src attributes, CSS url() values and bare
// scheme-prefixed tokens anywhere in the text. Entity references are
// unescaped before deduplication so the same URL never counts twice.
func extractLinks(page string) map[string]struct{} {
	links := make(map[string]struct{})

	z := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		for _, attr := range z.Token().Attr {
			if attr.Key == "href" || attr.Key == "src" {
				addLink(links, attr.Val)
			}
		}
	}

	for _, m := range cssURLPattern.FindAllStringSubmatch(page, -1) {
		addLink(links, stdhtml.UnescapeString(m[1]))
	}
	for _, m := range bareURLPattern.FindAllString(page, -1) {
		addLink(links, stdhtml.UnescapeString(m))
	}
	return links
}

func addLink(links map[string]struct{}, candidate string) {
	lower := strings.ToLower(candidate)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		links[candidate] = struct{}{}
	}
}
