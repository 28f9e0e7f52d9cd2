package eml

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Link is one hyperlink found in an HTML part: the real target and the
// text the reader sees
type Link struct {
	Href string
	Text string
}

var urlPattern = regexp.MustCompile(`(?i)\b((?:https?://|ftp://)[^\s<>"'()]{2,})`)

// findURLs returns the deduplicated, sorted URLs embedded in plain text
func findURLs(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range urlPattern.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// extractHTMLLinks collects every <a href> with its visible text, plus
// raw URLs embedded in the markup outside of anchors
func extractHTMLLinks(htmlText string) []Link {
	if strings.TrimSpace(htmlText) == "" {
		return nil
	}

	var links []Link
	tokenizer := html.NewTokenizer(strings.NewReader(htmlText))
	var currentHref string
	var inAnchor bool
	var textParts []string

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// Also pick up URLs present in the markup but not wrapped
			// in an anchor
			for _, u := range findURLs(htmlText) {
				if !hasHref(links, u) {
					links = append(links, Link{Href: u})
				}
			}
			return links
		case html.StartTagToken:
			token := tokenizer.Token()
			if token.DataAtom.String() == "a" || strings.EqualFold(token.Data, "a") {
				inAnchor = true
				currentHref = ""
				textParts = textParts[:0]
				for _, attr := range token.Attr {
					if strings.EqualFold(attr.Key, "href") {
						currentHref = attr.Val
						break
					}
				}
			}
		case html.TextToken:
			if inAnchor {
				if t := strings.TrimSpace(tokenizer.Token().Data); t != "" {
					textParts = append(textParts, t)
				}
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if (token.DataAtom.String() == "a" || strings.EqualFold(token.Data, "a")) && inAnchor {
				inAnchor = false
				if currentHref != "" {
					links = append(links, Link{
						Href: currentHref,
						Text: strings.Join(textParts, " "),
					})
				}
			}
		}
	}
}

func hasHref(links []Link, href string) bool {
	for _, l := range links {
		if l.Href == href {
			return true
		}
	}
	return false
}
