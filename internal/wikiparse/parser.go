// Package wikiparse extracts wiki-article titles from raw page HTML.
package wikiparse

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ignorePattern matches titles that are not content articles: namespace
// pages, talk pages, the main page, and the three identifier
// pseudo-links (PubMed, DOI, ISBN) that wikipedia emits for citations.
var ignorePattern = regexp.MustCompile(`^(Category:|Special:|Wikipedia:|File:|Template_talk:|Talk:|Template:|Portal:|Help:|Main_Page|PubMed_Identifier|Digital_object_identifier|International_Standard_Book_Number)`)

var orphanClassPattern = regexp.MustCompile(`ambox-Orphan`)

const wikiHrefPrefix = "/wiki/"

// Extract parses HTML and returns the deduplicated, filtered set of
// article titles linked from it. selfTitle is removed from the result
// to suppress self-loops. A page carrying the ambox-Orphan marker
// yields no links regardless of what hrefs it contains.
func Extract(r io.Reader, selfTitle string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	if isOrphanPage(doc) {
		return nil, nil
	}

	seen := make(map[string]struct{})
	var titles []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok && strings.HasPrefix(href, wikiHrefPrefix) {
				title := strings.TrimPrefix(href, wikiHrefPrefix)
				if _, dup := seen[title]; !dup {
					seen[title] = struct{}{}
					titles = append(titles, title)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	filtered := titles[:0]
	for _, title := range titles {
		if ignorePattern.MatchString(title) {
			continue
		}
		if title == selfTitle {
			continue
		}
		filtered = append(filtered, title)
	}

	return filtered, nil
}

// isOrphanPage reports whether doc contains a table whose class
// attribute matches the ambox-Orphan marker wikipedia places on
// articles with no incoming links.
func isOrphanPage(doc *html.Node) bool {
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" {
			if class, ok := attr(n, "class"); ok && orphanClassPattern.MatchString(class) {
				found = true
				return
			}
		}
		for c := n.FirstChild; c != nil && !found; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
