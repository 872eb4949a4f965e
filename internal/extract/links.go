package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// articlePathKeywords mark a link as likely pointing at content rather than
// navigation. Biasing toward these keeps the crawl on article pages while
// the "other" allowance still lets it discover section fronts.
var articlePathKeywords = []string{
	"/news", "/article", "/story", "/stories", "/world", "/business",
	"/politics", "/sport", "/opinion", "/health", "/bangladesh",
}

// discoverLinks extracts anchor hrefs, resolves them against the page URL,
// and returns likely-article links first, capped per class.
func (e *Extractor) discoverLinks(doc *goquery.Document, base *url.URL) []string {
	var articles, others []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		abs := resolveURL(base, href)
		if abs == "" {
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}

		if isArticlePath(abs) {
			if len(articles) < e.articleLinkCap {
				articles = append(articles, abs)
			}
			return
		}
		if len(others) < e.otherLinkCap {
			others = append(others, abs)
		}
	})

	return append(articles, others...)
}

func isArticlePath(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range articlePathKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}
