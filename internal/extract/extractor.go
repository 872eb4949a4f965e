// Package extract derives normalized records and outbound links from fetched
// markup. Every field is produced by an ordered chain of candidate rules; a
// rule that does not match is silent and the chain falls through to the next
// candidate, ending in a sentinel value rather than an empty string.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/nirobo/nirobo-crawler/internal/config"
	"github.com/nirobo/nirobo-crawler/internal/record"
)

const (
	minTitleLength     = 5
	minParagraphLength = 30
)

// boilerplatePrefixes disqualify a paragraph from serving as a description.
var boilerplatePrefixes = []string{
	"©", "copyright", "all rights reserved", "advertisement",
	"cookie", "we use cookies", "subscribe", "sign up", "sign in",
}

// rule is one candidate in a fallback chain. fn reports whether it matched;
// a miss is not an error.
type rule struct {
	name string
	fn   func(doc *goquery.Document) (string, bool)
}

// Result bundles the extracted record with the outbound link candidates
// discovered on the same page.
type Result struct {
	Record record.Record
	Links  []string
}

// Extractor turns a fetched page into a Result. It is safe for concurrent
// use; all state is read-only after construction.
type Extractor struct {
	titleRules       []rule
	descriptionRules []rule
	sources          []sourceEntry
	localDomains     []string
	localImage       string
	globalImage      string
	maxDescription   int
	articleLinkCap   int
	otherLinkCap     int
	logger           *zap.Logger
	now              func() time.Time
}

// New builds an Extractor from crawler configuration.
func New(cfg config.CrawlerConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		sources:        defaultSourceTable,
		localDomains:   cfg.LocalDomains,
		localImage:     cfg.LocalDefaultImage,
		globalImage:    cfg.GlobalDefaultImage,
		maxDescription: cfg.MaxDescriptionLength,
		articleLinkCap: cfg.ArticleLinkCap,
		otherLinkCap:   cfg.OtherLinkCap,
		logger:         logger,
		now:            time.Now,
	}
	e.titleRules = titleRules()
	e.descriptionRules = descriptionRules()
	return e
}

// Extract parses markup and produces the page's Record plus link candidates.
// A parse failure is page-level: the page contributes no record and no links.
func (e *Extractor) Extract(pageURL string, markup []byte) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return Result{}, fmt.Errorf("parse markup for %s: %w", pageURL, err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse page url %s: %w", pageURL, err)
	}

	tags, source := e.classify(base.Hostname())
	rec := record.Record{
		URL:         pageURL,
		Title:       e.evalChain(pageURL, e.titleRules, doc),
		Description: e.truncate(e.evalChain(pageURL, e.descriptionRules, doc)),
		Image:       e.extractImage(doc, base),
		Tags:        tags,
		Source:      source,
		Approved:    false,
		Timestamp:   record.NewTimestamp(e.now()),
	}
	rec.Normalize()

	return Result{
		Record: rec,
		Links:  e.discoverLinks(doc, base),
	}, nil
}

// evalChain returns the first candidate's text, or "" if every rule misses.
func (e *Extractor) evalChain(pageURL string, rules []rule, doc *goquery.Document) string {
	for _, r := range rules {
		text, ok := r.fn(doc)
		if !ok {
			continue
		}
		text = collapseWhitespace(text)
		if text == "" {
			continue
		}
		e.logger.Debug("extraction rule matched",
			zap.String("url", pageURL), zap.String("rule", r.name))
		return text
	}
	return ""
}

func (e *Extractor) truncate(text string) string {
	if e.maxDescription <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= e.maxDescription {
		return text
	}
	return strings.TrimSpace(string(runes[:e.maxDescription]))
}

// titleRules prefers structured heading markup over the generic title tag;
// most news frameworks put the true headline in the first h1.
func titleRules() []rule {
	return []rule{
		{"article h1", selectorText("article h1")},
		{"h1", selectorText("h1")},
		{"og:title", minLength(metaProperty("og:title"), minTitleLength)},
		{"title tag", selectorText("title")},
	}
}

func descriptionRules() []rule {
	return []rule{
		{"meta description", metaName("description")},
		{"og:description", metaProperty("og:description")},
		{"article lead", firstLongParagraph(
			"article p, .article-body p, .story-content p, .lead p, main p",
		)},
		{"any paragraph", firstLongParagraph("p")},
	}
}

// selectorText matches when the selector's first element has text longer
// than the title minimum.
func selectorText(selector string) func(*goquery.Document) (string, bool) {
	return func(doc *goquery.Document) (string, bool) {
		text := collapseWhitespace(doc.Find(selector).First().Text())
		if len([]rune(text)) <= minTitleLength {
			return "", false
		}
		return text, true
	}
}

// minLength rejects a candidate whose text is not longer than min, so the
// chain falls through. Title candidates share the same length rule no matter
// where the text comes from.
func minLength(fn func(*goquery.Document) (string, bool), min int) func(*goquery.Document) (string, bool) {
	return func(doc *goquery.Document) (string, bool) {
		text, ok := fn(doc)
		if !ok || len([]rune(text)) <= min {
			return "", false
		}
		return text, true
	}
}

func metaName(name string) func(*goquery.Document) (string, bool) {
	return metaAttr("meta[name='" + name + "']")
}

func metaProperty(prop string) func(*goquery.Document) (string, bool) {
	return metaAttr("meta[property='" + prop + "']")
}

func metaAttr(selector string) func(*goquery.Document) (string, bool) {
	return func(doc *goquery.Document) (string, bool) {
		content, exists := doc.Find(selector).First().Attr("content")
		content = collapseWhitespace(content)
		if !exists || content == "" {
			return "", false
		}
		return content, true
	}
}

// firstLongParagraph matches the first paragraph in the zone that is long
// enough and does not open with boilerplate.
func firstLongParagraph(selector string) func(*goquery.Document) (string, bool) {
	return func(doc *goquery.Document) (string, bool) {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := collapseWhitespace(sel.Text())
			if len([]rune(text)) <= minParagraphLength || isBoilerplate(text) {
				return true
			}
			found = text
			return false
		})
		return found, found != ""
	}
}

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// extractImage walks the image chain: social preview meta, twitter card,
// first content-zone image, then a region default.
func (e *Extractor) extractImage(doc *goquery.Document, base *url.URL) string {
	if src, ok := metaProperty("og:image")(doc); ok {
		return src
	}
	if src, ok := metaName("twitter:image")(doc); ok {
		return src
	}
	if src, ok := metaProperty("twitter:image")(doc); ok {
		return src
	}
	if src, exists := doc.Find("article img, main img").First().Attr("src"); exists {
		if abs := resolveURL(base, src); abs != "" {
			return abs
		}
	}
	return e.defaultImage(base.Hostname())
}

func (e *Extractor) defaultImage(host string) string {
	for _, d := range e.localDomains {
		if strings.Contains(host, d) {
			return e.localImage
		}
	}
	return e.globalImage
}

// classify looks up tags and display name by host. The first table entry
// whose key is a substring of the host wins.
func (e *Extractor) classify(host string) ([]string, string) {
	for _, entry := range e.sources {
		if strings.Contains(host, entry.key) {
			return append([]string(nil), entry.tags...), entry.name
		}
	}
	return append([]string(nil), record.DefaultTags...), record.UnknownSource
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
